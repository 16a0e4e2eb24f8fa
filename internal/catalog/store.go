// Package catalog holds the ordered problem catalog and its persisted form.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"online-judge/internal/domain"
)

// Backend is the persisted resource behind the catalog (flat file, Postgres, memory).
type Backend interface {
	Load(ctx context.Context) ([]domain.Problem, error)
	Append(ctx context.Context, p domain.Problem) error
}

// Store owns the in-memory catalog. Appends are serialized; readers get snapshots.
type Store struct {
	backend Backend
	log     logrus.FieldLogger

	mu       sync.RWMutex
	problems []domain.Problem
}

func NewStore(backend Backend, log logrus.FieldLogger) *Store {
	return &Store{backend: backend, log: log}
}

// Load replaces the in-memory catalog with the backend's contents.
func (s *Store) Load(ctx context.Context) ([]domain.Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	problems, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.problems = problems
	s.log.WithField("count", len(problems)).Info("catalog loaded")
	return cloneProblems(problems), nil
}

// Append persists p and then adds it to the catalog tail. Nothing is added to
// memory when the backend write fails.
func (s *Store) Append(ctx context.Context, p domain.Problem) error {
	p = cloneProblem(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Append(ctx, p); err != nil {
		return fmt.Errorf("persist problem: %w", err)
	}
	s.problems = append(s.problems, p)
	s.log.WithFields(logrus.Fields{"title": p.Title, "number": len(s.problems)}).Info("problem appended")
	return nil
}

// List returns the catalog in load/append order.
func (s *Store) List() []domain.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProblems(s.problems)
}

// Get returns the problem with the given 1-indexed display number.
func (s *Store) Get(number int) (domain.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if number < 1 || number > len(s.problems) {
		return domain.Problem{}, fmt.Errorf("%w: %d not in 1..%d", domain.ErrInvalidSelection, number, len(s.problems))
	}
	return cloneProblem(s.problems[number-1]), nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.problems)
}

func cloneProblems(in []domain.Problem) []domain.Problem {
	out := make([]domain.Problem, len(in))
	for i, p := range in {
		out[i] = cloneProblem(p)
	}
	return out
}

func cloneProblem(p domain.Problem) domain.Problem {
	p.Inputs = append([]int{}, p.Inputs...)
	return p
}
