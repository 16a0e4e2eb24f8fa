// Package registry keeps the users registered during the process lifetime.
package registry

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"online-judge/internal/domain"
)

// Registry stores users in registration order. Each user carries its own lock so
// outcomes for different users never contend.
type Registry struct {
	now func() time.Time
	log logrus.FieldLogger

	mu    sync.RWMutex
	order []*record
	byID  map[string]*record

	version atomic.Uint64
}

type record struct {
	mu   sync.RWMutex
	user domain.User
}

func New(log logrus.FieldLogger) *Registry {
	return NewWithClock(log, time.Now)
}

// NewWithClock is for deterministic timestamps in tests.
func NewWithClock(log logrus.FieldLogger, now func() time.Time) *Registry {
	return &Registry{
		now:  now,
		log:  log,
		byID: make(map[string]*record),
	}
}

// Register creates a new user. Usernames are not validated and need not be unique.
func (r *Registry) Register(username string) domain.User {
	rec := &record{user: domain.User{
		ID:       uuid.NewString(),
		Username: username,
		History:  []domain.HistoryEntry{},
		JoinedAt: r.now(),
	}}

	r.mu.Lock()
	r.order = append(r.order, rec)
	r.byID[rec.user.ID] = rec
	r.mu.Unlock()
	r.version.Add(1)

	r.log.WithFields(logrus.Fields{"user_id": rec.user.ID, "username": username}).Info("user registered")
	return rec.snapshot()
}

// ApplyOutcome is the only way score, penalties and history change. All three
// are updated under the user's lock so readers never see a partial update.
func (r *Registry) ApplyOutcome(userID string, problem domain.Problem, outcome domain.Outcome) (domain.User, error) {
	rec, err := r.lookup(userID)
	if err != nil {
		return domain.User{}, err
	}

	entry := domain.HistoryEntry{
		ProblemTitle: problem.Title,
		Passed:       outcome.Passed,
		Points:       outcome.Points,
		Elapsed:      outcome.Elapsed,
		At:           r.now(),
	}

	rec.mu.Lock()
	rec.user.Score += outcome.Points
	if !outcome.Passed {
		rec.user.Penalties++
	}
	rec.user.History = append(rec.user.History, entry)
	snap := rec.snapshotLocked()
	rec.mu.Unlock()
	r.version.Add(1)

	return snap, nil
}

// HistoryOf returns the user's judged submissions, oldest first.
func (r *Registry) HistoryOf(userID string) ([]domain.HistoryEntry, error) {
	rec, err := r.lookup(userID)
	if err != nil {
		return nil, err
	}
	return rec.snapshot().History, nil
}

func (r *Registry) Get(userID string) (domain.User, error) {
	rec, err := r.lookup(userID)
	if err != nil {
		return domain.User{}, err
	}
	return rec.snapshot(), nil
}

// Snapshot returns every user in registration order. History is omitted.
func (r *Registry) Snapshot() []domain.User {
	r.mu.RLock()
	recs := append([]*record(nil), r.order...)
	r.mu.RUnlock()

	users := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		rec.mu.RLock()
		u := rec.user
		rec.mu.RUnlock()
		u.History = nil
		users = append(users, u)
	}
	return users
}

// Version counts registrations and applied outcomes.
func (r *Registry) Version() uint64 {
	return r.version.Load()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) lookup(userID string) (*record, error) {
	r.mu.RLock()
	rec, ok := r.byID[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return rec, nil
}

func (rec *record) snapshot() domain.User {
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	return rec.snapshotLocked()
}

func (rec *record) snapshotLocked() domain.User {
	u := rec.user
	u.History = append([]domain.HistoryEntry{}, rec.user.History...)
	return u
}
