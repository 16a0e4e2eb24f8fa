package memory

import (
	"context"
	"sync"

	"online-judge/internal/domain"
)

// Catalog is a catalog backend held in memory (useful for tests/demos).
type Catalog struct {
	mu       sync.RWMutex
	problems []domain.Problem
}

func NewCatalog(seed ...domain.Problem) *Catalog {
	return &Catalog{problems: append([]domain.Problem{}, seed...)}
}

func (c *Catalog) Load(_ context.Context) ([]domain.Problem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Problem{}, c.problems...), nil
}

func (c *Catalog) Append(_ context.Context, p domain.Problem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.problems = append(c.problems, p)
	return nil
}
