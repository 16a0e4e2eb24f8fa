// Package leaderboard ranks users by score.
package leaderboard

import (
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
	"online-judge/internal/domain"
)

// Rank orders users by score, highest first. Equal scores keep their input order.
// The input slice is not modified.
func Rank(users []domain.User) []domain.LeaderboardEntry {
	ordered := append([]domain.User(nil), users...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	entries := make([]domain.LeaderboardEntry, len(ordered))
	for i, u := range ordered {
		entries[i] = domain.LeaderboardEntry{
			Rank:      i + 1,
			UserID:    u.ID,
			Username:  u.Username,
			Score:     u.Score,
			Penalties: u.Penalties,
		}
	}
	return entries
}

// Source supplies a consistent snapshot of users in registration order.
// Version must increase after every write that can change the ranking.
type Source interface {
	Snapshot() []domain.User
	Version() uint64
}

// Board recomputes the ranking on every request. Concurrent requests that
// observe the same source version share one computation.
type Board struct {
	source Source
	now    func() time.Time
	sf     singleflight.Group
}

func NewBoard(source Source) *Board {
	return NewBoardWithClock(source, time.Now)
}

// NewBoardWithClock is for deterministic timestamps in tests.
func NewBoardWithClock(source Source, now func() time.Time) *Board {
	return &Board{source: source, now: now}
}

// Current may return a ranking computed by a request already in flight, but
// only one started after every write visible to the caller.
func (b *Board) Current() domain.Leaderboard {
	key := strconv.FormatUint(b.source.Version(), 10)
	v, _, _ := b.sf.Do(key, func() (interface{}, error) {
		return b.Fresh(), nil
	})
	lb := v.(domain.Leaderboard)
	lb.Entries = append([]domain.LeaderboardEntry(nil), lb.Entries...)
	return lb
}

// Fresh always ranks a new snapshot.
func (b *Board) Fresh() domain.Leaderboard {
	return domain.Leaderboard{
		Entries:   Rank(b.source.Snapshot()),
		UpdatedAt: b.now(),
	}
}
