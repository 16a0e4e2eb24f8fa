package leaderboard

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"online-judge/internal/domain"
)

func TestRankOrdersByScoreDescending(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Username: "low", Score: 10},
		{ID: "u2", Username: "high", Score: 30},
	}
	entries := Rank(users)
	if entries[0].UserID != "u2" || entries[1].UserID != "u1" {
		t.Fatalf("unexpected order %+v", entries)
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("unexpected ranks %+v", entries)
	}
	if users[0].ID != "u1" {
		t.Fatalf("input must not be reordered")
	}
}

func TestRankIsStableForTies(t *testing.T) {
	users := []domain.User{
		{ID: "a", Score: 5},
		{ID: "b", Score: 20},
		{ID: "c", Score: 5},
		{ID: "d", Score: -5, Penalties: 1},
		{ID: "e", Score: 5},
	}
	var ids []string
	for _, e := range Rank(users) {
		ids = append(ids, e.UserID)
	}
	if want := []string{"b", "a", "c", "e", "d"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
}

func TestRankIsIdempotent(t *testing.T) {
	users := []domain.User{{ID: "a", Score: 1}, {ID: "b", Score: 1}, {ID: "c", Score: 3}}
	first := Rank(users)
	second := Rank(users)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ranking changed between calls: %+v vs %+v", first, second)
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Fatalf("expected empty ranking, got %+v", got)
	}
}

func TestBoardCurrent(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := staticSource{{ID: "a", Username: "alice", Score: 10}, {ID: "b", Username: "bob", Score: 30, Penalties: 2}}
	board := NewBoardWithClock(src, func() time.Time { return at })

	lb := board.Current()
	if !lb.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected timestamp %v", lb.UpdatedAt)
	}
	if len(lb.Entries) != 2 || lb.Entries[0].Username != "bob" || lb.Entries[0].Penalties != 2 {
		t.Fatalf("unexpected board %+v", lb.Entries)
	}
}

func TestBoardCurrentDoesNotReuseRankingFromBeforeWrite(t *testing.T) {
	src := newBlockingSource(domain.User{ID: "a", Username: "alice"})
	board := NewBoard(src)

	first := make(chan domain.Leaderboard, 1)
	go func() { first <- board.Current() }()
	<-src.entered

	src.setScore(10)

	second := make(chan domain.Leaderboard, 1)
	go func() { second <- board.Current() }()

	select {
	case lb := <-second:
		if lb.Entries[0].Score != 10 {
			t.Fatalf("ranking requested after the write has score %d, want 10", lb.Entries[0].Score)
		}
	case <-time.After(2 * time.Second):
		close(src.release)
		t.Fatalf("ranking requested after the write waited on an older computation")
	}

	close(src.release)
	<-first
	if n := src.calls.Load(); n != 2 {
		t.Fatalf("expected 2 snapshots, got %d", n)
	}
}

type staticSource []domain.User

func (s staticSource) Snapshot() []domain.User {
	return append([]domain.User(nil), s...)
}

func (s staticSource) Version() uint64 { return 0 }

// blockingSource holds its first Snapshot call until release is closed.
type blockingSource struct {
	mu      sync.Mutex
	users   []domain.User
	version atomic.Uint64
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func newBlockingSource(users ...domain.User) *blockingSource {
	return &blockingSource{
		users:   users,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *blockingSource) Snapshot() []domain.User {
	s.mu.Lock()
	users := append([]domain.User(nil), s.users...)
	s.mu.Unlock()
	if s.calls.Add(1) == 1 {
		close(s.entered)
		<-s.release
	}
	return users
}

func (s *blockingSource) Version() uint64 { return s.version.Load() }

func (s *blockingSource) setScore(score int) {
	s.mu.Lock()
	s.users[0].Score = score
	s.mu.Unlock()
	s.version.Add(1)
}
