package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"online-judge/internal/domain"
)

// SessionTracker marks logged-in users in Redis so other instances (or ops
// tooling) can see who is active. Markers expire ttl after the last activity.
type SessionTracker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionTracker(client *redis.Client, ttl time.Duration) *SessionTracker {
	return &SessionTracker{client: client, ttl: ttl}
}

func (s *SessionTracker) Start(ctx context.Context, user domain.User) error {
	return s.client.Set(ctx, s.key(user.ID), user.Username, s.ttl).Err()
}

// Touch extends the marker's expiry. A marker already ended is not recreated.
func (s *SessionTracker) Touch(ctx context.Context, userID string) error {
	return s.client.Expire(ctx, s.key(userID), s.ttl).Err()
}

func (s *SessionTracker) End(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}

// Active counts live session markers.
func (s *SessionTracker) Active(ctx context.Context) (int, error) {
	count := 0
	iter := s.client.Scan(ctx, 0, s.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SessionTracker) key(userID string) string {
	return "judge:session:" + userID
}
