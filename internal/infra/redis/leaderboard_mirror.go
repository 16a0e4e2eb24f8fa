package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"online-judge/internal/domain"
)

// LeaderboardMirror copies the ranking into Redis:
//
//	ZADD {key} {score} {userID}
//	HSET {key}:names {userID} {username}
//	HSET {key}:penalties {userID} {penalties}
//
// The whole board is rewritten in one transaction so readers never see half of it.
type LeaderboardMirror struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewLeaderboardMirror(client *redis.Client, key string, ttl time.Duration) *LeaderboardMirror {
	return &LeaderboardMirror{client: client, key: key, ttl: ttl}
}

func (m *LeaderboardMirror) Publish(ctx context.Context, lb domain.Leaderboard) error {
	names, penalties := m.namesKey(), m.penaltiesKey()

	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, m.key, names, penalties)
		for _, e := range lb.Entries {
			pipe.ZAdd(ctx, m.key, redis.Z{Score: float64(e.Score), Member: e.UserID})
			pipe.HSet(ctx, names, e.UserID, e.Username)
			pipe.HSet(ctx, penalties, e.UserID, e.Penalties)
		}
		if m.ttl > 0 && len(lb.Entries) > 0 {
			pipe.Expire(ctx, m.key, m.ttl)
			pipe.Expire(ctx, names, m.ttl)
			pipe.Expire(ctx, penalties, m.ttl)
		}
		return nil
	})
	return err
}

// Top reads back the n best entries (n <= 0 means all). Redis orders equal
// scores by member, so ties may differ from the in-process ranking.
func (m *LeaderboardMirror) Top(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	stop := int64(n - 1)
	if n <= 0 {
		stop = -1
	}
	zs, err := m.client.ZRevRangeWithScores(ctx, m.key, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(zs) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	ids := make([]string, len(zs))
	for i, z := range zs {
		ids[i], _ = z.Member.(string)
	}
	names, err := m.client.HMGet(ctx, m.namesKey(), ids...).Result()
	if err != nil {
		return nil, err
	}
	penalties, err := m.client.HMGet(ctx, m.penaltiesKey(), ids...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, len(zs))
	for i, z := range zs {
		entries[i] = domain.LeaderboardEntry{
			Rank:      i + 1,
			UserID:    ids[i],
			Username:  asString(names[i]),
			Score:     int(z.Score),
			Penalties: asInt(penalties[i]),
		}
	}
	return entries, nil
}

func (m *LeaderboardMirror) namesKey() string {
	return m.key + ":names"
}

func (m *LeaderboardMirror) penaltiesKey() string {
	return m.key + ":penalties"
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	n, _ := strconv.Atoi(asString(v))
	return n
}
