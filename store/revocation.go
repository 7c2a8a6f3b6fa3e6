package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records token ids that must no longer be accepted.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocationList keeps revoked token ids in Redis until the token would
// have expired anyway, so every API instance sees the same list.
type RedisRevocationList struct {
	rdb    redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisRevocationList(rdb redis.UniversalClient) *RedisRevocationList {
	return &RedisRevocationList{rdb: rdb, prefix: "auth:revoked:", now: time.Now}
}

func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(l.now())
	if ttl <= 0 {
		return nil
	}
	return l.rdb.Set(ctx, l.prefix+tokenID, 1, ttl).Err()
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.rdb.Exists(ctx, l.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
