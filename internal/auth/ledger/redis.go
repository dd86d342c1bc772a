package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:refresh:"

// RedisLedger stores the active set in Redis so multiple server instances
// share revocation state. Keys carry the token TTL, so Redis expires
// entries for tokens whose signatures have lapsed anyway.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

// key hashes the raw token so key size stays bounded and the raw token
// never lands in Redis.
func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (l *RedisLedger) Activate(ctx context.Context, token string, ttl time.Duration) error {
	if err := l.client.Set(ctx, key(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("activate refresh token: %w", err)
	}
	return nil
}

func (l *RedisLedger) Deactivate(ctx context.Context, token string) error {
	if err := l.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("deactivate refresh token: %w", err)
	}
	return nil
}

func (l *RedisLedger) IsActive(ctx context.Context, token string) (bool, error) {
	n, err := l.client.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check refresh token: %w", err)
	}
	return n == 1, nil
}
