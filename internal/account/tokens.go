package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"shopmobile/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const resetKeyPrefix = "pwreset:"

// RedisTokenStore keeps reset tokens in redis; expiry is handled by TTL.
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, resetKeyPrefix+token, userID, ttl).Err()
}

// Consume deletes the token while reading it, so a token can only be spent
// once even under concurrent requests.
func (s *RedisTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	val, err := s.rdb.GetDel(ctx, resetKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("%w: reset token is invalid or expired", errs.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: reset token is invalid or expired", errs.ErrNotFound)
	}
	return uint(userID), nil
}
