package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yatube/internal/pkg"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const UserTokenPrefix = "login:user:token"

// SessionRepository 登录态：一个用户一个 token
type SessionRepository struct {
	Client *redis.Client
}

func userTokenKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokenPrefix, userID)
}

func (r *SessionRepository) Save(ctx context.Context, userID uint64, token string, ttl time.Duration) error {
	if err := r.Client.Set(ctx, userTokenKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID uint64) (string, error) {
	token, err := r.Client.Get(ctx, userTokenKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", pkg.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return token, nil
}

// Extend 校验通过后续期
func (r *SessionRepository) Extend(ctx context.Context, userID uint64, ttl time.Duration) error {
	ok, err := r.Client.Expire(ctx, userTokenKey(userID), ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !ok {
		return pkg.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID uint64) error {
	if err := r.Client.Del(ctx, userTokenKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
