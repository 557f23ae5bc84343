package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	c := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestUserTokenKey(t *testing.T) {
	assert.Equal(t, "login:user:token:42", userTokenKey(42))
}

func TestSessionRepository_Unavailable(t *testing.T) {
	repo := &SessionRepository{Client: unreachableClient(t)}
	ctx := context.Background()

	assert.ErrorIs(t, repo.Save(ctx, 1, "tok", time.Minute), ErrRedisUnavailable)
	_, err := repo.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrRedisUnavailable)
	assert.ErrorIs(t, repo.Delete(ctx, 1), ErrRedisUnavailable)
}

func TestPageCache_UnavailableIsError(t *testing.T) {
	c := &PageCache{Client: unreachableClient(t)}
	_, ok, err := c.Get(context.Background(), "home?")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewClient_PingFails(t *testing.T) {
	_, err := NewClient(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
