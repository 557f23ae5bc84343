package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"yatube/internal/config"
	"yatube/internal/model"
	"yatube/internal/repository/memory"
	"yatube/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StorageBackend: config.BackendMemory,
		CacheBackend:   config.BackendMemory,
		JWT: config.JWT{
			AccessSecret:  "a",
			RefreshSecret: "r",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
		},
		Feed: config.Feed{PageSize: 10, HomeCacheTTL: 20 * time.Second},
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewStorage_Memory(t *testing.T) {
	st, err := NewStorage(context.Background(), memoryConfig(), discard())
	require.NoError(t, err)

	assert.IsType(t, &memory.UserRepository{}, st.Users)
	assert.IsType(t, &memory.PageCache{}, st.Pages)
	assert.IsType(t, &memory.SessionStore{}, st.Sessions)
	assert.IsType(t, &memory.ImageStore{}, st.Images)
	assert.NoError(t, st.Close())
}

func TestNewServices_SharedStorage(t *testing.T) {
	ctx := context.Background()
	conf := memoryConfig()
	st, err := NewStorage(ctx, conf, discard())
	require.NoError(t, err)
	svc := NewServices(st, conf, discard())

	author, err := svc.Auth.CreateUser(ctx, "leo", "password123")
	require.NoError(t, err)
	reader, err := svc.Auth.CreateUser(ctx, "reader", "password123")
	require.NoError(t, err)

	_, err = svc.Posts.Create(ctx, author.ID, service.PostForm{Text: "hello"})
	require.NoError(t, err)

	created, err := svc.Follows.Follow(ctx, reader.ID, "leo")
	require.NoError(t, err)
	assert.True(t, created)

	page, err := svc.Feed.Follow(ctx, reader.ID, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "hello", page.Items[0].Text)

	pending, err := st.Outbox.ListPending(ctx, 10, 5)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.EventFollow, pending[0].EventType)
}

func TestNewSender_LogWhenKafkaDisabled(t *testing.T) {
	sender, closeFn := newSender(config.Kafka{Enabled: false}, discard())
	require.NotNil(t, sender)
	assert.NoError(t, sender(context.Background(), &model.SocialOutbox{ID: 1, EventType: model.EventFollow}))
	assert.NoError(t, closeFn())
}

func TestStorageClose_JoinsErrors(t *testing.T) {
	var order []int
	st := &Storage{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return assert.AnError },
	}}
	err := st.Close()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []int{2, 1}, order)
	assert.NoError(t, st.Close())
}
