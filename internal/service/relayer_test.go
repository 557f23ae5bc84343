package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	keys   []string
	types  []string
	values []string
	fail   bool
}

func (p *fakeProducer) Publish(_ context.Context, ev pkg.Event) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.keys = append(p.keys, ev.Key)
	p.types = append(p.types, ev.Type)
	p.values = append(p.values, string(ev.Payload))
	return nil
}

func TestOutboxRelayer_DrainOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.Follows().Follow(ctx, 3, 4)
	require.NoError(t, err)
	_, err = store.Follows().Unfollow(ctx, 3, 4)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	producer := &fakeProducer{fail: true}
	relayer := NewOutboxRelayer(store.Outbox(), KafkaSender(producer), log, RelayerOptions{BatchSize: 10, MaxRetry: 2})

	assert.Zero(t, relayer.DrainOnce(ctx))
	pending, _ := store.Outbox().ListPending(ctx, 10, 2)
	require.Len(t, pending, 2)
	assert.Equal(t, model.OutboxFailed, pending[0].Status)
	assert.Equal(t, 1, pending[0].Retry)

	producer.fail = false
	assert.Equal(t, 2, relayer.DrainOnce(ctx))
	assert.Equal(t, []string{"3", "3"}, producer.keys)
	assert.Equal(t, []string{model.EventFollow, model.EventUnfollow}, producer.types)
	assert.Contains(t, producer.values[0], `"event":"follow"`)
	assert.Contains(t, producer.values[1], `"event":"unfollow"`)

	assert.Zero(t, relayer.DrainOnce(ctx))
}

func TestOutboxRelayer_RunStopsOnCancel(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	relayer := NewOutboxRelayer(memory.NewStore().Outbox(), LogSender(log), log, RelayerOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relayer.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
}
