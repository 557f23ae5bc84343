package pkg

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("warn", &buf)

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown", Err(errors.New("boom")))
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "boom")
}

func TestViewerFromContext(t *testing.T) {
	_, ok := ViewerFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithViewer(context.Background(), Viewer{ID: 3, Username: "leo"})
	v, ok := ViewerFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "leo", v.Username)
}
