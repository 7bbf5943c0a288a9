package slogger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, Level(0))
	assert.Equal(t, slog.LevelInfo, Level(1))
	assert.Equal(t, slog.LevelDebug, Level(2))
	assert.Equal(t, slog.LevelDebug, Level(5))
}

func TestNew(t *testing.T) {
	t.Run("default verbosity hides info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Output: &buf})

		logger.Info("hidden")
		logger.Error("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("-vv enables debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Output: &buf, Verbosity: 2})

		logger.Debug("reload finished", "query", "ann")

		assert.Contains(t, buf.String(), "reload finished")
		assert.Contains(t, buf.String(), "query=ann")
	})

	t.Run("file layout uses logfmt", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Output: &buf, Verbosity: 1, File: true})

		logger.Info("started")

		assert.Contains(t, buf.String(), "msg=started")
		assert.Contains(t, buf.String(), "time=")
	})
}

func TestContext(t *testing.T) {
	t.Run("round trips the logger", func(t *testing.T) {
		logger := New(Config{})
		ctx := WithLogger(context.Background(), logger)

		assert.Same(t, logger, FromContext(ctx))
		assert.Same(t, logger, L(ctx))
	})

	t.Run("falls back to a discarding logger", func(t *testing.T) {
		logger := FromContext(context.Background())

		require.NotNil(t, logger)
		assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	})
}
