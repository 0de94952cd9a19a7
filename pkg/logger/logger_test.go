package logger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"socialclient/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "invalid", ""}

	for _, env := range []logger.Environment{logger.Development, logger.Production} {
		for _, level := range levels {
			t.Run(string(env)+"/level="+level, func(t *testing.T) {
				log, err := logger.NewLogger(env, level)
				require.NoError(t, err)
				require.NotNil(t, log)
			})
		}
	}
}

func TestFromContext(t *testing.T) {
	t.Run("logger bound to context", func(t *testing.T) {
		testLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		type ctxKeyType struct{}
		ctx := logger.NewContext(context.Background(), testLogger)
		derived := context.WithValue(ctx, ctxKeyType{}, "value")

		retrieved, ok := logger.FromContext(derived)
		require.True(t, ok)
		assert.Same(t, testLogger, retrieved)
	})

	t.Run("no logger in context", func(t *testing.T) {
		retrieved, ok := logger.FromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, retrieved)
	})

	t.Run("nil logger is ignored", func(t *testing.T) {
		_, ok := logger.FromContext(logger.NewContext(context.Background(), nil))
		assert.False(t, ok)
	})
}

func TestLogPrefersContextThenGlobal(t *testing.T) {
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	fallback := logger.Log(context.Background())
	require.NotNil(t, fallback)

	global, err := logger.NewLogger(logger.Production, "info")
	require.NoError(t, err)
	logger.SetGlobalLogger(global)
	assert.Same(t, global, logger.Log(context.Background()))

	scoped, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	ctx := logger.NewContext(context.Background(), scoped)
	assert.Same(t, scoped, logger.Log(ctx))

	logger.SetGlobalLogger(nil)
	assert.Same(t, fallback, logger.Log(context.Background()))
}

func TestForRequest(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := logger.NewContext(context.Background(), logger.NewFromZap(zap.New(core)))

	ctx, log := logger.ForRequest(base, zap.String("method", "Tick"))
	log.Info(ctx, "tick")

	id, ok := logger.GetRequestID(ctx)
	require.True(t, ok)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ContextMap()[logger.RequestID])
	assert.Equal(t, "Tick", entries[0].ContextMap()["method"])

	again, _ := logger.ForRequest(logger.NewRequestIDContext(base, "keep"))
	kept, _ := logger.GetRequestID(again)
	assert.Equal(t, "keep", kept)
}

func TestRequestIDIsAttachedToEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromZap(zap.New(core))

	ctx := logger.NewRequestIDContext(context.Background(), "req-42")
	log.With(zap.String("method", "Execute")).Info(ctx, "request sent")
	log.Warn(context.Background(), "no request id")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-42", entries[0].ContextMap()[logger.RequestID])
	assert.Equal(t, "Execute", entries[0].ContextMap()["method"])
	assert.NotContains(t, entries[1].ContextMap(), logger.RequestID)
}

func TestRequestIDHelpers(t *testing.T) {
	t.Run("generates id for empty value", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "")
		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("ensure keeps existing id", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "keep-me")
		ctx2, id := logger.EnsureRequestID(ctx)
		assert.Equal(t, "keep-me", id)
		assert.Equal(t, ctx, ctx2)
	})

	t.Run("ensure adds id when missing", func(t *testing.T) {
		ctx, id := logger.EnsureRequestID(context.Background())
		assert.NotEmpty(t, id)
		got, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		assert.Equal(t, id, got)
	})
}
