package logger

import (
	"context"
	"errors"
	"testing"

	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, config PerformanceConfig) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	SetOptimizedLogger(zap.New(core), config)
	t.Cleanup(func() { SetOptimizedLogger(zap.NewNop(), DefaultPerformanceConfig()) })
	return logs
}

func TestContextLogBuilder_ExtractsContextFields(t *testing.T) {
	logs := observe(t, DevelopmentConfig())

	ctx := ctxutil.WithRequestID(context.Background(), "req-1")
	ctx = ctxutil.WithUserID(ctx, "user-9")
	ctx = ctxutil.WithFunction(ctx, "service", "Chat")

	InfoWithContext(ctx, "chat turn").
		String("user_key", "user-9").
		Err(errors.New("boom")).
		Log()

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "chat turn", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-9", fields["user_id"])
	assert.Equal(t, "service", fields["module"])
	assert.Equal(t, "Chat", fields["function"])
	assert.Equal(t, "boom", fields["error"])
}

func TestContextLogBuilder_FiltersBelowMinLevel(t *testing.T) {
	logs := observe(t, DefaultPerformanceConfig())

	DebugWithContext(context.Background(), "noise").String("k", "v").Log()
	WarnWithContext(context.Background(), "kept").Log()

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2)

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}
