package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsIDs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "u1")
	WithContext(ctx, base).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "req-1", fields["request_id"])
	require.Equal(t, "u1", fields["user_id"])
}

func TestWithContextNoIDs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	WithContext(context.Background(), base).Info("plain")
	require.Empty(t, logs.All()[0].ContextMap())
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{ProductionMode, DevelopmentMode} {
		l, err := New(mode)
		require.NoError(t, err)
		require.NotNil(t, l)
	}
}
