package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mateusmacedo/go-railticket/pkg/application"
)

func TestZapAppLoggerInjectsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapAppLoggerFrom(zap.New(core))
	ctx := application.ContextWithRequestID(context.Background(), "req-42")

	logger.Info(ctx, "ticket booked", map[string]interface{}{"pnr": 100000})

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["requestID"])
	assert.EqualValues(t, 100000, fields["pnr"])
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestZapAppLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapAppLoggerFrom(zap.New(core))
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Trace(ctx, "trace", nil)
	application.LogError(ctx, logger, "failed", assert.AnError, map[string]interface{}{"pnr": 1})

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, assert.AnError.Error(), entries[2].ContextMap()["error"])
	_, hasRequestID := entries[0].ContextMap()["requestID"]
	assert.False(t, hasRequestID)
}

func TestNewZapAppLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewZapAppLogger("railticket", "loud")
	assert.Error(t, err)

	logger, err := NewZapAppLogger("railticket", "warn")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
