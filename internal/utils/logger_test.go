package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLogger(zap.New(core))

	logger.Info("document parsed", map[string]interface{}{
		"chapters": 3,
		"path":     "data/zero.txt",
	})
	logger.Error("render failed", map[string]interface{}{"error": errors.New("boom")})
	logger.Debugf("cache %s", "hit")

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "document parsed", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 3, fields["chapters"])
	assert.Equal(t, "data/zero.txt", fields["path"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, "cache hit", entries[2].Message)
}

func TestLoggerRespectsCoreLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := NewLogger(zap.New(core))

	logger.Info("ignored", nil)
	logger.Warnf("kept %d", 1)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept 1", logs.All()[0].Message)
}

func TestGetLoggerIsSingleton(t *testing.T) {
	assert.Same(t, GetLogger(), GetLogger())
}
