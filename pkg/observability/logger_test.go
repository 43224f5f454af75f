package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry struct {
	Level   string `json:"level"`
	Message string `json:"msg"`
	Service string `json:"service"`
	Error   string `json:"error"`
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	t.Run("debug not logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Debug("debug message")
		assert.Zero(t, buf.Len())
	})

	t.Run("info logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Info("info message")
		require.NotZero(t, buf.Len())

		var entry logEntry
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "INFO", entry.Level)
		assert.Equal(t, "info message", entry.Message)
	})

	t.Run("error logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Errorf("failed after %d attempts", 1)
		require.NotZero(t, buf.Len())

		var entry logEntry
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "ERROR", entry.Level)
		assert.Equal(t, "failed after 1 attempts", entry.Message)
	})
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DebugLevel, &buf).WithField("service", "products")

	logger.Debug("resolving schema")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "products", entry.Service)
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithError(assert.AnError).Warn("registry call failed")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, assert.AnError.Error(), entry.Error)

	// nil error is a no-op wrapper
	assert.Same(t, logger, logger.WithError(nil))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.input), "input %q", tt.input)
	}
}
