package utils

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{" INFO ", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogLevel(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}

func TestDefaultLogger_FilterByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewDefaultLogger(LevelWarn, buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error %d", 42)

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "[WARN] warn message")
	assert.Contains(t, output, "[ERROR] error 42")
}

func TestDefaultLogger_PercentInArgument(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewDefaultLogger(LevelInfo, buf)

	logger.Info("progress: %s", "100% done")

	assert.Contains(t, buf.String(), "progress: 100% done")
}

func TestDefaultLogger_FieldsAreSortedAndInherited(t *testing.T) {
	buf := &bytes.Buffer{}
	base := NewDefaultLogger(LevelDebug, buf)

	child := base.WithField("entry", "a/B.class").WithFields(map[string]interface{}{"archive": "app.jar"})
	child.Warn("skipping class")
	base.Info("no fields")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[WARN] archive=app.jar entry=a/B.class skipping class")
	assert.NotContains(t, lines[1], "archive=")
}

func TestDefaultLogger_SetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewDefaultLogger(LevelError, buf)

	logger.Info("hidden")
	logger.SetLevel(LevelDebug)
	logger.Info("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "analysis.log")

	logger, err := NewFileLogger(LevelInfo, path)
	require.NoError(t, err)
	logger.Info("written")

	assert.FileExists(t, path)
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	null := &NullLogger{}
	SetGlobalLogger(null)
	assert.Same(t, null, GetGlobalLogger())

	SetGlobalLogger(nil)
	assert.IsType(t, &NullLogger{}, GetGlobalLogger())
}

func TestNullLogger(t *testing.T) {
	logger := &NullLogger{}
	assert.NotPanics(t, func() {
		logger.Debug("x")
		logger.Info("x")
		logger.Warn("x")
		logger.Error("x")
	})
	assert.Same(t, logger, logger.WithField("k", "v"))
	assert.Same(t, logger, logger.WithFields(nil))
}
