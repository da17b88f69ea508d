package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatLog(t *testing.T) {
	ts := time.Date(2025, 12, 30, 9, 32, 51, 0, time.UTC)

	got := formatLog(ts, slog.LevelWarn, "uv", "uv not on PATH")

	assert.Equal(t, "[2025-12-30 09:32:51] [WARN] [uv] uv not on PATH\n", got)
}

func TestLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "", slog.LevelInfo)

	logger.Info("install", "installing tool.py")

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "[install]")
	assert.Contains(t, out, "installing tool.py")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "", slog.LevelWarn)

	logger.Debug("uv", "debug message")
	logger.Info("uv", "info message")
	logger.Warn("uv", "warn message")
	logger.Error("uv", "error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "[ERROR]")
}

func TestLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "loader.log")
	logger := New(nil, path, slog.LevelDebug)
	defer func() { _ = logger.Close() }()

	logger.Debug("provision", "downloading uv")
	logger.Info("provision", "installed uv")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[DEBUG] [provision] downloading uv")
	assert.Contains(t, lines[1], "[INFO] [provision] installed uv")
}

func TestLogger_FileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loader.log")

	first := New(nil, path, slog.LevelInfo)
	first.Info("run", "first")
	require.NoError(t, first.Close())

	second := New(nil, path, slog.LevelInfo)
	second.Info("run", "second")
	require.NoError(t, second.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "first")
	assert.Contains(t, string(content), "second")
}

func TestLogger_NoFileWhenBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loader.log")
	logger := New(nil, path, slog.LevelError)
	defer func() { _ = logger.Close() }()

	logger.Info("run", "ignored")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "log file should not be created for filtered entries")
}

func TestLogger_CloseWithoutFile(t *testing.T) {
	logger := New(nil, "", slog.LevelInfo)

	assert.NoError(t, logger.Close())
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "", slog.LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("concurrent", "message")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(buf.String(), "[concurrent] message"))
}
