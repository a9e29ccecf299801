package infrastructure

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbdcli/internal/config"
)

func TestInitializeLoggerFileOutput(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	logPath := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "file",
		FilePath: logPath,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("pipeline run started", slog.String("stage", "load"))
	require.NoError(t, CloseLogFile())

	assert.FileExists(t, logPath)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRunID(ctx))

	ctx = WithRunID(ctx, "run-123")
	assert.Equal(t, "run-123", GetRunID(ctx))
}
