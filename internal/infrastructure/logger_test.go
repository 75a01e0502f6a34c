package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battmerge/internal/config"
)

func TestNewRunContext(t *testing.T) {
	ctx, id := NewRunContext(context.Background())
	require.NotEmpty(t, id)
	assert.Equal(t, id, RunIDFromContext(ctx))

	ctx2, id2 := NewRunContext(context.Background())
	assert.NotEqual(t, id, id2, "each run gets a distinct ID")
	assert.Equal(t, id2, RunIDFromContext(ctx2))
}

func TestRunIDFromContextMissing(t *testing.T) {
	assert.Empty(t, RunIDFromContext(context.Background()))
}

func TestRunIDHandlerInjectsRunID(t *testing.T) {
	var buf bytes.Buffer
	handler := &runIDHandler{Handler: slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	ctx, id := NewRunContext(context.Background())
	logger.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, id, record["run_id"])
	assert.Equal(t, "hello", record["msg"])
}

func TestRunIDHandlerWithoutRunID(t *testing.T) {
	var buf bytes.Buffer
	handler := &runIDHandler{Handler: slog.NewJSONHandler(&buf, nil)}
	slog.New(handler).Info("plain")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	_, present := record["run_id"]
	assert.False(t, present)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("anything else"))
}

func TestCreateLoggerConsole(t *testing.T) {
	logger, err := createLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestCreateLoggerFile(t *testing.T) {
	path := t.TempDir() + "/logs/test.log"
	logger, err := createLogger(config.LoggingConfig{
		Level:    "debug",
		Format:   "text",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)
	logger.Info("write through")
}
