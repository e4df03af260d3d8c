package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesLeveledEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(path)
	require.NoError(t, err)

	logger.Info("pipeline started")
	logger.Warning("3 orphan trips")
	logger.Error("something broke")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "INFO: pipeline started")
	assert.Contains(t, content, "WARNING: 3 orphan trips")
	assert.Contains(t, content, "ERROR: something broke")
}

func TestLoggerSubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	ch := logger.Subscribe()
	logger.Info("hello subscribers")

	entry := <-ch
	assert.True(t, strings.Contains(entry, "hello subscribers"))
}

func TestLoggerReopen(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	logger, err := NewLogger(first)
	require.NoError(t, err)
	defer logger.Close()

	logger.Info("to first")
	require.NoError(t, logger.Reopen(second))
	logger.Info("to second")

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to second")
	assert.NotContains(t, string(data), "to first")
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestEvalSizeExpression(t *testing.T) {
	assert.Equal(t, int64(10*1024*1024), eval("10 * 1024 * 1024"))
	assert.Equal(t, int64(512), eval("512"))
}
