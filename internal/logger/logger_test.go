package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerDisabledByDefault(t *testing.T) {
	require.NoError(t, Close())
	// must not panic or block without Init
	Debug("nothing %d", 1)
	Error("nothing %d", 2)
}

func TestLoggerWritesLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "search.log")
	require.NoError(t, Init(path, INFO))

	Debug("debug message")
	Info("info message %d", 1)
	Warning("warning message")
	Error("error message")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "debug message")
	assert.Contains(t, out, "[INFO] info message 1")
	assert.Contains(t, out, "[WARNING] warning message")
	assert.Contains(t, out, "[ERROR] error message")
	assert.Contains(t, out, "=== Log started at")
}

func TestInitReplacesLogger(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	require.NoError(t, Init(first, DEBUG))
	Error("to first")
	require.NoError(t, Init(second, DEBUG))
	Error("to second")
	require.NoError(t, Close())

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(a), "to first")
	assert.NotContains(t, string(a), "to second")
	assert.Contains(t, string(b), "to second")
}

func TestRotateLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", maxLogSize+1)), 0644))
	require.NoError(t, os.WriteFile(path+".1", []byte("older"), 0644))

	rotateLogFile(path)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	rotated, err := os.ReadFile(path + ".2")
	require.NoError(t, err)
	assert.Equal(t, "older", string(rotated))
	info, err := os.Stat(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, int64(maxLogSize+1), info.Size())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug": DEBUG, "INFO": INFO, "warn": WARNING, "warning": WARNING, "error": ERROR, "bogus": INFO,
	} {
		assert.Equal(t, want, ParseLevel(in), fmt.Sprintf("level %q", in))
	}
}
