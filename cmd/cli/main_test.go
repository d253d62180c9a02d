package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("TODO: "+f+"\n"), 0644))
	}
}

func TestCLISortedExact(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", ".hidden.txt", "sub/a.txt")

	out, _, err := runCLI(t, "-t", "2", "-e", "-s", "a.txt", root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a.txt")+"\n"+filepath.Join(root, "sub", "a.txt")+"\n", out)
}

func TestCLILabelsAndHidden(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, ".env")

	out, _, err := runCLI(t, "-s", "-l", "-H", `^\.env$`, root)
	require.NoError(t, err)
	assert.Equal(t, "FRH "+filepath.Join(root, ".env")+"\n", out)
}

func TestCLIUnsortedStreams(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "x/one.go", "y/two.go")

	out, _, err := runCLI(t, `\.go$`, root)
	require.NoError(t, err)
	lines := strings.Fields(out)
	assert.ElementsMatch(t, []string{filepath.Join(root, "x", "one.go"), filepath.Join(root, "y", "two.go")}, lines)
}

func TestCLIContent(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "notes.txt")

	out, _, err := runCLI(t, "-c", "-s", "TODO", root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "notes.txt")+"\n1:TODO: notes.txt\n", out)
}

func TestCLIRejectsOneThread(t *testing.T) {
	_, _, err := runCLI(t, "-t", "1", "x", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threads")
}

func TestCLIRejectsMissingRoot(t *testing.T) {
	_, _, err := runCLI(t, "x", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid root path")
}

func TestCLIRequiresTwoArgs(t *testing.T) {
	_, _, err := runCLI(t, "x")
	assert.Error(t, err)
}

func TestCLIProgressSummary(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.go")

	_, stderr, err := runCLI(t, "-p", "-s", `\.go$`, root)
	require.NoError(t, err)
	assert.Contains(t, stderr, "1 matches in 1 dirs")
}

func TestCLILogFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.go")
	logPath := filepath.Join(t.TempDir(), "run.log")

	_, _, err := runCLI(t, "--log-file", logPath, "--log-level", "debug", "-s", `\.go$`, root)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Seed walk of")
}
