package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeTree creates files under root. Keys ending in "/" are directories;
// other keys are files with the given content.
func makeTree(t *testing.T, root string, entries map[string]string) {
	t.Helper()
	for rel, content := range entries {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Threads = 4
	opts.Sort = SortAscending
	return opts
}

func mustMatcher(t *testing.T, pattern string, mode MatchMode) *Matcher {
	t.Helper()
	m, err := NewMatcher(pattern, mode, false)
	require.NoError(t, err)
	return m
}

func allRecords(b *Buckets) []MatchRecord {
	var out []MatchRecord
	for i := range b {
		out = append(out, b[i]...)
	}
	return out
}
