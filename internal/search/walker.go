package search

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"parfind/internal/logger"
)

const sep = string(filepath.Separator)

// walker holds the read-only state shared by every invocation of one search
type walker struct {
	root    string
	matcher *Matcher
	exclude map[string]bool
	content bool
	grep    grepOptions
}

// walkResult is what one budget-bounded invocation hands back to the scheduler
type walkResult struct {
	overflow []string
	buckets  *Buckets
	dirs     int
	entries  int
	skipped  int
}

func newWalker(root string, m *Matcher, opts Options) *walker {
	exclude := make(map[string]bool, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		exclude[d] = true
	}
	return &walker{
		root:    root,
		matcher: m,
		exclude: exclude,
		content: opts.ContentSearch,
		grep: grepOptions{
			useMMap:     opts.UseMMap,
			minMMapSize: opts.MinMMapSize,
		},
	}
}

// walk runs a breadth-first pass over assigned until budget entries and
// directories have been processed. Directories discovered but not read are
// returned as overflow. The effective budget is never smaller than
// len(assigned) so every assigned directory is at least tested by name.
// When matchAssigned is false the assigned directories' own names are not
// tested; discovered subdirectories always are.
func (w *walker) walk(assigned []string, budget int, matchAssigned bool) (walkResult, error) {
	limit := budget
	if limit < len(assigned) {
		limit = len(assigned)
	}

	queue := make([]string, len(assigned), len(assigned)+limit)
	copy(queue, assigned)
	res := walkResult{buckets: newBuckets(limit)}

	d, f := 0, 0
	for d+f < limit && d < len(queue) {
		dir := queue[d]
		hidden := pathHidden(dir)

		if !w.content && (d >= len(assigned) || matchAssigned) && w.matcher.MatchString(filepath.Base(dir)) {
			res.buckets.add(MatchRecord{Path: dirPath(dir), Kind: KindDirectory, Hidden: hidden})
		}

		entries, err := os.ReadDir(dir)
		d++
		if err != nil {
			if w.content && dir != w.root {
				logger.Debug("Skipping unreadable directory: %s: %v", dir, err)
				res.skipped++
				continue
			}
			logger.Error("Failed to read directory %s: %v", dir, err)
			return walkResult{}, &TraversalError{Dir: dir, Err: err}
		}

		for _, entry := range entries {
			name := entry.Name()
			path := joinPath(dir, name)
			mode := entry.Type()

			if mode.IsDir() {
				if w.exclude[name] {
					logger.Debug("Skipping excluded directory: %s", path)
					continue
				}
				f++
				queue = append(queue, path)
				continue
			}

			f++
			kind := KindFile
			if mode&fs.ModeSymlink != 0 {
				kind = KindSymlink
			}

			if w.content {
				rec, ok, err := w.grepEntry(path, kind, mode, hidden)
				if err != nil {
					logger.Debug("Skipping file: %v", err)
					res.skipped++
				}
				if ok {
					res.buckets.add(rec)
				}
				continue
			}

			if w.matcher.MatchString(name) {
				res.buckets.add(MatchRecord{
					Path:   path,
					Kind:   kind,
					Hidden: hidden || isHiddenName(name),
				})
			}
		}
	}

	res.dirs = d
	res.entries = f
	res.overflow = queue[d:]
	return res, nil
}

// dirPath appends a trailing separator so directories can't be confused with
// files of the same name
func dirPath(dir string) string {
	if strings.HasSuffix(dir, sep) {
		return dir
	}
	return dir + sep
}

// joinPath appends name to dir without cleaning, so results keep the root
// prefix exactly as the caller spelled it
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, sep) {
		return dir + name
	}
	return dir + sep + name
}

// trimRoot drops trailing separators from root and leaves the rest untouched
func trimRoot(root string) string {
	if root == "" {
		return "."
	}
	trimmed := strings.TrimRight(root, sep)
	if trimmed == "" {
		return sep
	}
	return trimmed
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// pathHidden reports whether any component of path starts with a dot.
// "." and ".." components do not count.
func pathHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if isHiddenName(part) {
			return true
		}
	}
	return false
}
