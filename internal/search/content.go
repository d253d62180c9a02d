package search

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
)

// readBufferSize is the size of pooled line readers. Longer lines are
// assembled from several reads.
const readBufferSize = 64 * 1024

type grepOptions struct {
	useMMap     bool
	minMMapSize int64
}

// Line readers are reused across files and workers
var readerPool = sync.Pool{
	New: func() interface{} {
		return bufio.NewReaderSize(nil, readBufferSize)
	},
}

// grepEntry scans one file or symlink for matching lines. Symlinks are
// resolved first. ok is false when nothing matched or the file was skipped;
// err describes why a file was skipped.
func (w *walker) grepEntry(path string, kind Kind, mode fs.FileMode, parentHidden bool) (MatchRecord, bool, error) {
	target := path
	if kind == KindSymlink {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return MatchRecord{}, false, &FileAccessError{Path: path, Op: "resolve", Err: err}
		}
		if abs, err := filepath.Abs(resolved); err == nil {
			resolved = abs
		}
		target = resolved
	} else if !mode.IsRegular() {
		// fifos, sockets and devices are never opened
		return MatchRecord{}, false, nil
	}

	// a read error may still leave matches from the readable lines
	lines, err := w.grepFile(target)
	if len(lines) == 0 {
		return MatchRecord{}, false, err
	}
	return MatchRecord{
		Path:   target,
		Kind:   kind,
		Hidden: parentHidden || isHiddenName(filepath.Base(target)),
		Lines:  lines,
	}, true, err
}

// grepFile returns every matching line of the regular file at path
func (w *walker) grepFile(path string) ([]LineMatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "stat", Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	var matches []LineMatch
	collect := func(n int, line []byte) {
		if utf8.Valid(line) && w.matcher.Match(line) {
			matches = append(matches, LineMatch{Number: n, Text: string(line)})
		}
	}

	if w.grep.useMMap && w.grep.minMMapSize > 0 && info.Size() >= w.grep.minMMapSize {
		err := grepMapped(f, collect)
		if err == nil {
			return matches, nil
		}
		// fall back to buffered reads
		if _, serr := f.Seek(0, io.SeekStart); serr != nil {
			return nil, &FileAccessError{Path: path, Op: "mmap", Err: err}
		}
	}

	if err := scanLines(f, collect); err != nil {
		return matches, &FileAccessError{Path: path, Op: "read", Err: err}
	}
	return matches, nil
}

// grepMapped splits a memory-mapped file into lines
func grepMapped(f *os.File, fn func(n int, line []byte)) error {
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to mmap file: %w", err)
	}
	defer data.Unmap()

	n := 0
	for rest := []byte(data); len(rest) > 0; {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			rest = nil
		}
		n++
		fn(n, trimCR(line))
	}
	return nil
}

// scanLines calls fn for every line of r, whatever its length. Read errors
// skip the affected line; reading stops once the reader fails twice without
// making progress.
func scanLines(r io.Reader, fn func(n int, line []byte)) error {
	br := readerPool.Get().(*bufio.Reader)
	br.Reset(r)
	defer func() {
		br.Reset(nil)
		readerPool.Put(br)
	}()

	n := 0
	failures := 0
	var lastErr error
	var long []byte
	for {
		line, err := br.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			// the slice is only valid until the next read
			long = append(long, line...)
			continue
		}
		if len(long) > 0 {
			line = append(long, line...)
			long = line[:0]
		}
		switch {
		case err == nil || err == io.EOF:
			if len(line) > 0 {
				n++
				failures = 0
				fn(n, trimCR(bytes.TrimSuffix(line, []byte{'\n'})))
			}
			if err == io.EOF {
				return lastErr
			}
		default:
			lastErr = err
			if len(line) > 0 {
				failures = 0
			} else {
				failures++
			}
			n++
			if failures >= 2 {
				return lastErr
			}
		}
	}
}

func trimCR(line []byte) []byte {
	return bytes.TrimSuffix(line, []byte{'\r'})
}
