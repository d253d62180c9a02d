package search

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// result is one rendered match: its path line and, in content mode, the
// "lineNumber:lineText" lines that follow it.
type result struct {
	head  string
	lines []string
}

func render(rec MatchRecord, pos LabelPosition) result {
	r := result{head: Decorate(rec, pos)}
	if len(rec.Lines) > 0 {
		r.lines = make([]string, len(rec.Lines))
		for i, l := range rec.Lines {
			r.lines[i] = strconv.Itoa(l.Number) + ":" + l.Text
		}
	}
	return r
}

func renderAll(recs []MatchRecord, pos LabelPosition) []result {
	out := make([]result, len(recs))
	for i, rec := range recs {
		out[i] = render(rec, pos)
	}
	return out
}

// flattenResults turns results into the line sequence returned by Find
func flattenResults(results []result) []string {
	n := 0
	for _, r := range results {
		n += 1 + len(r.lines)
	}
	out := make([]string, 0, n)
	for _, r := range results {
		out = append(out, r.head)
		out = append(out, r.lines...)
	}
	return out
}

// sink writes batches of results for unsorted searches. Each batch is
// written with a single call so batches from different workers never
// interleave.
type sink struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func newSink(w io.Writer) *sink {
	return &sink{w: w}
}

func (s *sink) emit(results []result) {
	if len(results) == 0 {
		return
	}
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r.head)
		b.WriteByte('\n')
		for _, l := range r.lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	if _, err := io.WriteString(s.w, b.String()); err != nil {
		s.err = fmt.Errorf("failed to write results: %w", err)
	}
}

func (s *sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
