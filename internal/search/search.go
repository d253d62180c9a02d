package search

import (
	"os"

	"golang.org/x/sync/errgroup"

	"parfind/internal/logger"
)

// scheduler drives one search: a seed walk on the root followed by rounds
// of parallel walks over the redistributed frontier.
type scheduler struct {
	opts   Options
	walker *walker
	sel    Selection
	out    *sink // nil when sorting
}

// roundOutput is the filtered, rendered output of one walker invocation
type roundOutput struct {
	overflow []string
	results  []result
	matches  int
	dirs     int
	entries  int
	skipped  int
}

// Find searches root for entries matching pattern. With sorting enabled it
// returns the ordered results. Otherwise results are written to opts.Output
// as each invocation finishes and the returned slice is empty.
func Find(pattern, root string, opts Options) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	matcher, err := NewMatcher(pattern, opts.Match, opts.IgnoreCase)
	if err != nil {
		return nil, err
	}
	sel, err := opts.Filter.Selection()
	if err != nil {
		return nil, err
	}
	if opts.SeedBudget <= 0 {
		opts.SeedBudget = defaultSeedBudget
	}

	root = trimRoot(root)
	s := &scheduler{
		opts:   opts,
		walker: newWalker(root, matcher, opts),
		sel:    sel,
	}
	if opts.Sort == SortNone {
		w := opts.Output
		if w == nil {
			w = os.Stdout
		}
		s.out = newSink(w)
	}
	return s.run(root)
}

func (o Options) validate() error {
	if o.Threads < 2 {
		return &ConfigError{Field: "thread count", Msg: "must be at least 2"}
	}
	if o.RoundBudget < 1 {
		return &ConfigError{Field: "round budget", Msg: "must be at least 1"}
	}
	if o.Sort < SortNone || o.Sort > SortDescending {
		return &ConfigError{Field: "sort order", Msg: "unknown order"}
	}
	if o.Label < LabelNone || o.Label > LabelSuffix {
		return &ConfigError{Field: "label position", Msg: "unknown position"}
	}
	if o.Partition < PartitionInterleave || o.Partition > PartitionHash {
		return &ConfigError{Field: "partition strategy", Msg: "unknown strategy"}
	}
	return nil
}

func (s *scheduler) run(root string) ([]string, error) {
	seed, err := s.invoke([]string{root}, s.opts.SeedBudget, s.opts.IncludeTarget)
	if err != nil {
		return nil, err
	}
	logger.Debug("Seed walk of %s: %d dirs, %d entries, %d matches, %d deferred",
		root, seed.dirs, seed.entries, seed.matches, len(seed.overflow))
	s.report(RoundStats{Frontier: 1, Invocations: 1}, []roundOutput{seed})

	var all []result
	if s.out == nil {
		all = seed.results
	}
	frontier := seed.overflow

	for round := 1; len(frontier) > 0; round++ {
		parts := partition(frontier, s.opts.Threads, s.opts.Partition)
		outs := make([]roundOutput, len(parts))

		var g errgroup.Group
		g.SetLimit(len(parts))
		for i, part := range parts {
			i, part := i, part
			g.Go(func() error {
				out, err := s.invoke(part, s.opts.RoundBudget, true)
				if err != nil {
					return err
				}
				outs[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		// merge in slice order, not completion order
		next := make([]string, 0, len(frontier))
		for i := range outs {
			next = append(next, outs[i].overflow...)
			all = append(all, outs[i].results...)
		}
		stats := s.report(RoundStats{Round: round, Frontier: len(frontier), Invocations: len(parts)}, outs)
		logger.Debug("Round %d: %d dirs over %d workers, %d matches, %d deferred",
			round, stats.Frontier, stats.Invocations, stats.Matches, stats.Overflow)
		frontier = next
	}

	if s.out != nil {
		if err := s.out.Err(); err != nil {
			return nil, err
		}
		return []string{}, nil
	}

	sortResults(all, s.opts.Sort, s.opts.Label, s.opts.Threads)
	return flattenResults(all), nil
}

// invoke runs one walker invocation and post-processes its matches on the
// calling goroutine. In unsorted mode the results are streamed and dropped.
func (s *scheduler) invoke(dirs []string, budget int, matchAssigned bool) (roundOutput, error) {
	res, err := s.walker.walk(dirs, budget, matchAssigned)
	if err != nil {
		return roundOutput{}, err
	}
	results := renderAll(res.buckets.Flatten(s.sel), s.opts.Label)
	out := roundOutput{
		overflow: res.overflow,
		matches:  len(results),
		dirs:     res.dirs,
		entries:  res.entries,
		skipped:  res.skipped,
	}
	if s.out != nil {
		s.out.emit(results)
	} else {
		out.results = results
	}
	return out, nil
}

func (s *scheduler) report(stats RoundStats, outs []roundOutput) RoundStats {
	for _, o := range outs {
		stats.Dirs += o.dirs
		stats.Entries += o.entries
		stats.Matches += o.matches
		stats.Skipped += o.skipped
		stats.Overflow += len(o.overflow)
	}
	if s.opts.OnRound != nil {
		s.opts.OnRound(stats)
	}
	return stats
}
