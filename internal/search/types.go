package search

import (
	"io"
	"runtime"
)

// Kind is the entry type of a match. The order is the bucket order within
// one hidden state: files, then symlinks, then directories.
type Kind int

const (
	KindFile Kind = iota
	KindSymlink
	KindDirectory
)

const numKinds = 3

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindSymlink:
		return "symlink"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// LineMatch is a single matching line found in content mode
type LineMatch struct {
	Number int    // 1-indexed line number
	Text   string // line without its terminator
}

// MatchRecord represents a single found entry. Kind and Hidden are fixed
// when the entry is scanned.
type MatchRecord struct {
	Path   string // directories carry a trailing separator
	Kind   Kind
	Hidden bool
	Lines  []LineMatch // content mode only, in file order
}

// MatchMode selects how the pattern is compared against names and lines
type MatchMode int

const (
	MatchRegex MatchMode = iota
	MatchExact
)

// SortOrder controls the global ordering of results
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAscending
	SortDescending
)

// LabelPosition controls where the property tag is attached to a result
type LabelPosition int

const (
	LabelNone LabelPosition = iota
	LabelPrefix
	LabelSuffix
)

// Visibility is the filter state of one property
type Visibility int

const (
	Hide Visibility = iota
	Show
	Only // show exactly this state
)

// Filter selects which kinds and hidden states are reported
type Filter struct {
	Files    Visibility
	Dirs     Visibility
	Symlinks Visibility
	Hidden   Visibility
}

// PartitionStrategy decides how the frontier is split between workers
type PartitionStrategy int

const (
	PartitionInterleave PartitionStrategy = iota
	PartitionContiguous
	PartitionHash
)

// RoundStats describes one completed scheduling round. Round 0 is the seed walk.
type RoundStats struct {
	Round       int
	Frontier    int // directories handed out this round
	Invocations int
	Dirs        int // directories read
	Entries     int // directory entries examined
	Matches     int // matches kept after filtering
	Skipped     int // files skipped in content mode
	Overflow    int // directories deferred to the next round
}

// Options contains search parameters. Every call to Find receives its own copy.
type Options struct {
	Threads       int
	RoundBudget   int
	SeedBudget    int
	Match         MatchMode
	IgnoreCase    bool
	Filter        Filter
	Sort          SortOrder
	Label         LabelPosition
	ContentSearch bool
	IncludeTarget bool // report the root itself when it matches
	Partition     PartitionStrategy
	ExcludeDirs   []string  // directory basenames never descended into
	UseMMap       bool      // map large files in content mode
	MinMMapSize   int64     // minimum file size for using mmap
	Output        io.Writer // sink for unsorted mode; os.Stdout when nil
	OnRound       func(RoundStats)
}

const (
	defaultRoundBudget = 2048
	defaultSeedBudget  = 256
	defaultMinMMapSize = 1024 * 1024
)

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	threads := runtime.NumCPU()
	if threads < 2 {
		threads = 2
	}
	return Options{
		Threads:     threads,
		RoundBudget: defaultRoundBudget,
		SeedBudget:  defaultSeedBudget,
		Filter: Filter{
			Files:    Show,
			Dirs:     Show,
			Symlinks: Show,
			Hidden:   Hide,
		},
		IncludeTarget: true,
		UseMMap:       true,
		MinMMapSize:   defaultMinMMapSize,
	}
}
