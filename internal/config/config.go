// Package config loads parfind settings from a YAML file and converts them
// into search options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"parfind/internal/search"
)

// FilterConfig holds the visibility of each property: hide, show or only
type FilterConfig struct {
	Files    string `yaml:"files"`
	Dirs     string `yaml:"dirs"`
	Symlinks string `yaml:"symlinks"`
	Hidden   string `yaml:"hidden"`
}

// MMapConfig controls memory mapping of large files in content mode
type MMapConfig struct {
	Enabled bool   `yaml:"enabled"`
	MinSize string `yaml:"min_size"`
}

// LogConfig controls the file logger
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config represents parfind configuration options
type Config struct {
	// Threads is the number of walkers per round (at least 2)
	Threads int `yaml:"threads"`

	// RoundBudget caps the files and directories one walker handles per round
	RoundBudget int `yaml:"round_budget"`

	// SeedBudget caps the initial walk of the root
	SeedBudget int `yaml:"seed_budget"`

	// Exact compares names (or lines) for equality instead of as a regex
	Exact bool `yaml:"exact"`

	IgnoreCase bool `yaml:"ignore_case"`

	Filter FilterConfig `yaml:"filter"`

	// Sort is none, asc or desc
	Sort string `yaml:"sort"`

	// Label is none, prefix or suffix
	Label string `yaml:"label"`

	// Content greps file contents instead of matching names
	Content bool `yaml:"content"`

	// IncludeTarget reports the root directory itself when it matches
	IncludeTarget bool `yaml:"include_target"`

	// Partition is interleave, contiguous or hash
	Partition string `yaml:"partition"`

	ExcludeDirs []string `yaml:"exclude_dirs"`

	MMap MMapConfig `yaml:"mmap"`

	Log LogConfig `yaml:"log"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	threads := runtime.NumCPU()
	if threads < 2 {
		threads = 2
	}
	return &Config{
		Threads:     threads,
		RoundBudget: 2048,
		SeedBudget:  256,
		Filter: FilterConfig{
			Files:    "show",
			Dirs:     "show",
			Symlinks: "show",
			Hidden:   "hide",
		},
		Sort:          "none",
		Label:         "none",
		IncludeTarget: true,
		Partition:     "interleave",
		MMap: MMapConfig{
			Enabled: true,
			MinSize: "1MB",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "parfind", "config.yaml")
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that do not need the filesystem
func (c *Config) Validate() error {
	_, err := c.Options()
	return err
}

// Options converts the config into search options
func (c *Config) Options() (search.Options, error) {
	opts := search.DefaultOptions()
	opts.Threads = c.Threads
	opts.RoundBudget = c.RoundBudget
	opts.SeedBudget = c.SeedBudget
	opts.IgnoreCase = c.IgnoreCase
	opts.ContentSearch = c.Content
	opts.IncludeTarget = c.IncludeTarget
	opts.ExcludeDirs = c.ExcludeDirs
	opts.UseMMap = c.MMap.Enabled
	if c.Exact {
		opts.Match = search.MatchExact
	}

	if c.Threads < 2 {
		return opts, invalid("threads", "must be at least 2, got %d", c.Threads)
	}
	if c.RoundBudget < 1 {
		return opts, invalid("round_budget", "must be at least 1, got %d", c.RoundBudget)
	}
	if c.SeedBudget < 1 {
		return opts, invalid("seed_budget", "must be at least 1, got %d", c.SeedBudget)
	}

	var err error
	if opts.Filter.Files, err = parseVisibility("filter.files", c.Filter.Files); err != nil {
		return opts, err
	}
	if opts.Filter.Dirs, err = parseVisibility("filter.dirs", c.Filter.Dirs); err != nil {
		return opts, err
	}
	if opts.Filter.Symlinks, err = parseVisibility("filter.symlinks", c.Filter.Symlinks); err != nil {
		return opts, err
	}
	if opts.Filter.Hidden, err = parseVisibility("filter.hidden", c.Filter.Hidden); err != nil {
		return opts, err
	}
	if _, err := opts.Filter.Selection(); err != nil {
		return opts, err
	}

	if opts.Sort, err = ParseSort(c.Sort); err != nil {
		return opts, err
	}
	if opts.Label, err = ParseLabel(c.Label); err != nil {
		return opts, err
	}
	if opts.Partition, err = ParsePartition(c.Partition); err != nil {
		return opts, err
	}
	if opts.MinMMapSize, err = ParseSize(c.MMap.MinSize); err != nil {
		return opts, &search.ConfigError{Field: "mmap.min_size", Msg: "not a size", Err: err}
	}
	return opts, nil
}

// invalid builds the same error type the search engine returns for bad options
func invalid(field, format string, args ...interface{}) error {
	return &search.ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func parseVisibility(key, s string) (search.Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hide":
		return search.Hide, nil
	case "show", "":
		return search.Show, nil
	case "only":
		return search.Only, nil
	default:
		return search.Hide, invalid(key, "must be one of hide, show, only, got %q", s)
	}
}

// ParseSort converts none, asc or desc into a sort order
func ParseSort(s string) (search.SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return search.SortNone, nil
	case "asc", "ascending":
		return search.SortAscending, nil
	case "desc", "descending":
		return search.SortDescending, nil
	default:
		return search.SortNone, invalid("sort", "must be one of none, asc, desc, got %q", s)
	}
}

// ParseLabel converts none, prefix or suffix into a label position
func ParseLabel(s string) (search.LabelPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return search.LabelNone, nil
	case "prefix", "start":
		return search.LabelPrefix, nil
	case "suffix", "end":
		return search.LabelSuffix, nil
	default:
		return search.LabelNone, invalid("label", "must be one of none, prefix, suffix, got %q", s)
	}
}

// ParsePartition converts interleave, contiguous or hash into a strategy
func ParsePartition(s string) (search.PartitionStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interleave", "":
		return search.PartitionInterleave, nil
	case "contiguous":
		return search.PartitionContiguous, nil
	case "hash":
		return search.PartitionHash, nil
	default:
		return search.PartitionInterleave, invalid("partition", "must be one of interleave, contiguous, hash, got %q", s)
	}
}
