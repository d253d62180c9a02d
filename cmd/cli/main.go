package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"parfind/internal/config"
	"parfind/internal/logger"
	"parfind/internal/search"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type flags struct {
	configPath  string
	threads     int
	budget      int
	seedBudget  int
	exact       bool
	ignoreCase  bool
	sort        string
	label       string
	content     bool
	files       string
	dirs        string
	symlinks    string
	hidden      string
	noTarget    bool
	partition   string
	exclude     []string
	noMMap      bool
	mmapMinSize string
	logLevel    string
	logFile     string
	progress    bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "parfind [flags] PATTERN ROOT",
		Short: "Parallel file search",
		Long: `Parfind walks a directory tree on several workers at once and reports
files, directories and symlinks whose names match PATTERN (a regular
expression, or an exact name with -e). With -c it greps file contents.

Example: parfind -s -l -H '\.go$' ~/src`,
		Version:       Version,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			if cfg.Log.File != "" || cmd.Flags().Changed("log-level") {
				if err := logger.Init(cfg.Log.File, logger.ParseLevel(cfg.Log.Level)); err != nil {
					return err
				}
				defer logger.Close()
			}
			return runSearch(cfg, args[0], args[1], f.progress, stdout, stderr)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", config.DefaultPath(), "Config file")
	fl.IntVarP(&f.threads, "threads", "t", 0, "Number of workers per round (at least 2)")
	fl.IntVarP(&f.budget, "budget", "b", 0, "Files and directories one worker handles per round")
	fl.IntVar(&f.seedBudget, "seed-budget", 0, "Files and directories handled by the initial walk of ROOT")
	fl.BoolVarP(&f.exact, "exact", "e", false, "Match names (or lines) exactly instead of as a regex")
	fl.BoolVarP(&f.ignoreCase, "ignore-case", "i", false, "Ignore case")
	fl.StringVarP(&f.sort, "sort", "s", "", "Sort results: none, asc, desc")
	fl.StringVarP(&f.label, "label", "l", "", "Label results with their type: none, prefix, suffix")
	fl.BoolVarP(&f.content, "content", "c", false, "Search file contents line by line")
	fl.StringVar(&f.files, "files", "", "Regular files: hide, show, only")
	fl.StringVar(&f.dirs, "dirs", "", "Directories: hide, show, only")
	fl.StringVar(&f.symlinks, "symlinks", "", "Symlinks: hide, show, only")
	fl.StringVarP(&f.hidden, "hidden", "H", "", "Hidden entries: hide, show, only")
	fl.BoolVar(&f.noTarget, "no-target", false, "Do not report ROOT itself when it matches")
	fl.StringVar(&f.partition, "partition", "", "Frontier partitioning: interleave, contiguous, hash")
	fl.StringSliceVarP(&f.exclude, "exclude", "x", nil, "Directory names to skip (can be specified multiple times)")
	fl.BoolVar(&f.noMMap, "no-mmap", false, "Never memory-map files in content mode")
	fl.StringVar(&f.mmapMinSize, "mmap-min-size", "", "Minimum file size for memory mapping (e.g. 1MB)")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fl.StringVar(&f.logFile, "log-file", "", "Log file")
	fl.BoolVarP(&f.progress, "progress", "p", false, "Show a progress spinner on stderr")

	fl.Lookup("sort").NoOptDefVal = "asc"
	fl.Lookup("label").NoOptDefVal = "prefix"
	fl.Lookup("hidden").NoOptDefVal = "show"

	return cmd
}

// loadConfig reads the config file and applies every flag that was set
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("threads") {
		cfg.Threads = f.threads
	}
	if fl.Changed("budget") {
		cfg.RoundBudget = f.budget
	}
	if fl.Changed("seed-budget") {
		cfg.SeedBudget = f.seedBudget
	}
	if fl.Changed("exact") {
		cfg.Exact = f.exact
	}
	if fl.Changed("ignore-case") {
		cfg.IgnoreCase = f.ignoreCase
	}
	if fl.Changed("sort") {
		cfg.Sort = f.sort
	}
	if fl.Changed("label") {
		cfg.Label = f.label
	}
	if fl.Changed("content") {
		cfg.Content = f.content
	}
	if fl.Changed("files") {
		cfg.Filter.Files = f.files
	}
	if fl.Changed("dirs") {
		cfg.Filter.Dirs = f.dirs
	}
	if fl.Changed("symlinks") {
		cfg.Filter.Symlinks = f.symlinks
	}
	if fl.Changed("hidden") {
		cfg.Filter.Hidden = f.hidden
	}
	if fl.Changed("no-target") {
		cfg.IncludeTarget = !f.noTarget
	}
	if fl.Changed("partition") {
		cfg.Partition = f.partition
	}
	if fl.Changed("exclude") {
		cfg.ExcludeDirs = f.exclude
	}
	if fl.Changed("no-mmap") {
		cfg.MMap.Enabled = !f.noMMap
	}
	if fl.Changed("mmap-min-size") {
		cfg.MMap.MinSize = f.mmapMinSize
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fl.Changed("log-file") {
		cfg.Log.File = f.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSearch(cfg *config.Config, pattern, root string, showProgress bool, stdout, stderr io.Writer) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("invalid root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid root path: %s is not a directory", root)
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	// unsorted results stream straight to stdout; sorted ones are buffered
	opts.Output = stdout
	out := bufio.NewWriterSize(stdout, 64*1024)

	var bar *progressbar.ProgressBar
	var total search.RoundStats
	if showProgress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("Searching"),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
	}
	opts.OnRound = func(s search.RoundStats) {
		total.Round = s.Round
		total.Dirs += s.Dirs
		total.Entries += s.Entries
		total.Matches += s.Matches
		total.Skipped += s.Skipped
		if bar != nil {
			bar.Add(s.Dirs)
		}
		logger.Info("Round %d: %d dirs, %d entries, %d matches", s.Round, s.Dirs, s.Entries, s.Matches)
	}

	start := time.Now()
	lines, err := search.Find(pattern, root, opts)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	if len(lines) > 0 {
		out.WriteString(strings.Join(lines, "\n"))
		out.WriteByte('\n')
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if showProgress {
		summary := fmt.Sprintf("%d matches in %d dirs (%d rounds, %s)",
			total.Matches, total.Dirs, total.Round, time.Since(start).Round(time.Millisecond))
		if total.Skipped > 0 {
			summary += fmt.Sprintf(", %d files skipped", total.Skipped)
		}
		fmt.Fprintln(stderr, color.New(color.Faint).Sprint(summary))
	}
	return nil
}

func main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	rootCmd := newRootCommand(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
