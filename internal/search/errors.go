package search

import "fmt"

// ConfigError reports options or a pattern that cannot be searched with.
// It is always returned before the filesystem is touched.
type ConfigError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Msg, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TraversalError is a fatal failure to read a directory of the search space
type TraversalError struct {
	Dir string
	Err error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("failed to read directory %s: %v", e.Dir, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }

// FileAccessError is a recoverable failure on a single file or line in
// content mode. It is logged and counted, never returned from Find.
type FileAccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }
