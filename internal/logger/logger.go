// Package logger provides the leveled file logger used by the search engine
// and the command line. Messages are queued on a buffered channel and written
// by a single goroutine. Until Init is called every call is a no-op.
package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARNING
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// ParseLevel converts a level name to a Level. Unknown names yield INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	default:
		return INFO
	}
}

const (
	maxLogSize      = 10 * 1024 * 1024 // 10MB
	logBufferSize   = 32 * 1024        // 32KB
	maxLogRotations = 5
	queueSize       = 1000
)

// DefaultPath is where logs go when no file is configured
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "parfind-logs", "search.log")
}

type Logger struct {
	mu     sync.Mutex
	writer *bufio.Writer
	file   *os.File
	level  Level
	queue  chan string
	done   chan struct{}
}

var (
	current   *Logger
	currentMu sync.RWMutex
)

// Init opens (and if needed rotates) the log file at path and starts the
// writer goroutine. A previous logger is closed first.
func Init(path string, level Level) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	rotateLogFile(path)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		writer: bufio.NewWriterSize(file, logBufferSize),
		file:   file,
		level:  level,
		queue:  make(chan string, queueSize),
		done:   make(chan struct{}),
	}
	fmt.Fprintf(l.writer, "\n=== Log started at %s ===\n", time.Now().Format("2006-01-02 15:04:05"))
	go l.process()

	currentMu.Lock()
	prev := current
	current = l
	currentMu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return nil
}

// Close flushes pending messages and closes the active logger
func Close() error {
	currentMu.Lock()
	l := current
	current = nil
	currentMu.Unlock()
	if l == nil {
		return nil
	}
	return l.Close()
}

func (l *Logger) process() {
	defer close(l.done)
	for msg := range l.queue {
		l.mu.Lock()
		l.writer.WriteString(msg)
		if len(l.queue) == 0 {
			l.writer.Flush()
		}
		l.mu.Unlock()
	}
}

// rotateLogFile rotates log files if necessary
func rotateLogFile(logPath string) {
	fi, err := os.Stat(logPath)
	if err != nil || fi.Size() <= maxLogSize {
		return
	}
	for i := maxLogRotations - 1; i > 0; i-- {
		os.Rename(fmt.Sprintf("%s.%d", logPath, i), fmt.Sprintf("%s.%d", logPath, i+1))
	}
	os.Rename(logPath, logPath+".1")
}

// Close stops the writer goroutine, then flushes and closes the file
func (l *Logger) Close() error {
	close(l.queue)
	<-l.done

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush log buffer: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// logf queues a message. Errors block until queued; other levels are
// dropped when the queue is full.
func logf(level Level, format string, args ...interface{}) {
	currentMu.RLock()
	defer currentMu.RUnlock()
	l := current
	if l == nil || level < l.level {
		return
	}
	msg := fmt.Sprintf("%s [%s] %s\n", time.Now().Format("15:04:05.000"), level, fmt.Sprintf(format, args...))
	if level == ERROR {
		l.queue <- msg
		return
	}
	select {
	case l.queue <- msg:
	default:
	}
}

func Debug(format string, args ...interface{}) {
	logf(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	logf(INFO, format, args...)
}

func Warning(format string, args ...interface{}) {
	logf(WARNING, format, args...)
}

func Error(format string, args ...interface{}) {
	logf(ERROR, format, args...)
}
