package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/objectfitter.txt"

const timestampFormat = "2006-01-02 15:04:05"

// Logger stores lines of text (terminal input and command results) in memory and
// writes them, with any structured fields, to a log file through logrus.
type Logger struct {
	mu    sync.Mutex
	lines []string
	log   *logrus.Logger
	file  *os.File
}

// New returns a Logger appending to path (LogFilePath when empty), creating the
// directory if needed. When the file cannot be opened the logger keeps lines in
// memory only and the open error is returned alongside it.
func New(path string) (*Logger, error) {
	if path == "" {
		path = LogFilePath
	}
	l := &Logger{lines: make([]string, 0), log: logrus.New()}
	l.log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	})
	l.log.SetOutput(io.Discard)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return l, fmt.Errorf("logger: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return l, fmt.Errorf("logger: %w", err)
	}
	l.file = f
	l.log.SetOutput(f)
	return l, nil
}

// Log appends a line to the in-memory history, prefixed with [timestamp], and writes it to the log file.
func (l *Logger) Log(line string) {
	l.mu.Lock()
	l.lines = append(l.lines, "["+time.Now().Format(timestampFormat)+"] "+line)
	l.mu.Unlock()
	l.log.Info(line)
}

// WithFields returns a logrus entry writing to the log file only, for structured records
// such as fit results.
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	return l.log.WithFields(fields)
}

// WithField is WithFields for a single key.
func (l *Logger) WithField(key string, value any) *logrus.Entry {
	return l.log.WithField(key, value)
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
