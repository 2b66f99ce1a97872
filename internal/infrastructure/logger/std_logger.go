package logger

import (
	"io"
	"log"
	"os"

	"isiprint/internal/domain/ports"
)

// Level is the minimum severity a logger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// StdLogger implements ports.Logger on top of the standard log package.
type StdLogger struct {
	logger *log.Logger
	level  Level
}

// NewStdLogger creates a logger writing to stderr with the given prefix.
func NewStdLogger(prefix string, level Level) ports.Logger {
	return NewWriterLogger(os.Stderr, prefix, level)
}

// NewWriterLogger creates a logger writing to w.
func NewWriterLogger(w io.Writer, prefix string, level Level) ports.Logger {
	return &StdLogger{
		logger: log.New(w, prefix, log.LstdFlags),
		level:  level,
	}
}

func (l *StdLogger) Debug(msg string, args ...interface{}) {
	if l.level > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] "+msg, args...)
}

func (l *StdLogger) Info(msg string, args ...interface{}) {
	if l.level > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] "+msg, args...)
}

func (l *StdLogger) Warn(msg string, args ...interface{}) {
	if l.level > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] "+msg, args...)
}

func (l *StdLogger) Error(msg string, args ...interface{}) {
	l.logger.Printf("[ERROR] "+msg, args...)
}

// Fatal logs and exits the process.
func (l *StdLogger) Fatal(msg string, args ...interface{}) {
	l.logger.Fatalf("[FATAL] "+msg, args...)
}

func (l *StdLogger) Printf(format string, args ...interface{}) {
	l.logger.Printf(format, args...)
}

// Nop returns a logger that discards everything.
func Nop() ports.Logger {
	return NewWriterLogger(io.Discard, "", LevelError)
}
