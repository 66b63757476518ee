package logger

import (
	"log"
	"os"
	"strings"

	gormlogger "gorm.io/gorm/logger"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelError = "error"
)

// Logger is a leveled wrapper over the standard logger. Messages carry a
// [LEVEL] prefix; callers add a [Component] tag of their own.
type Logger struct {
	level string
	out   *log.Logger
}

func New(level string) *Logger {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case LevelDebug, LevelInfo, LevelError:
	default:
		level = LevelInfo
	}
	return &Logger{
		level: level,
		out:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Level returns the effective level.
func (l *Logger) Level() string {
	return l.level
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level == LevelDebug {
		l.out.Printf("[DEBUG] "+msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level == LevelDebug || l.level == LevelInfo {
		l.out.Printf("[INFO] "+msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.out.Printf("[ERROR] "+msg, args...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.out.Printf("[FATAL] "+msg, args...)
	os.Exit(1)
}

// GormLevel maps the logger level onto gorm's SQL logging.
func (l *Logger) GormLevel() gormlogger.LogLevel {
	switch l.level {
	case LevelDebug:
		return gormlogger.Info
	case LevelInfo:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

// Discard returns a logger that writes nothing; tests use it.
func Discard() *Logger {
	return &Logger{level: LevelError, out: log.New(discard{}, "", 0)}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
