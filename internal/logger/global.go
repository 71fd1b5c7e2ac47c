package logger

import (
	"fmt"
	"os"
	"strings"
)

var root = New(Options{Level: INFO, Format: JSONFormat, Output: os.Stdout})

func init() {
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure sets the level and format of the process-wide logger. Empty or
// unknown values leave the current setting in place. Format "auto" writes
// text to a terminal and JSON otherwise.
func Configure(level, format string) {
	if lvl, err := ParseLevel(level); err == nil {
		root.SetLevel(lvl)
	}
	if f, err := ParseFormat(format); err == nil {
		root.SetFormat(f)
	}
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", level)
}

// ParseFormat parses "json", "text" or "auto".
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, nil
	case "text":
		return TextFormat, nil
	case "auto":
		if isTerminal(os.Stdout) {
			return TextFormat, nil
		}
		return JSONFormat, nil
	}
	return JSONFormat, fmt.Errorf("unknown log format %q", format)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Root returns the process-wide logger
func Root() *Logger {
	return root
}

// SetRoot replaces the process-wide logger. Component loggers created before
// the call keep writing to the previous one.
func SetRoot(l *Logger) {
	root = l
}

// Component returns a logger for the named component of the process-wide logger.
func Component(name string) *Logger {
	return root.WithComponent(name)
}

// Info logs an info message on the process-wide logger
func Info(message string, fields ...Fields) {
	root.Info(message, fields...)
}

// Warn logs a warning message on the process-wide logger
func Warn(message string, fields ...Fields) {
	root.Warn(message, fields...)
}

// Error logs an error message on the process-wide logger
func Error(message string, err error, fields ...Fields) {
	root.Error(message, err, fields...)
}
