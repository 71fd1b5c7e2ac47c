package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log entry
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the upper case level name
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Format selects how entries are written
type Format int

const (
	JSONFormat Format = iota
	TextFormat
)

// Fields carries structured context for an entry
type Fields = map[string]interface{}

// Entry is one structured log line
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component,omitempty"`
	Caller    string `json:"caller,omitempty"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// sink is the state shared by every logger derived from the same root, so
// reconfiguring the root reaches component loggers created earlier.
type sink struct {
	mu     sync.Mutex
	level  Level
	format Format
	out    io.Writer
}

// Logger writes entries tagged with a component name
type Logger struct {
	sink      *sink
	component string
	fields    Fields
}

// Options configures a root logger
type Options struct {
	Level  Level
	Format Format
	Output io.Writer
}

// New creates a root logger
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Logger{sink: &sink{level: opts.Level, format: opts.Format, out: opts.Output}}
}

// WithComponent returns a logger sharing l's output and level but tagged with component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{sink: l.sink, component: component, fields: l.fields}
}

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{sink: l.sink, component: l.component, fields: mergeFields([]Fields{l.fields, fields})}
}

// SetLevel changes the minimum level for l and every logger derived from it.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

// SetFormat changes the output format for l and every logger derived from it.
func (l *Logger) SetFormat(format Format) {
	l.sink.mu.Lock()
	l.sink.format = format
	l.sink.mu.Unlock()
}

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(level Level) bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return level >= l.sink.level
}

func (l *Logger) write(level Level, message string, fields []Fields, err error) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	if level < s.level {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
		Component: l.component,
		Fields:    mergeFields(append([]Fields{l.fields}, fields...)),
	}
	if _, file, line, ok := runtime.Caller(2); ok {
		entry.Caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if s.format == JSONFormat {
		b, _ := json.Marshal(entry)
		s.out.Write(append(b, '\n'))
		return
	}
	io.WriteString(s.out, formatText(entry))
}

// mergeFields layers fields left to right; later keys win.
func mergeFields(fields []Fields) Fields {
	var out Fields
	for _, f := range fields {
		if len(f) == 0 {
			continue
		}
		if out == nil {
			out = make(Fields, len(f))
		}
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}

func formatText(entry Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-5s", entry.Timestamp, entry.Level)
	if entry.Component != "" {
		fmt.Fprintf(&b, " [%s]", entry.Component)
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
		}
	}
	if entry.Error != "" {
		fmt.Fprintf(&b, " error=%q", entry.Error)
	}
	if entry.Caller != "" {
		fmt.Fprintf(&b, " (%s)", entry.Caller)
	}
	b.WriteString("\n")
	return b.String()
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...Fields) {
	l.write(DEBUG, message, fields, nil)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...Fields) {
	l.write(INFO, message, fields, nil)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...Fields) {
	l.write(WARN, message, fields, nil)
}

// Error logs an error message
func (l *Logger) Error(message string, err error, fields ...Fields) {
	l.write(ERROR, message, fields, err)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(INFO, fmt.Sprintf(format, args...), nil, nil)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(WARN, fmt.Sprintf(format, args...), nil, nil)
}
