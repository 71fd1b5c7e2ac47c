package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  int
	}{
		{name: "debug", level: DEBUG, want: 4},
		{name: "info", level: INFO, want: 3},
		{name: "warn", level: WARN, want: 2},
		{name: "error", level: ERROR, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Options{Level: tt.level, Format: JSONFormat, Output: &buf})

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message", nil)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if buf.Len() == 0 {
				lines = nil
			}
			if len(lines) != tt.want {
				t.Errorf("Expected %d log lines, got %d", tt.want, len(lines))
			}
			for i, line := range lines {
				var entry Entry
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Errorf("Line %d is not valid JSON: %v", i+1, err)
				}
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: INFO, Format: JSONFormat, Output: &buf}).WithComponent("merge")

	l.Info("Dataset built", Fields{"merged_records": 42, "source": "data.csv"})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("Expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "Dataset built" {
		t.Errorf("Expected message 'Dataset built', got %s", entry.Message)
	}
	if entry.Component != "merge" {
		t.Errorf("Expected component 'merge', got %s", entry.Component)
	}
	if entry.Fields["merged_records"] != float64(42) {
		t.Errorf("Expected merged_records=42, got %v", entry.Fields["merged_records"])
	}
	if !strings.HasPrefix(entry.Caller, "logger_test.go:") {
		t.Errorf("Expected caller in logger_test.go, got %q", entry.Caller)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: INFO, Format: TextFormat, Output: &buf}).WithComponent("fetchers")

	l.Info("Fetched source", Fields{"uri": "data.json", "bytes": 10})

	output := buf.String()
	for _, want := range []string{"INFO", "[fetchers]", "Fetched source", "bytes=10 uri=data.json"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got %q", want, output)
		}
	}
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: ERROR, Format: JSONFormat, Output: &buf})

	l.Error("render cycle failed", errors.New("source unavailable"), Fields{"cycle": "abc"})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Error != "source unavailable" {
		t.Errorf("Expected error 'source unavailable', got %s", entry.Error)
	}
	if entry.Fields["cycle"] != "abc" {
		t.Errorf("Expected cycle field 'abc', got %v", entry.Fields["cycle"])
	}
}

func TestComponentSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Level: INFO, Format: JSONFormat, Output: &buf})
	component := base.WithComponent("server")

	component.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("Expected debug to be filtered, got %q", buf.String())
	}

	base.SetLevel(DEBUG)
	component.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("Expected component logger to follow the root level")
	}
	if !component.Enabled(DEBUG) {
		t.Error("Expected DEBUG to be enabled")
	}
}

func TestMultipleFieldsMerge(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: INFO, Format: JSONFormat, Output: &buf})

	l.Info("merged", Fields{"a": 1}, Fields{"b": 2})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if len(entry.Fields) != 2 {
		t.Errorf("Expected 2 fields, got %v", entry.Fields)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	root := New(Options{Level: INFO, Format: JSONFormat, Output: &buf})

	cycle := root.With(Fields{"cycle_id": "abc", "step": "load"}).WithComponent("reports")
	cycle.Info("stored", Fields{"step": "store"})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Component != "reports" {
		t.Errorf("Expected component reports, got %q", entry.Component)
	}
	if entry.Fields["cycle_id"] != "abc" {
		t.Errorf("Expected persistent cycle_id field, got %v", entry.Fields)
	}
	if entry.Fields["step"] != "store" {
		t.Errorf("Expected call fields to win, got %v", entry.Fields["step"])
	}

	buf.Reset()
	root.Info("plain")
	if strings.Contains(buf.String(), "cycle_id") {
		t.Error("With must not add fields to the parent logger")
	}
}

func TestRootComponent(t *testing.T) {
	var buf bytes.Buffer
	original := Root()
	defer SetRoot(original)

	SetRoot(New(Options{Level: INFO, Format: JSONFormat, Output: &buf}))
	Component("reports").Info("Report stored")
	Warn("global warning")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}
	var entry Entry
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Failed to parse JSON line: %v", err)
	}
	if entry.Component != "reports" {
		t.Errorf("Expected component 'reports', got %q", entry.Component)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"DEBUG", DEBUG, false},
		{"debug", DEBUG, false},
		{"warning", WARN, false},
		{" error ", ERROR, false},
		{"verbose", INFO, true},
		{"", INFO, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("TEXT"); err != nil || f != TextFormat {
		t.Errorf("Expected TextFormat, got %v (%v)", f, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != JSONFormat {
		t.Errorf("Expected JSONFormat, got %v (%v)", f, err)
	}
	if _, err := ParseFormat("auto"); err != nil {
		t.Errorf("Expected auto to be accepted, got %v", err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, test := range tests {
		if test.level.String() != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, test.level.String())
		}
	}
}

func BenchmarkLevelFiltering(b *testing.B) {
	var buf bytes.Buffer
	l := New(Options{Level: WARN, Format: JSONFormat, Output: &buf})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Debug("filtered")
	}
}
