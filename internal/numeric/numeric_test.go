package numeric

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"seastate/internal/models"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "integer", input: "3", want: 3, wantOK: true},
		{name: "decimal", input: "1.5", want: 1.5, wantOK: true},
		{name: "leading dot", input: ".25", want: 0.25, wantOK: true},
		{name: "trailing dot", input: "2.", want: 2, wantOK: true},
		{name: "signed", input: "-0.75", want: -0.75, wantOK: true},
		{name: "exponent", input: "1e3", want: 1000, wantOK: true},
		{name: "surrounding whitespace", input: "  4.2\t", want: 4.2, wantOK: true},
		{name: "blank converts to zero", input: "   ", want: 0, wantOK: true},
		{name: "hex", input: "0x1F", want: 31, wantOK: true},
		{name: "binary", input: "0b101", want: 5, wantOK: true},
		{name: "infinity", input: "-Infinity", want: math.Inf(-1), wantOK: true},
		{name: "go style inf rejected", input: "inf", wantOK: false},
		{name: "trailing garbage", input: "1.5m", wantOK: false},
		{name: "word", input: "NaN", wantOK: false},
		{name: "signed hex rejected", input: "-0x10", wantOK: false},
		{name: "underscore rejected", input: "1_000", wantOK: false},
		{name: "nbsp and bom trimmed", input: "\u00a0\ufeff7", want: 7, wantOK: true},
		{name: "next line not trimmed", input: "\u00851", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseString(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseString(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsNumericString(t *testing.T) {
	if IsNumericString("") {
		t.Error("empty string must not be numeric")
	}
	if !IsNumericString(" ") {
		t.Error("blank string converts to 0 and is numeric")
	}
	if IsNumericString("n/a") {
		t.Error("n/a must not be numeric")
	}
	if !IsNumericString("0") {
		t.Error("0 is numeric")
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		want   float64
		wantOK bool
	}{
		{name: "nil", input: nil, wantOK: false},
		{name: "float", input: 2.5, want: 2.5, wantOK: true},
		{name: "NaN", input: math.NaN(), wantOK: false},
		{name: "json number", input: json.Number("7"), want: 7, wantOK: true},
		{name: "numeric string", input: "3.25", want: 3.25, wantOK: true},
		{name: "empty string", input: "", wantOK: false},
		{name: "true", input: true, want: 1, wantOK: true},
		{name: "false", input: false, want: 0, wantOK: true},
		{name: "object", input: map[string]interface{}{}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ToNumber(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ToNumber(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOrDefault(t *testing.T) {
	tests := []struct {
		name          string
		input         interface{}
		sentinel      float64
		want          float64
		wantMalformed bool
	}{
		{name: "absent", input: nil, sentinel: -1, want: -1},
		{name: "zero is falsy", input: 0.0, sentinel: -1, want: -1},
		{name: "false is falsy", input: false, sentinel: 0, want: 0},
		{name: "empty string is falsy", input: "", sentinel: -1, want: -1},
		{name: "present", input: 2.0, sentinel: -1, want: 2},
		{name: "string zero is truthy", input: "0", sentinel: -1, want: 0},
		{name: "non numeric string", input: "calm", sentinel: -1, want: -1, wantMalformed: true},
		{name: "array", input: []interface{}{1.0}, sentinel: 0, want: 0, wantMalformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, malformed := OrDefault(tt.input, tt.sentinel)
			if got != tt.want {
				t.Errorf("OrDefault(%v, %v) = %v, want %v", tt.input, tt.sentinel, got, tt.want)
			}
			if malformed != tt.wantMalformed {
				t.Errorf("OrDefault(%v) malformed = %v, want %v", tt.input, malformed, tt.wantMalformed)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	got, ok := ParseTimestamp("2021-01-01T06:30:00Z")
	if !ok {
		t.Fatal("expected timestamp to parse")
	}
	want := time.Date(2021, 1, 1, 6, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseTimestamp = %v, want %v", got, want)
	}

	for _, bad := range []string{"not-a-date", "", "2021-01-01T06:30:00+02:00", "2021-01-01 06:30:00Z", "2021-01-01T06:30:00Zjunk",
		"2021-01-01T00:00:00.5Z", "2021-01-01T00:00:00,123Z", "2021-01-01T00:00:00.000Z"} {
		got, ok := ParseTimestamp(bad)
		if ok {
			t.Errorf("ParseTimestamp(%q) unexpectedly succeeded", bad)
		}
		if !got.Equal(models.Epoch) {
			t.Errorf("ParseTimestamp(%q) = %v, want epoch", bad, got)
		}
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	in := "2022-07-15T23:00:00Z"
	ts, _ := ParseTimestamp(in)
	if out := FormatTimestamp(ts); out != in {
		t.Errorf("FormatTimestamp = %q, want %q", out, in)
	}
}
