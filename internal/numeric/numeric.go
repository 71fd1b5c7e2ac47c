// Package numeric implements the lenient number and timestamp coercion shared
// by the source loaders and the merger.
//
// A value "is numeric" when it is not null, not the empty string, and converts
// to a number the way a browser's Number() would (surrounding whitespace is
// ignored, a blank string converts to 0, hex/octal/binary literals and
// Infinity are accepted). The same predicate governs defaulting at load time
// and gap detection when flattening observations.
package numeric

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"seastate/internal/models"
)

// TimestampLayout is the fixed source timestamp format (YYYY-MM-DDTHH:mm:ssZ).
const TimestampLayout = "2006-01-02T15:04:05Z"

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?)$`)
	radixLiteral   = regexp.MustCompile(`^0(?:[xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// ParseString converts s to a number. ok is false when the conversion would yield NaN.
func ParseString(s string) (float64, bool) {
	s = strings.TrimFunc(s, isJSSpace)
	if s == "" {
		return 0, true
	}

	if radixLiteral.MatchString(s) {
		return parseRadix(s[2:], radixOf(s[1])), true
	}

	if !decimalLiteral.MatchString(s) {
		return 0, false
	}

	switch strings.TrimLeft(s, "+-") {
	case "Infinity":
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range literals still have a value (+/-Inf or 0).
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// IsNumericString reports whether s is a numeric field value.
func IsNumericString(s string) bool {
	if s == "" {
		return false
	}
	_, ok := ParseString(s)
	return ok
}

// ToNumber converts a decoded JSON value to a number. ok is false for null,
// the empty string, and anything that would convert to NaN.
func ToNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, !math.IsNaN(x)
	case json.Number:
		return ParseString(string(x))
	case string:
		if x == "" {
			return 0, false
		}
		return ParseString(x)
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// IsNumber reports whether a decoded JSON value is numeric.
func IsNumber(v interface{}) bool {
	_, ok := ToNumber(v)
	return ok
}

// Truthy reports whether a decoded JSON value is truthy: not null, false, 0, NaN or "".
func Truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case json.Number:
		f, ok := ParseString(string(x))
		return ok && f != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// OrDefault applies "value || sentinel" and then requires the survivor to be numeric.
// malformed is true when a truthy value had to be replaced because it is not numeric.
func OrDefault(v interface{}, sentinel float64) (value float64, malformed bool) {
	if !Truthy(v) {
		return sentinel, false
	}
	if f, ok := ToNumber(v); ok {
		return f, false
	}
	return sentinel, true
}

// ParseTimestamp parses s with TimestampLayout as UTC. Input that is not
// exactly in that layout, fractional seconds included, yields the epoch and
// ok == false.
func ParseTimestamp(s string) (t time.Time, ok bool) {
	if len(s) != len(TimestampLayout) {
		return models.Epoch, false
	}
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil || FormatTimestamp(t) != s {
		return models.Epoch, false
	}
	return t, true
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// isJSSpace matches the whitespace and line terminators Number() trims. NEL
// is not one of them.
func isJSSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func radixOf(c byte) float64 {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	default:
		return 2
	}
}

func parseRadix(digits string, base float64) float64 {
	var v float64
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		default:
			d = c - 'A' + 10
		}
		v = v*base + float64(d)
	}
	return v
}
