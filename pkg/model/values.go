// pkg/model/values.go
package model

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// nullTokens are string spellings treated as a missing value on load
var nullTokens = map[string]struct{}{
	"":     {},
	"null": {},
	"nil":  {},
	"none": {},
	"nan":  {},
	"-nan": {},
	"n/a":  {},
	"#n/a": {},
	"na":   {},
	"<na>": {},
}

// extraTimeLayouts covers slash and dash layouts that cast does not parse
var extraTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"2006/01/02 15:04:05",
}

// IsNullToken reports whether s is a textual spelling of a missing value
func IsNullToken(s string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ParseTime parses a date/time string in any of the supported layouts.
// Plain numbers are rejected.
func ParseTime(s string) (time.Time, bool) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, false
	}
	// bare numbers are never dates
	if _, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return time.Time{}, false
	}
	if t, err := cast.ToTimeE(cleaned); err == nil {
		return t, true
	}
	for _, layout := range extraTimeLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InferKind classifies raw values: all numbers is numeric, all times is
// temporal, anything else with at least one value is text
func InferKind(values []any) ColumnKind {
	numeric, temporal, other := 0, 0, 0
	for _, v := range values {
		if isRawMissing(v) {
			continue
		}
		switch v.(type) {
		case float64, float32, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
			numeric++
		case time.Time:
			temporal++
		default:
			other++
		}
	}
	switch {
	case numeric == 0 && temporal == 0 && other == 0:
		return KindUnknown
	case temporal == 0 && other == 0:
		return KindNumeric
	case numeric == 0 && other == 0:
		return KindTemporal
	default:
		return KindText
	}
}

// Coerce converts a raw value into the representation used by kind.
// Values that cannot be represented become nil.
func Coerce(v any, kind ColumnKind) any {
	if isRawMissing(v) {
		return nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch kind {
	case KindNumeric:
		f, err := cast.ToFloat64E(v)
		if err != nil || math.IsNaN(f) {
			return nil
		}
		return f
	case KindTemporal:
		switch val := v.(type) {
		case time.Time:
			return val
		case string:
			if t, ok := ParseTime(val); ok {
				return t
			}
		}
		return nil
	case KindText:
		if t, ok := v.(time.Time); ok {
			return t.Format(time.RFC3339)
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil
		}
		return s
	default:
		return nil
	}
}

func isRawMissing(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return IsNullToken(val)
	case []byte:
		return IsNullToken(string(val))
	case float64:
		return math.IsNaN(val)
	case float32:
		return math.IsNaN(float64(val))
	case time.Time:
		return val.IsZero()
	}
	return false
}
