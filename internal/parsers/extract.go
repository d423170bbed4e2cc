package parsers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// The gateway's JSON is not a contract: fields go missing, numbers arrive
// as strings, objects arrive where arrays are expected. These getters walk
// a decoded JSON tree by key path and report absence instead of guessing.
// They never panic and never fabricate zero values for mistyped data.

func walk(obj any, path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	current := obj
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// GetString returns the string at path. Numeric terminals are formatted,
// since the gateway flips between "42" and 42 for the same field.
func GetString(obj any, path ...string) (string, bool) {
	raw, ok := walk(obj, path)
	if !ok {
		return "", false
	}
	return CoerceString(raw)
}

// GetNumber returns the number at path. A string terminal is accepted only
// when the whole string parses to a finite number; "42abc" is absent, not 0.
func GetNumber(obj any, path ...string) (float64, bool) {
	raw, ok := walk(obj, path)
	if !ok {
		return 0, false
	}
	return CoerceNumber(raw)
}

func GetInt(obj any, path ...string) (int64, bool) {
	n, ok := GetNumber(obj, path...)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

func GetBool(obj any, path ...string) (bool, bool) {
	raw, ok := walk(obj, path)
	if !ok {
		return false, false
	}
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

// GetTime returns the timestamp at path. Epoch seconds (or milliseconds,
// detected by magnitude) and a few common string layouts are accepted;
// non-positive epochs mean "unset" on this wire and are treated as absent.
func GetTime(obj any, path ...string) (time.Time, bool) {
	raw, ok := walk(obj, path)
	if !ok {
		return time.Time{}, false
	}
	return CoerceTime(raw)
}

func CoerceString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		if math.Mod(v, 1) == 0 && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10), true
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

func CoerceNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func CoerceTime(raw any) (time.Time, bool) {
	if n, ok := CoerceNumber(raw); ok {
		if n <= 0 {
			return time.Time{}, false
		}
		sec := int64(n)
		if n > 1e12 {
			sec = int64(n / 1000)
		}
		return time.Unix(sec, 0).UTC(), true
	}

	str, ok := raw.(string)
	if !ok {
		return time.Time{}, false
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if parsed, err := time.Parse(layout, str); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
