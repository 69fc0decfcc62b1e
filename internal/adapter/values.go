// Package adapter reconciles the backend's drifting payload shapes into the normalized
// entities of package model.
//
// Payloads are decoded with json.Number so identifiers survive as exact integers. Every
// extraction helper is total: a value of the wrong type is reported as missing, never
// as a panic.
package adapter

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Clock supplies the current time for identifier synthesis. nil means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Synthesize returns a temporary identifier from the current time in milliseconds.
// Two calls within the same millisecond return the same value.
func (c Clock) Synthesize() int64 {
	return c.now().UnixMilli()
}

// Decode parses a JSON payload, keeping numbers as json.Number.
func Decode(payload []byte) (any, bool) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return v, true
}

// ID interprets v as a positive integer identifier. JSON numbers, Go integers, integral
// floats and numeric strings are accepted; zero, negatives and fractions are not.
func ID(v any) (int64, bool) {
	var n int64
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			n = i
		} else if f, err := x.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
			n = int64(f)
		} else {
			return 0, false
		}
	case int64:
		n = x
	case int:
		n = int64(x)
	case float64:
		if x != math.Trunc(x) || math.Abs(x) >= math.MaxInt64 {
			return 0, false
		}
		n = int64(x)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n <= 0 {
		return 0, false
	}
	return n, true
}

// firstID returns the identifier under the first key of keys that holds a usable one.
func firstID(obj map[string]any, keys ...string) (int64, string, bool) {
	for _, k := range keys {
		if id, ok := ID(obj[k]); ok {
			return id, k, true
		}
	}
	return 0, "", false
}

func stringOf(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	}
	return "", false
}

// firstString returns the first non-blank string among keys.
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := stringOf(obj[k]); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func boolOf(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	case json.Number:
		f, err := x.Float64()
		return f != 0, err == nil
	}
	return false, false
}

func firstBool(obj map[string]any, keys ...string) bool {
	for _, k := range keys {
		if b, ok := boolOf(obj[k]); ok {
			return b
		}
	}
	return false
}

func floatOf(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

func firstFloat(obj map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := floatOf(obj[k]); ok {
			return f, true
		}
	}
	return 0, false
}
