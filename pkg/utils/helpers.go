package utils

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Env returns the value of the environment variable key, or def when unset or empty.
func Env(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// EnvInt returns a positive integer from the environment, or def.
func EnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// EnvBool reads "true"/"false"/"1"/"0" style values, falling back to def.
func EnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// ParseValue converts a raw CSV cell into int, float64 or string.
// Empty cells (after trimming) and NaN/Inf spellings become nil so callers can
// treat them as missing.
func ParseValue(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// try int
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if !finite(f) {
			return nil
		}
		return f
	}
	return s
}

// ToFloat converts numeric values and numeric-looking strings to float64.
// Strings may carry thousands separators ("1,250.50"). NaN and Inf are rejected.
func ToFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, finite(val)
	case float32:
		return float64(val), finite(float64(val))
	case string:
		clean := strings.ReplaceAll(strings.TrimSpace(val), ",", "")
		if clean == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(clean, 64)
		return f, err == nil && finite(f)
	case nil:
		return 0, false
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Float64 {
			f := rv.Convert(reflect.TypeOf(float64(0))).Float()
			return f, finite(f)
		}
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FormatValue renders a cell back to its CSV text form.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
