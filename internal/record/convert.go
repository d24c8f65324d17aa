package record

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Epoch numbers above this are milliseconds; in seconds they would be tens of
// thousands of years away.
const millisecondsThreshold = 1e12

var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

func toTime(field string, raw any, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("timestamp %q is nil: %w", field, ErrMissingField)
		}
		return *v, nil
	case string:
		if seconds, err := strconv.ParseFloat(v, 64); err == nil {
			if !isFinite(seconds) {
				return time.Time{}, fmt.Errorf("timestamp %q: non-finite epoch %q: %w", field, v, ErrInvalidField)
			}
			return fromEpoch(seconds), nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return parsed, nil
		}
		for _, layout := range naiveLayouts {
			if parsed, err := time.ParseInLocation(layout, v, loc); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("timestamp %q: unrecognized time %q: %w", field, v, ErrInvalidField)
	case nil:
		return time.Time{}, fmt.Errorf("timestamp %q is nil: %w", field, ErrMissingField)
	}

	seconds, ok := parseNumber(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp %q: unsupported type %T: %w", field, raw, ErrInvalidField)
	}
	if !isFinite(seconds) {
		return time.Time{}, fmt.Errorf("timestamp %q: non-finite epoch %v: %w", field, seconds, ErrInvalidField)
	}
	return fromEpoch(seconds), nil
}

func fromEpoch(value float64) time.Time {
	if math.Abs(value) > millisecondsThreshold {
		return time.UnixMilli(int64(value)).UTC()
	}
	whole, frac := math.Modf(value)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC()
}

func toFloat(field string, raw any) (float64, error) {
	var value float64
	switch v := raw.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("value %q: %w", field, ErrInvalidField)
		}
		value = parsed
	case nil:
		return 0, fmt.Errorf("value %q is nil: %w", field, ErrMissingField)
	default:
		parsed, ok := parseNumber(raw)
		if !ok {
			return 0, fmt.Errorf("value %q: unsupported type %T: %w", field, raw, ErrInvalidField)
		}
		value = parsed
	}
	if !isFinite(value) {
		return 0, fmt.Errorf("value %q: non-finite number %v: %w", field, value, ErrInvalidField)
	}
	return value, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// parseNumber reads the numeric kinds that JSON decoding, Redis replies and
// typed structs produce.
func parseNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case []byte:
		parsed, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}

	// Named numeric types such as `type cents int64`.
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
