// Package record adapts data store results into timestamped values the chart
// pipeline can bucket.
package record

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"
	"time"
)

var (
	// ErrMissingField is returned when a record lacks the requested field or attribute.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidField is returned when a field exists but cannot be read as a time or number.
	ErrInvalidField = errors.New("invalid field")
)

// TimestampedValue is the capability the aggregator needs from a record:
// a timestamp and a numeric value, both looked up by field name.
type TimestampedValue interface {
	Timestamp(field string) (time.Time, error)
	Value(field string) (float64, error)
}

// Adapt selects the adapter for v. Values that already implement
// TimestampedValue are returned as is, maps become MapAdapter and
// everything else is accessed through its attributes.
func Adapt(v any, loc *time.Location) TimestampedValue {
	switch r := v.(type) {
	case TimestampedValue:
		return r
	case map[string]any:
		return NewMapAdapter(r, loc)
	case map[string]string:
		fields := make(map[string]any, len(r))
		for k, s := range r {
			fields[k] = s
		}
		return NewMapAdapter(fields, loc)
	default:
		return NewObjectAdapter(v, loc)
	}
}

// Values adapts a slice of arbitrary records into a sequence of timestamped values.
func Values[T any](items []T, loc *time.Location) iter.Seq[TimestampedValue] {
	return func(yield func(TimestampedValue) bool) {
		for _, item := range items {
			if !yield(Adapt(item, loc)) {
				return
			}
		}
	}
}

// MapAdapter reads fields from a key-value record.
type MapAdapter struct {
	fields   map[string]any
	location *time.Location
}

// NewMapAdapter wraps a key-value record. Naive time strings are parsed in loc.
func NewMapAdapter(fields map[string]any, loc *time.Location) MapAdapter {
	return MapAdapter{fields: fields, location: loc}
}

// Timestamp returns the named field as an instant.
func (m MapAdapter) Timestamp(field string) (time.Time, error) {
	raw, ok := m.fields[field]
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", field, ErrMissingField)
	}
	return toTime(field, raw, m.location)
}

// Value returns the named field as a number.
func (m MapAdapter) Value(field string) (float64, error) {
	raw, ok := m.fields[field]
	if !ok {
		return 0, fmt.Errorf("value %q: %w", field, ErrMissingField)
	}
	return toFloat(field, raw)
}

// ObjectAdapter reads attributes from a struct (or pointer to struct).
// A field matches by Go name, by a `chart` or `json` tag, or case-insensitively.
// Exported methods without arguments are consulted when no field matches.
type ObjectAdapter struct {
	value    reflect.Value
	location *time.Location
}

// NewObjectAdapter wraps an attribute-bearing value.
func NewObjectAdapter(v any, loc *time.Location) ObjectAdapter {
	return ObjectAdapter{value: reflect.ValueOf(v), location: loc}
}

// Timestamp returns the named attribute as an instant.
func (o ObjectAdapter) Timestamp(field string) (time.Time, error) {
	raw, ok := o.lookup(field)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", field, ErrMissingField)
	}
	return toTime(field, raw, o.location)
}

// Value returns the named attribute as a number.
func (o ObjectAdapter) Value(field string) (float64, error) {
	raw, ok := o.lookup(field)
	if !ok {
		return 0, fmt.Errorf("value %q: %w", field, ErrMissingField)
	}
	return toFloat(field, raw)
}

func (o ObjectAdapter) lookup(name string) (any, bool) {
	if !o.value.IsValid() || name == "" {
		return nil, false
	}
	if o.value.Kind() == reflect.Pointer && o.value.IsNil() {
		return nil, false
	}

	if method := o.value.MethodByName(name); method.IsValid() {
		if value, ok := callGetter(method); ok {
			return value, true
		}
	}

	v := o.value
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}

	t := v.Type()
	fallback := -1
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Name == name || tagName(sf, "chart") == name || tagName(sf, "json") == name {
			return v.Field(i).Interface(), true
		}
		if fallback < 0 && strings.EqualFold(sf.Name, strings.ReplaceAll(name, "_", "")) {
			fallback = i
		}
	}
	if fallback >= 0 {
		return v.Field(fallback).Interface(), true
	}
	return nil, false
}

func callGetter(method reflect.Value) (any, bool) {
	mt := method.Type()
	if mt.NumIn() != 0 || mt.NumOut() == 0 || mt.NumOut() > 2 {
		return nil, false
	}
	out := method.Call(nil)
	if len(out) == 2 {
		if err, ok := out[1].Interface().(error); ok && err != nil {
			return nil, false
		}
	}
	return out[0].Interface(), true
}

func tagName(sf reflect.StructField, key string) string {
	tag := sf.Tag.Get(key)
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// Point is an already extracted (time, value) pair. Field names are ignored.
type Point struct {
	At     time.Time
	Amount float64
}

// Timestamp returns the point time.
func (p Point) Timestamp(string) (time.Time, error) {
	return p.At, nil
}

// Value returns the point amount.
func (p Point) Value(string) (float64, error) {
	return p.Amount, nil
}
