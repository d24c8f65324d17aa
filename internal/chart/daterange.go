// Package chart bins timestamped records into fixed-width time buckets and
// scales the totals into chart descriptors.
package chart

import (
	"fmt"
	"iter"
	"time"
)

// Dates enumerates bucket boundaries start, start+increment, ... while the
// boundary does not pass end. The sequence can be ranged over more than once.
func Dates(start, end time.Time, increment time.Duration) (iter.Seq[time.Time], error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("start %s is not before end %s: %w", start.Format(time.RFC3339), end.Format(time.RFC3339), ErrInvalidRange)
	}
	if increment <= 0 {
		return nil, fmt.Errorf("increment %s must be positive: %w", increment, ErrInvalidRange)
	}

	return func(yield func(time.Time) bool) {
		// Boundaries are start + k*increment.
		for k := 0; ; k++ {
			t := start.Add(time.Duration(k) * increment)
			if t.After(end) {
				return
			}
			if !yield(t) {
				return
			}
		}
	}, nil
}

// DateList collects Dates into a slice.
func DateList(start, end time.Time, increment time.Duration) ([]time.Time, error) {
	seq, err := Dates(start, end, increment)
	if err != nil {
		return nil, err
	}
	var dates []time.Time
	for d := range seq {
		dates = append(dates, d)
	}
	return dates, nil
}
