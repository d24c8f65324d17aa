package chart

import (
	"fmt"
	"time"

	"github.com/kpumuk/lazychart/internal/mathutil"
)

// Binner maps instants to bucket indices for a fixed range and increment.
type Binner struct {
	Start     time.Time
	End       time.Time
	Increment time.Duration
	// Buckets is the number of enumerated boundaries; see NewBinner.
	Buckets int
}

// NewBinner validates the range and counts its buckets. Binning works on
// whole seconds, so the increment must be at least one second.
func NewBinner(start, end time.Time, increment time.Duration) (Binner, error) {
	if increment < time.Second {
		return Binner{}, fmt.Errorf("increment %s is shorter than a second: %w", increment, ErrInvalidRange)
	}
	seq, err := Dates(start, end, increment)
	if err != nil {
		return Binner{}, err
	}
	count := 0
	for range seq {
		count++
	}
	return Binner{Start: start, End: end, Increment: increment, Buckets: count}, nil
}

// Index returns floor((t - start) / increment) in whole seconds. The result is
// not bounds checked.
func (b Binner) Index(t time.Time) int {
	seconds := int64(b.Increment / time.Second)
	return int(mathutil.FloorDiv(t.Unix()-b.Start.Unix(), seconds))
}

// Bucket returns the index for t, failing when t lands outside the buckets.
func (b Binner) Bucket(t time.Time) (int, error) {
	idx := b.Index(t)
	if idx < 0 || idx >= b.Buckets {
		return idx, fmt.Errorf("timestamp %s maps to bucket %d of %d: %w", t.Format(time.RFC3339), idx, b.Buckets, ErrIndexOutOfRange)
	}
	return idx, nil
}
