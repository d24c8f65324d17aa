package chart

import (
	"fmt"
	"iter"

	"github.com/kpumuk/lazychart/internal/record"
)

// Query names the record fields the aggregator reads.
type Query struct {
	// TimeField holds the instant used for binning.
	TimeField string
	// ValueField holds the amount to sum. Empty counts records instead.
	ValueField string
}

// Series holds per-bucket totals and the running watermarks seen while
// accumulating them.
type Series struct {
	Data []float64

	high, low float64
	seen      bool
}

// NewSeries returns a zeroed series with size buckets.
func NewSeries(size int) *Series {
	return &Series{Data: make([]float64, size)}
}

// Add accumulates value into bucket idx and updates the watermarks with the
// bucket's new total.
func (s *Series) Add(idx int, value float64) error {
	if idx < 0 || idx >= len(s.Data) {
		return fmt.Errorf("bucket %d of %d: %w", idx, len(s.Data), ErrIndexOutOfRange)
	}
	s.Data[idx] += value
	s.observe(s.Data[idx])
	return nil
}

func (s *Series) observe(v float64) {
	if !s.seen {
		s.high, s.low, s.seen = v, v, true
		return
	}
	s.high = max(s.high, v)
	s.low = min(s.low, v)
}

// HighWater returns the largest bucket total observed, or 0 when nothing was added.
func (s *Series) HighWater() float64 {
	return s.high
}

// Observed reports whether any bucket total was recorded.
func (s *Series) Observed() bool {
	return s.seen
}

// LowWater returns the smallest bucket total observed, or 0 when nothing was added.
func (s *Series) LowWater() float64 {
	return s.low
}

// Accumulate walks records once and sums them into buckets. Each record
// contributes its ValueField, or 1 when the query has no value field.
func Accumulate(records iter.Seq[record.TimestampedValue], binner Binner, query Query) (*Series, error) {
	series := NewSeries(binner.Buckets)
	if records == nil {
		return series, nil
	}

	n := 0
	for r := range records {
		at, err := r.Timestamp(query.TimeField)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		value := 1.0
		if query.ValueField != "" {
			value, err = r.Value(query.ValueField)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", n, err)
			}
		}
		idx, err := binner.Bucket(at)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		if err := series.Add(idx, value); err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		n++
	}
	return series, nil
}

// Subtract returns adds minus subs bucket by bucket. The watermarks of the
// result cover every bucket, including ones neither series touched.
func Subtract(adds, subs *Series) *Series {
	totals := NewSeries(len(adds.Data))
	for i := range totals.Data {
		totals.Data[i] = adds.Data[i] - subs.Data[i]
		totals.observe(totals.Data[i])
	}
	return totals
}

// Clone returns an independent copy of s.
func (s *Series) Clone() *Series {
	return &Series{
		Data: append([]float64(nil), s.Data...),
		high: s.high,
		low:  s.low,
		seen: s.seen,
	}
}
