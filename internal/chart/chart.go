package chart

import (
	"encoding/json"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/kpumuk/lazychart/internal/record"
)

// Default chart dimensions in pixels.
const (
	DefaultWidth  = 500
	DefaultHeight = 300
)

// Options describes the range being charted and the chart it feeds.
type Options struct {
	Start     time.Time
	End       time.Time
	Increment time.Duration
	Title     string
	Width     int
	Height    int
	// Location is used for labels and for record times without a zone. Nil means UTC.
	Location *time.Location
}

// Descriptor is the data a chart renderer needs: normalized series, labels
// and grid spacing.
type Descriptor struct {
	Width     int
	Height    int
	Title     string
	HighWater float64
	Labels    []string
	Data      [][]float64
	YGrid     float64
	XGrid     float64
}

// Size returns the chart size as "WxH".
func (d Descriptor) Size() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// MarshalJSON encodes the descriptor with its series keyed data0, data1, ...
func (d Descriptor) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"size":   d.Size(),
		"title":  d.Title,
		"hw":     d.HighWater,
		"labels": d.Labels,
		"ygrid":  d.YGrid,
		"xgrid":  d.XGrid,
	}
	for i, data := range d.Data {
		out["data"+strconv.Itoa(i)] = data
	}
	return json.Marshal(out)
}

// Stats is the result of GenericStats.
type Stats struct {
	Dates  []time.Time
	Labels []string
	Totals []float64
	Adds   []float64
	Subs   []float64
	// HighWater and LowWater are the watermarks of Totals before buffering.
	HighWater float64
	LowWater  float64
	Chart     Descriptor
}

// MultiStats is the result of MultilineChart.
type MultiStats struct {
	Dates  []time.Time
	Labels []string
	Series []*Series
	Chart  Descriptor
}

type frame struct {
	dates  []time.Time
	labels []string
	binner Binner
}

func newFrame(opts Options) (frame, error) {
	binner, err := NewBinner(opts.Start, opts.End, opts.Increment)
	if err != nil {
		return frame{}, err
	}
	dates, err := DateList(opts.Start, opts.End, opts.Increment)
	if err != nil {
		return frame{}, err
	}
	return frame{
		dates:  dates,
		labels: Labels(opts.Start, opts.End, dates, opts.Location),
		binner: binner,
	}, nil
}

// describe buffers hw, decimates the frame labels and normalizes every series.
func (f frame) describe(opts Options, hw float64, series ...[]float64) (Descriptor, error) {
	bufferedHW := BufferHighWater(hw)
	ygrid, err := YGridScale(bufferedHW)
	if err != nil {
		return Descriptor{}, err
	}
	skip, err := DecimateLabels(f.labels, opts.Width)
	if err != nil {
		return Descriptor{}, err
	}
	xgrid, err := XGridScale(skip, len(f.labels))
	if err != nil {
		return Descriptor{}, err
	}

	data := make([][]float64, 0, len(series))
	for _, values := range series {
		normalized, err := Normalize(values, bufferedHW)
		if err != nil {
			return Descriptor{}, err
		}
		data = append(data, normalized)
	}

	return Descriptor{
		Width:     opts.Width,
		Height:    opts.Height,
		Title:     opts.Title,
		HighWater: bufferedHW,
		Labels:    f.labels,
		Data:      data,
		YGrid:     ygrid,
		XGrid:     xgrid,
	}, nil
}

// GenericStats bins adds, and subs when it is not nil, over the range in
// opts and returns the per-bucket totals with a chart of them.
func GenericStats(adds, subs iter.Seq[record.TimestampedValue], query Query, opts Options) (*Stats, error) {
	f, err := newFrame(opts)
	if err != nil {
		return nil, err
	}

	addSeries, err := Accumulate(adds, f.binner, query)
	if err != nil {
		return nil, fmt.Errorf("accumulate adds: %w", err)
	}

	subSeries := NewSeries(f.binner.Buckets)
	totals := addSeries.Clone()
	if subs != nil {
		subSeries, err = Accumulate(subs, f.binner, query)
		if err != nil {
			return nil, fmt.Errorf("accumulate subs: %w", err)
		}
		totals = Subtract(addSeries, subSeries)
	}

	chart, err := f.describe(opts, totals.HighWater(), totals.Data)
	if err != nil {
		return nil, fmt.Errorf("describe chart: %w", err)
	}

	return &Stats{
		Dates:     f.dates,
		Labels:    f.labels,
		Totals:    totals.Data,
		Adds:      addSeries.Data,
		Subs:      subSeries.Data,
		HighWater: totals.HighWater(),
		LowWater:  totals.LowWater(),
		Chart:     chart,
	}, nil
}

// MultilineChart bins each collection into its own series and charts them
// against a shared high watermark.
func MultilineChart(collections []iter.Seq[record.TimestampedValue], query Query, opts Options) (*MultiStats, error) {
	f, err := newFrame(opts)
	if err != nil {
		return nil, err
	}

	result := &MultiStats{Dates: f.dates, Labels: f.labels}
	var hw float64
	seen := false
	data := make([][]float64, 0, len(collections))
	for i, records := range collections {
		series, err := Accumulate(records, f.binner, query)
		if err != nil {
			return nil, fmt.Errorf("accumulate series %d: %w", i, err)
		}
		if series.Observed() && (!seen || series.HighWater() > hw) {
			hw, seen = series.HighWater(), true
		}
		result.Series = append(result.Series, series)
		data = append(data, series.Data)
	}

	result.Chart, err = f.describe(opts, hw, data...)
	if err != nil {
		return nil, fmt.Errorf("describe chart: %w", err)
	}
	return result, nil
}
