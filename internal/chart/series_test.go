package chart

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/kpumuk/lazychart/internal/record"
)

func dailyBinner(t *testing.T) Binner {
	t.Helper()
	b, err := NewBinner(day0, day0.Add(48*time.Hour), 24*time.Hour)
	if err != nil {
		t.Fatalf("NewBinner failed: %v", err)
	}
	return b
}

func points(ps ...record.Point) []record.Point {
	return ps
}

func TestAccumulate_Sum(t *testing.T) {
	t.Parallel()

	rows := []map[string]any{
		{"at": day0.Add(12 * time.Hour), "amount": 5},
		{"at": day0.Add(30 * time.Hour), "amount": 3},
		{"at": day0.Add(42 * time.Hour), "amount": 7},
	}
	series, err := Accumulate(record.Values(rows, time.UTC), dailyBinner(t), Query{TimeField: "at", ValueField: "amount"})
	if err != nil {
		t.Fatalf("Accumulate failed: %v", err)
	}

	if want := []float64{5, 10, 0}; !slices.Equal(series.Data, want) {
		t.Errorf("Data = %v, want %v", series.Data, want)
	}
	if series.HighWater() != 10 {
		t.Errorf("HighWater = %v, want 10", series.HighWater())
	}
	// Low watermark tracks assignments, so the untouched third bucket is not seen.
	if series.LowWater() != 3 {
		t.Errorf("LowWater = %v, want 3", series.LowWater())
	}
}

func TestAccumulate_Count(t *testing.T) {
	t.Parallel()

	type event struct {
		CreatedAt time.Time
	}
	rows := []event{
		{CreatedAt: day0},
		{CreatedAt: day0.Add(time.Hour)},
		{CreatedAt: day0.Add(47 * time.Hour)},
	}
	series, err := Accumulate(record.Values(rows, time.UTC), dailyBinner(t), Query{TimeField: "created_at"})
	if err != nil {
		t.Fatalf("Accumulate failed: %v", err)
	}
	if want := []float64{2, 1, 0}; !slices.Equal(series.Data, want) {
		t.Errorf("Data = %v, want %v", series.Data, want)
	}
}

func TestAccumulate_WatermarksAreIncremental(t *testing.T) {
	t.Parallel()

	ps := points(
		record.Point{At: day0, Amount: 8},
		record.Point{At: day0, Amount: -6},
		record.Point{At: day0.Add(24 * time.Hour), Amount: 1},
	)
	series, err := Accumulate(record.Values(ps, nil), dailyBinner(t), Query{ValueField: "value"})
	if err != nil {
		t.Fatalf("Accumulate failed: %v", err)
	}
	if want := []float64{2, 1, 0}; !slices.Equal(series.Data, want) {
		t.Errorf("Data = %v, want %v", series.Data, want)
	}
	// The intermediate total of 8 in bucket 0 stays the high watermark.
	if series.HighWater() != 8 {
		t.Errorf("HighWater = %v, want 8", series.HighWater())
	}
	if series.LowWater() != 1 {
		t.Errorf("LowWater = %v, want 1", series.LowWater())
	}
}

func TestAccumulate_Empty(t *testing.T) {
	t.Parallel()

	for name, records := range map[string][]record.Point{"nil": nil, "empty": {}} {
		series, err := Accumulate(record.Values(records, nil), dailyBinner(t), Query{})
		if err != nil {
			t.Fatalf("%s: Accumulate failed: %v", name, err)
		}
		if want := []float64{0, 0, 0}; !slices.Equal(series.Data, want) {
			t.Errorf("%s: Data = %v, want %v", name, series.Data, want)
		}
		if series.HighWater() != 0 || series.LowWater() != 0 {
			t.Errorf("%s: watermarks = %v/%v, want 0/0", name, series.HighWater(), series.LowWater())
		}
		if series.Observed() {
			t.Errorf("%s: Observed() = true, want false", name)
		}
	}

	series, err := Accumulate(nil, dailyBinner(t), Query{})
	if err != nil || len(series.Data) != 3 {
		t.Errorf("Accumulate(nil) = %v, %v, want three zero buckets", series, err)
	}
}

func TestAccumulate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rows  []map[string]any
		query Query
		want  error
	}{
		{
			name:  "missing value field",
			rows:  []map[string]any{{"at": day0}},
			query: Query{TimeField: "at", ValueField: "amount"},
			want:  ErrMissingField,
		},
		{
			name:  "missing time field",
			rows:  []map[string]any{{"amount": 1}},
			query: Query{TimeField: "at", ValueField: "amount"},
			want:  ErrMissingField,
		},
		{
			name:  "before range",
			rows:  []map[string]any{{"at": day0.Add(-time.Minute)}},
			query: Query{TimeField: "at"},
			want:  ErrIndexOutOfRange,
		},
		{
			name:  "after range",
			rows:  []map[string]any{{"at": day0.Add(72 * time.Hour)}},
			query: Query{TimeField: "at"},
			want:  ErrIndexOutOfRange,
		},
		{
			name:  "unparsable value",
			rows:  []map[string]any{{"at": day0, "amount": "lots"}},
			query: Query{TimeField: "at", ValueField: "amount"},
			want:  record.ErrInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			series, err := Accumulate(record.Values(tt.rows, time.UTC), dailyBinner(t), tt.query)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Accumulate error = %v, want %v", err, tt.want)
			}
			if series != nil {
				t.Errorf("Accumulate returned partial series %v", series.Data)
			}
		})
	}
}

func TestSeries_AddOutOfRange(t *testing.T) {
	t.Parallel()

	s := NewSeries(2)
	for _, idx := range []int{-1, 2} {
		if err := s.Add(idx, 1); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Add(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	if !slices.Equal(s.Data, []float64{0, 0}) {
		t.Errorf("Data = %v, want untouched", s.Data)
	}
}

func TestSubtract(t *testing.T) {
	t.Parallel()

	adds := NewSeries(3)
	subs := NewSeries(3)
	for i, v := range []float64{5, 10, 0} {
		_ = adds.Add(i, v)
	}
	for i, v := range []float64{0, 4, 3} {
		_ = subs.Add(i, v)
	}

	totals := Subtract(adds, subs)
	if want := []float64{5, 6, -3}; !slices.Equal(totals.Data, want) {
		t.Errorf("Data = %v, want %v", totals.Data, want)
	}
	if totals.HighWater() != 6 {
		t.Errorf("HighWater = %v, want 6", totals.HighWater())
	}
	if totals.LowWater() != -3 {
		t.Errorf("LowWater = %v, want -3", totals.LowWater())
	}
}

func TestSeries_Clone(t *testing.T) {
	t.Parallel()

	s := NewSeries(2)
	_ = s.Add(0, 4)
	c := s.Clone()
	c.Data[0] = 99
	if s.Data[0] != 4 {
		t.Errorf("original Data[0] = %v after clone mutation, want 4", s.Data[0])
	}
	if c.HighWater() != 4 || !c.Observed() {
		t.Errorf("clone watermarks = %v observed=%v, want 4 true", c.HighWater(), c.Observed())
	}
}
