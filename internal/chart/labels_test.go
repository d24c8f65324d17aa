package chart

import (
	"errors"
	"slices"
	"strconv"
	"testing"
	"time"
)

func TestFormatLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		span time.Duration
		at   time.Time
		loc  *time.Location
		want string
	}{
		{name: "short range midnight", span: 24 * time.Hour, at: day0, want: "0:00"},
		{name: "short range afternoon", span: 24 * time.Hour, at: day0.Add(15*time.Hour + 30*time.Minute), want: "15:00"},
		{name: "just under 36 hours", span: 36*time.Hour - time.Second, at: day0.Add(9 * time.Hour), want: "9:00"},
		{name: "exactly 36 hours", span: 36 * time.Hour, at: day0.Add(9 * time.Hour), want: "1 Jan"},
		{name: "long range", span: 30 * 24 * time.Hour, at: day0.Add(14 * 24 * time.Hour), want: "15 Jan"},
		{
			name: "hour in location",
			span: 12 * time.Hour,
			at:   day0.Add(3 * time.Hour),
			loc:  time.FixedZone("EST", -5*60*60),
			want: "22:00",
		},
		{
			name: "day in location",
			span: 7 * 24 * time.Hour,
			at:   day0.Add(3 * time.Hour),
			loc:  time.FixedZone("EST", -5*60*60),
			want: "31 Dec",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FormatLabel(day0, day0.Add(tt.span), tt.at, tt.loc)
			if got != tt.want {
				t.Errorf("FormatLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func makeLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = "l" + strconv.Itoa(i)
	}
	return labels
}

func TestDecimateLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		count    int
		width    int
		wantSkip int
	}{
		{name: "everything fits", count: 3, width: 500, wantSkip: 1},
		{name: "exact fit", count: 5, width: 500, wantSkip: 1},
		{name: "one too many", count: 6, width: 500, wantSkip: 2},
		{name: "month of days", count: 31, width: 500, wantSkip: 7},
		{name: "narrow chart keeps one slot", count: 4, width: 50, wantSkip: 4},
		{name: "single label", count: 1, width: 100, wantSkip: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			labels := makeLabels(tt.count)
			skip, err := DecimateLabels(labels, tt.width)
			if err != nil {
				t.Fatalf("DecimateLabels failed: %v", err)
			}
			if skip != tt.wantSkip {
				t.Errorf("skip = %d, want %d", skip, tt.wantSkip)
			}
			if len(labels) != tt.count {
				t.Fatalf("len(labels) = %d, want %d", len(labels), tt.count)
			}
			if labels[0] != "l0" {
				t.Errorf("labels[0] = %q, want l0", labels[0])
			}
			kept := 0
			for i, label := range labels {
				switch {
				case i%skip == 0 && label != "l"+strconv.Itoa(i):
					t.Errorf("labels[%d] = %q, want it kept", i, label)
				case i%skip != 0 && label != "":
					t.Errorf("labels[%d] = %q, want it cleared", i, label)
				}
				if label != "" {
					kept++
				}
			}
			if want := (tt.count + skip - 1) / skip; kept != want {
				t.Errorf("kept %d labels, want %d", kept, want)
			}
		})
	}
}

func TestDecimateLabels_InvalidWidth(t *testing.T) {
	t.Parallel()

	for _, width := range []int{0, -100} {
		labels := makeLabels(3)
		before := slices.Clone(labels)
		if _, err := DecimateLabels(labels, width); !errors.Is(err, ErrDivideByZero) {
			t.Errorf("DecimateLabels(width=%d) error = %v, want ErrDivideByZero", width, err)
		}
		if !slices.Equal(labels, before) {
			t.Errorf("DecimateLabels(width=%d) modified labels: %v", width, labels)
		}
	}
}
