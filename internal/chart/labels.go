package chart

import (
	"fmt"
	"time"

	"github.com/kpumuk/lazychart/internal/mathutil"
)

const (
	// Ranges shorter than this get hour-of-day labels.
	hourlyLabelSpan = 36 * time.Hour
	// Rough horizontal room taken by one label, in pixels.
	labelWidthGuess = 100
)

// FormatLabel renders t as "H:00" when the range is shorter than 36 hours,
// otherwise as "D Mon". The label is computed in loc (UTC when nil).
func FormatLabel(start, end, t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	if end.Sub(start) < hourlyLabelSpan {
		return fmt.Sprintf("%d:00", t.Hour())
	}
	return t.Format("2 Jan")
}

// Labels formats every boundary in dates.
func Labels(start, end time.Time, dates []time.Time, loc *time.Location) []string {
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = FormatLabel(start, end, d, loc)
	}
	return labels
}

// DecimateLabels blanks labels that would overlap on a chart of the given
// pixel width and returns the stride between the labels it kept. The slice is
// modified in place and keeps its length; index 0 is always kept.
func DecimateLabels(labels []string, width int) (int, error) {
	if width <= 0 {
		return 0, fmt.Errorf("chart width %d: %w", width, ErrDivideByZero)
	}

	capacity := max(width/labelWidthGuess, 1)
	if capacity >= len(labels) {
		return 1, nil
	}

	skip := mathutil.CeilDiv(len(labels), capacity)
	for i := range labels {
		if i%skip != 0 {
			labels[i] = ""
		}
	}
	return skip, nil
}
