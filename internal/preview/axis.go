package preview

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"
)

// AxisMap creates a mapping from source indices to target indices.
// Used to remap data series to fit available space.
func AxisMap(total, target int) []int {
	if total <= 0 || target <= 0 {
		return nil
	}
	mapping := make([]int, total)
	if total == 1 {
		return mapping
	}
	maxIdx := float64(target - 1)
	denom := float64(total - 1)
	for i := range total {
		mapping[i] = int(math.Round(float64(i) * maxIdx / denom))
	}
	return mapping
}

// RemapSeries squeezes values into target columns, keeping the peak of
// every group so spikes survive the downsampling.
func RemapSeries(values []float64, target int) []float64 {
	if len(values) == 0 || target <= 0 {
		return nil
	}
	if target >= len(values) {
		return append([]float64(nil), values...)
	}
	mapping := AxisMap(len(values), target)
	out := make([]float64, target)
	seen := make([]bool, target)
	for i, v := range values {
		col := mapping[i]
		if !seen[col] || v > out[col] {
			out[col] = v
			seen[col] = true
		}
	}
	return out
}

// BuildValueYAxisLabels creates Y-axis labels for numeric values.
// Returns a map of row index to label string.
func BuildValueYAxisLabels(maxVal float64, height int) map[int]string {
	labels := make(map[int]string)
	if height <= 0 {
		return labels
	}
	maxVal = max(maxVal, 0)
	tickCount := min(3, height)
	if tickCount < 2 {
		labels[height-1] = ShortNumber(0)
		return labels
	}
	for i := range tickCount {
		row := int(math.Round(float64(i) * float64(height-1) / float64(tickCount-1)))
		val := maxVal * float64(tickCount-1-i) / float64(tickCount-1)
		labels[row] = ShortNumber(val)
	}
	return labels
}

// MaxLabelWidth returns the maximum display width of labels in a map.
func MaxLabelWidth(labels map[int]string) int {
	maxWidth := 0
	for _, label := range labels {
		maxWidth = max(maxWidth, lipgloss.Width(label))
	}
	return maxWidth
}

// ApplyYAxisLabels prepends Y-axis labels to chart lines.
// Each line gets a label if present in the labels map, or spacing otherwise.
func ApplyYAxisLabels(lines []string, labels map[int]string, width int, style lipgloss.Style) []string {
	if width <= 0 {
		return lines
	}
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		raw := labels[i]
		prefix := strings.Repeat(" ", max(width-lipgloss.Width(raw), 0))
		if raw != "" {
			raw = style.Render(raw)
		}
		out = append(out, prefix+raw+" "+line)
	}
	return out
}

// BuildBucketLabelLine creates a horizontal label line with evenly spaced labels.
// Label positions are spread over the first span columns; labels may extend
// past span up to width. Empty labels are skipped and labels never overlap.
func BuildBucketLabelLine(width, span int, labels []string) string {
	if width <= 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", width))
	if len(labels) == 0 || width < 2 {
		return string(line)
	}

	positions := AxisMap(len(labels), min(max(span, 1), width))
	lastEnd := -1
	for i, label := range labels {
		if label == "" {
			continue
		}
		labelRunes := []rune(label)
		start := max(positions[i]-len(labelRunes)/2, 0)
		if start+len(labelRunes) > width {
			start = max(width-len(labelRunes), 0)
		}
		if start <= lastEnd+1 {
			continue
		}
		length := min(start+len(labelRunes), width) - start
		if length <= 0 {
			continue
		}
		copy(line[start:], labelRunes[:length])
		lastEnd = start + length - 1
	}
	return string(line)
}

// ShortNumber formats a number into a compact string (e.g., 999, 9.9K, 120K).
func ShortNumber(v float64) string {
	if v < 0 {
		return "-" + ShortNumber(-v)
	}
	n := int64(math.Round(v))
	switch {
	case n < 1_000:
		if v != math.Trunc(v) && v < 10 {
			return fmt.Sprintf("%.1f", v)
		}
		return fmt.Sprintf("%d", n)
	case n < 10_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	case n < 1_000_000:
		return fmt.Sprintf("%dK", n/1_000)
	case n < 10_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n < 1_000_000_000:
		return fmt.Sprintf("%dM", n/1_000_000)
	case n < 10_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	default:
		return fmt.Sprintf("%dB", n/1_000_000_000)
	}
}
