package chart

import (
	"fmt"
	"math"

	"github.com/kpumuk/lazychart/internal/mathutil"
)

const (
	// Headroom added on top of the high watermark before scaling.
	highWaterBuffer = 0.25
	// Stand-in for zero so renderers that hide zero still draw the point.
	zeroSentinel = 0.00001
)

// RoundUpToNearestTen returns the next multiple of ten strictly above v.
// Exact multiples move up a full step: 20 becomes 30.
func RoundUpToNearestTen(v float64) float64 {
	return v + (10 - mathutil.FloorMod(v, 10))
}

// BufferHighWater adds 25% headroom to hw, rounding both parts up to a
// multiple of ten.
func BufferHighWater(hw float64) float64 {
	return RoundUpToNearestTen(hw) + RoundUpToNearestTen(math.Floor(highWaterBuffer*hw))
}

// YGridScale returns the spacing of horizontal grid lines as a percentage of
// the axis. Lines fall on half powers of ten sized to the buffered high watermark.
func YGridScale(bufferedHW float64) (float64, error) {
	if bufferedHW == 0 {
		return 0, fmt.Errorf("y grid for zero high watermark: %w", ErrDivideByZero)
	}
	factor := max(1, mathutil.DigitCount(int64(bufferedHW))-1)
	return (math.Pow(10, float64(factor)) / 2) / bufferedHW * 100, nil
}

// XGridScale returns the spacing of vertical grid lines as a percentage of
// the axis: one line per kept label.
func XGridScale(skip, labelCount int) (float64, error) {
	if labelCount <= 1 {
		return 0, fmt.Errorf("x grid for %d label(s): %w", labelCount, ErrDivideByZero)
	}
	skip = max(skip, 1)
	return float64(skip) / float64(labelCount-1) * 100, nil
}

// Normalize scales values to percentages of bufferedHW. Exact zeros become a
// tiny positive sentinel; values above the watermark are not clamped.
func Normalize(values []float64, bufferedHW float64) ([]float64, error) {
	if bufferedHW == 0 {
		return nil, fmt.Errorf("normalize against zero high watermark: %w", ErrDivideByZero)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if v == 0 {
			out[i] = zeroSentinel
			continue
		}
		out[i] = v / bufferedHW * 100
	}
	return out, nil
}
