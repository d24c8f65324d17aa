// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"cmp"
	"math"
	"strconv"
)

// Clamp restricts a value to be within a specified range.
// Returns low if val < low, high if val > high, otherwise returns val.
func Clamp[T cmp.Ordered](val, low, high T) T {
	if val < low {
		return low
	}
	if val > high {
		return high
	}
	return val
}

// FloorDiv divides a by b rounding toward negative infinity.
// It panics when b is zero, like the built-in division.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CeilDiv divides a by b rounding toward positive infinity.
// Both operands are expected to be positive.
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}

// FloorMod returns x modulo m with the sign of m, so FloorMod(-5, 10) is 5.
func FloorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

// DigitCount returns the length of the decimal representation of n,
// including the minus sign for negative values.
func DigitCount(n int64) int {
	return len(strconv.FormatInt(n, 10))
}
