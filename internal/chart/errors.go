package chart

import (
	"errors"

	"github.com/kpumuk/lazychart/internal/record"
)

var (
	// ErrInvalidRange is returned when start is not before end or the increment is unusable.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrDivideByZero is returned when a scale would divide by zero: a single
	// bucket chart, a non-positive chart width or a zero high watermark.
	ErrDivideByZero = errors.New("divide by zero")
	// ErrIndexOutOfRange is returned when a record falls outside the enumerated buckets.
	ErrIndexOutOfRange = errors.New("bucket index out of range")
	// ErrMissingField is returned when a record lacks the requested value or timestamp.
	ErrMissingField = record.ErrMissingField
)
