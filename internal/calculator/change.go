package calculator

import (
	"errors"

	"AfriQuoteFeed/internal/model"
)

// ErrZeroBase is returned when a percentage change would divide by zero.
var ErrZeroBase = errors.New("previous value is zero")

// PercentChange returns (last-prev)/prev*100.
func PercentChange(prev, last float64) (float64, error) {
	if prev == 0 {
		return 0, ErrZeroBase
	}
	return (last - prev) / prev * 100, nil
}

// LastChange computes the change between the two most recent closes.
// Fewer than two points yield 0 with no error.
func LastChange(points []model.QuotePoint) (float64, error) {
	n := len(points)
	if n < 2 {
		return 0, nil
	}
	prev, last := points[n-2].Close, points[n-1].Close
	if prev == nil || last == nil {
		return 0, errors.New("close missing on latest points")
	}
	return PercentChange(*prev, *last)
}
