package calculator

import (
	"errors"
	"math"

	"AfriQuoteFeed/internal/model"
)

// PeriodRange scans the points and returns the highest high and lowest low.
// Points with a null high or low fall back to their close.
func PeriodRange(points []model.QuotePoint) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no quote points provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range points {
		h, l := valueOr(p.High, p.Close), valueOr(p.Low, p.Close)
		if h > high {
			high = h
		}
		if l < low {
			low = l
		}
	}
	return high, low, nil
}

// RangePosition returns where current sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

func valueOr(v, fallback *float64) float64 {
	if v != nil {
		return *v
	}
	if fallback != nil {
		return *fallback
	}
	return math.NaN()
}
