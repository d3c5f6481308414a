// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipIndex floors value and clips the result to a valid index in
// [0, n). NaN values are mapped to 0. The clipping is done in floating
// point so that infinite values never reach the int conversion.
func ClipIndex(value float64, n int) int {
	if math.IsNaN(value) {
		return 0
	}
	return int(Clip(math.Floor(value), 0, float64(n-1)))
}

// MovingAverage returns the trailing moving average of values over a
// window. Element i of the result is the mean of values[i : i+window].
// If the window is larger than the number of values, it is shrunk to
// the number of values.
//
// The window sum is updated incrementally and recomputed from scratch
// once every window values, so rounding error cannot build up over
// long sequences.
func MovingAverage(values []float64, window int) []float64 {
	if len(values) == 0 || window < 1 {
		return nil
	}
	if window > len(values) {
		window = len(values)
	}

	averages := make([]float64, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 && (i-window+1)%window == 0 {
			sum = floats.Sum(values[i-window+1 : i+1])
		}
		if i >= window-1 {
			averages[i-window+1] = sum / float64(window)
		}
	}
	return averages
}
