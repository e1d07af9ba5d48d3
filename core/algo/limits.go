package algo

import "math"

// ComputeLimits returns the arithmetic mean of values and the mean of the
// absolute differences between consecutive values.
func ComputeLimits(values []float64) (centerLine, meanMovingRange float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}

	var sum, mrSum float64
	for i, v := range values {
		sum += v
		if i > 0 {
			mrSum += math.Abs(v - values[i-1])
		}
	}
	n := float64(len(values))
	return sum / n, mrSum / (n - 1)
}

// NaturalLimits derives the individuals chart limits from a center line and a
// mean moving range. The lower limit never goes below zero.
func NaturalLimits(centerLine, meanMovingRange float64, p Params) (ucl, lcl float64) {
	spread := p.NPLMultiplier * meanMovingRange
	return centerLine + spread, math.Max(0, centerLine-spread)
}

// Mean returns the arithmetic mean of values, or 0 when empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
