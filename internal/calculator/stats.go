package calculator

import "math"

// Mean computes the arithmetic mean of the given values. Returns 0 for an
// empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MeanGains averages the positive differences; negative entries contribute 0
// to the mean rather than being dropped.
func MeanGains(diffs []float64) float64 {
	if len(diffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range diffs {
		if d > 0 {
			sum += d
		}
	}
	return sum / float64(len(diffs))
}

// MeanLosses averages the absolute value of the negative differences;
// positive entries contribute 0 to the mean rather than being dropped.
func MeanLosses(diffs []float64) float64 {
	if len(diffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range diffs {
		if d < 0 {
			sum -= d
		}
	}
	return sum / float64(len(diffs))
}

// PopulationStdDev computes the population standard deviation (divide by N,
// not N-1) of the values around the given mean. Returns 0 for an empty slice.
func PopulationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}
