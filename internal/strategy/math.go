package strategy

import "math"

// mean returns the arithmetic mean of the values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// olsHedgeRatio fits y = beta*x by ordinary least squares through the
// origin and returns beta. Both slices must have the same length.
func olsHedgeRatio(y, x []float64) float64 {
	var sumXY, sumXX float64

	for i := range x {
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
	}

	if sumXX == 0 {
		return 0
	}

	return sumXY / sumXX
}

// residualZScore computes the z-score of the last residual of the spread
// y - beta*x against the window's residual mean and population standard
// deviation.
func residualZScore(y, x []float64, beta float64) float64 {
	spread := make([]float64, len(y))
	for i := range y {
		spread[i] = y[i] - beta*x[i]
	}

	mu := mean(spread)

	var variance float64
	for _, s := range spread {
		variance += (s - mu) * (s - mu)
	}

	variance /= float64(len(spread))

	sigma := math.Sqrt(variance)
	if sigma == 0 {
		return 0
	}

	return (spread[len(spread)-1] - mu) / sigma
}
