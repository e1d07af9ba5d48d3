package algo

import "math"

// NormalCDF is the standard normal cumulative distribution function.
func NormalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

// RarityOdds returns the "1 in N" two-tailed rarity of value for a normal
// process centered on center with the given standard deviation.
func RarityOdds(value, center, stdDev float64, p Params) float64 {
	if stdDev <= p.Epsilon {
		return 1.0
	}
	z := math.Abs(value-center) / stdDev
	prob := 2 * (1 - NormalCDF(z))
	if prob <= p.OddsMinProbability {
		return p.OddsCap
	}
	return math.Round(1 / prob)
}
