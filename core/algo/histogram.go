package algo

import (
	"math"

	"github.com/huangsam/xmr/schema"
)

// Histogram bins values into equal-width bins and overlays a normal curve
// fitted with the population mean and standard deviation. The last bin is
// closed on the right so the maximum value is always counted.
func Histogram(values []float64, bins int) schema.DistributionResult {
	n := len(values)
	if n == 0 {
		return schema.DistributionResult{}
	}
	if bins < 1 {
		bins = DefaultBins
	}

	lo, hi := values[0], values[0]
	var sum float64
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	stdDev := math.Sqrt(sq / float64(n))

	width := (hi - lo) / float64(bins)
	var centers, freqs []float64
	if width == 0 {
		// Every value is identical: a single unit-width bin holds them all.
		width = 1
		centers = []float64{lo}
		freqs = []float64{float64(n)}
	} else {
		centers = make([]float64, bins)
		freqs = make([]float64, bins)
		for i := range bins {
			centers[i] = lo + (float64(i)+0.5)*width
		}
		for _, v := range values {
			idx := int((v - lo) / width)
			if idx >= bins {
				idx = bins - 1
			}
			freqs[idx]++
		}
	}

	curve := make([]float64, len(centers))
	scale := float64(n) * width
	for i, c := range centers {
		curve[i] = scale * normalPDF(c, mean, stdDev)
	}

	return schema.DistributionResult{
		Bins:        centers,
		Frequencies: freqs,
		NormalCurve: curve,
		BinWidth:    width,
		Mean:        mean,
		StdDev:      stdDev,
		Count:       n,
	}
}

// normalPDF evaluates the normal density at x. A zero stdDev yields the
// unit-sigma peak height for every x.
func normalPDF(x, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 1 / math.Sqrt(2*math.Pi)
	}
	z := (x - mean) / stdDev
	return math.Exp(-0.5*z*z) / (stdDev * math.Sqrt(2*math.Pi))
}
