package analyzer

import (
	"math"
	"sort"
)

// round4 rounds to 4 decimal places, the precision used by every analysis
// result.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// finite converts NaN/Inf estimates to 0 so reports stay JSON-encodable.
// Undefined spread estimators (single-sample std, low-n skewness) report 0
// rather than failing the whole analysis.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// std is the sample standard deviation (n-1 denominator).
func std(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// quantile computes the q-th quantile with linear interpolation between
// order statistics.
func quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func median(xs []float64) float64 {
	return quantile(xs, 0.5)
}

// skewness is the adjusted Fisher-Pearson coefficient, matching the
// bias-corrected estimator statistical packages report.
func skewness(xs []float64) float64 {
	n := float64(len(xs))
	if n < 3 {
		return math.NaN()
	}
	m := mean(xs)
	s := std(xs)
	if s == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		d := (x - m) / s
		sum += d * d * d
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// kurtosis is the bias-corrected excess kurtosis (normal distribution -> 0).
func kurtosis(xs []float64) float64 {
	n := float64(len(xs))
	if n < 4 {
		return math.NaN()
	}
	m := mean(xs)
	s := std(xs)
	if s == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		d := (x - m) / s
		sum += d * d * d * d
	}
	return n*(n+1)/((n-1)*(n-2)*(n-3))*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}

// zscores standardizes against the population standard deviation, the
// convention of the usual z-score outlier test.
func zscores(xs []float64) []float64 {
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	sd := math.Sqrt(sum / float64(len(xs)))
	out := make([]float64, len(xs))
	for i, x := range xs {
		if sd == 0 {
			out[i] = 0
			continue
		}
		out[i] = (x - m) / sd
	}
	return out
}
