package utils

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// dropNaN returns the non-NaN values of xs. The raw survey tables carry
// "Missing" cells, so every statistic here works on the observed values
// only.
func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// Mean of the non-missing values. NaN when nothing is observed.
func Mean(xs []float64) float64 {
	clean := dropNaN(xs)
	if len(clean) == 0 {
		return math.NaN()
	}
	return stat.Mean(clean, nil)
}

// Median of the non-missing values. NaN when nothing is observed.
func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// Quantile of the non-missing values at p in [0,1].
func Quantile(xs []float64, p float64) float64 {
	clean := dropNaN(xs)
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)
	return stat.Quantile(p, stat.Empirical, clean, nil)
}

// Quantiles evaluates several probabilities over one sorted pass.
func Quantiles(xs []float64, ps []float64) []float64 {
	clean := dropNaN(xs)
	out := make([]float64, len(ps))
	if len(clean) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	sort.Float64s(clean)
	for i, p := range ps {
		out[i] = stat.Quantile(p, stat.Empirical, clean, nil)
	}
	return out
}
