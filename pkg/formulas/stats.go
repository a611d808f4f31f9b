package formulas

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Percentile returns the empirical p-quantile (p in [0,1]) of the data.
// The input slice is not modified.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Diffs returns the first differences of a series: out[i] = data[i+1] - data[i].
func Diffs(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	out := make([]float64, len(data)-1)
	for i := 1; i < len(data); i++ {
		out[i-1] = data[i] - data[i-1]
	}
	return out
}

// SharpeRatio computes mean/stddev over a return series.
// Returns 0 when the series is too short or has zero variance.
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sd := StdDev(returns)
	if sd == 0 {
		return 0
	}
	return Mean(returns) / sd
}

// Herfindahl computes the Herfindahl-Hirschman index of the given
// exposures: the sum of squared shares of the total. Returns 0 when
// total exposure is zero.
func Herfindahl(exposures []float64) float64 {
	total := 0.0
	for _, e := range exposures {
		total += e
	}
	if total == 0 {
		return 0
	}
	hhi := 0.0
	for _, e := range exposures {
		share := e / total
		hhi += share * share
	}
	return hhi
}
