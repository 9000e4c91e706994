package metrics

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a series of samples.
type Summary struct {
	N    int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
	P95  float64
}

func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	sum := Summary{
		N:   len(xs),
		Min: floats.Min(sorted),
		Max: floats.Max(sorted),
		P95: stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	if len(xs) > 1 {
		sum.Mean, sum.Std = stat.MeanStdDev(sorted, nil)
	} else {
		sum.Mean = sorted[0]
	}
	return sum
}
