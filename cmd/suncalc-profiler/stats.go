package main

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// series accumulates signed errors for one metric. NaN samples (events that
// do not occur) are counted but not summarized.
type series struct {
	name    string
	unit    string
	values  []float64
	skipped int
}

func (s *series) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.skipped++
		return
	}
	s.values = append(s.values, v)
}

type summary struct {
	Count   int
	Skipped int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	MeanAbs float64
	P95Abs  float64
}

func (s *series) summarize() summary {
	sum := summary{Count: len(s.values), Skipped: s.skipped}
	if len(s.values) == 0 {
		nan := math.NaN()
		sum.Mean, sum.StdDev, sum.Min, sum.Max, sum.MeanAbs, sum.P95Abs = nan, nan, nan, nan, nan, nan
		return sum
	}

	sum.Mean = stat.Mean(s.values, nil)
	sum.Min = floats.Min(s.values)
	sum.Max = floats.Max(s.values)
	if len(s.values) > 1 {
		sum.StdDev = stat.StdDev(s.values, nil)
	}

	abs := make([]float64, len(s.values))
	for i, v := range s.values {
		abs[i] = math.Abs(v)
	}
	sum.MeanAbs = stat.Mean(abs, nil)

	sort.Float64s(abs)
	sum.P95Abs = stat.Quantile(0.95, stat.Empirical, abs, nil)

	return sum
}
