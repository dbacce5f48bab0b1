package models

import (
	"math"
	"sort"
)

// Statistical helpers shared by the analysis components. All guard their
// degenerate cases (empty input, zero denominators) by returning 0 rather
// than NaN, matching the pipeline's no-throw policy for thin data.

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - m
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// CoefficientOfVariation returns stddev/|mean|, or 0 when the mean is zero.
func CoefficientOfVariation(values []float64) float64 {
	m := Mean(values)
	if m == 0 {
		return 0
	}
	return StdDev(values) / math.Abs(m)
}

// Correlation returns the Pearson correlation of two equal-length series.
// Returns 0 when either series is degenerate.
func Correlation(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}
	mx, my := Mean(xs), Mean(ys)
	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}

// OLSFit holds an ordinary-least-squares fit of value against index.
type OLSFit struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// FitOLS regresses values against their 0-based index. The R² is floored at
// 0 so downstream scores stay inside [0,1].
func FitOLS(values []float64) OLSFit {
	n := len(values)
	if n < 2 {
		return OLSFit{}
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	mx, my := Mean(xs), Mean(values)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := values[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 {
		return OLSFit{Intercept: my}
	}

	slope := sxy / sxx
	intercept := my - slope*mx

	r2 := 0.0
	if syy != 0 {
		r2 = (sxy * sxy) / (sxx * syy)
	}
	if r2 < 0 {
		r2 = 0
	}

	return OLSFit{Slope: slope, Intercept: intercept, R2: r2}
}

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// Median returns the 50th percentile of values.
func Median(values []float64) float64 {
	return Percentile(values, 50)
}

// CAGR computes the compound annual growth rate from first to last over the
// elapsed years. Returns 0 when the window is shorter than minMonths, when
// no non-zero starting value exists, or when the sign flips (a compounding
// rate is meaningless across a sign change).
func CAGR(values []float64, minMonths int) float64 {
	if len(values) < minMonths {
		return 0
	}

	firstIdx := -1
	for i, v := range values {
		if v != 0 {
			firstIdx = i
			break
		}
	}
	if firstIdx < 0 || firstIdx == len(values)-1 {
		return 0
	}

	first := values[firstIdx]
	last := values[len(values)-1]
	if first*last <= 0 {
		return 0
	}

	years := float64(len(values)-1-firstIdx) / 12.0
	if years <= 0 {
		return 0
	}
	return math.Pow(last/first, 1/years) - 1
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
