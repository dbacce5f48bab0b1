package models_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"fjacquet/pnl-forecast/internal/models"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, models.Mean(nil))
	assert.InDelta(t, 2.0, models.Mean([]float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, -1.5, models.Mean([]float64{-1, -2}), 1e-9)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, models.StdDev([]float64{5}))
	// Population stddev of {2,4,4,4,5,5,7,9} is exactly 2.
	assert.InDelta(t, 2.0, models.StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	assert.Equal(t, 0.0, models.StdDev([]float64{3, 3, 3, 3}))
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, models.CoefficientOfVariation([]float64{0, 0, 0}))
	// stddev 2, mean 5 -> 0.4
	assert.InDelta(t, 0.4, models.CoefficientOfVariation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	// Negative mean uses its magnitude.
	assert.InDelta(t, 0.4, models.CoefficientOfVariation([]float64{-2, -4, -4, -4, -5, -5, -7, -9}), 1e-9)
}

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
		want float64
	}{
		{name: "Perfect positive", xs: []float64{1, 2, 3, 4}, ys: []float64{10, 20, 30, 40}, want: 1},
		{name: "Perfect negative", xs: []float64{1, 2, 3, 4}, ys: []float64{40, 30, 20, 10}, want: -1},
		{name: "Degenerate series", xs: []float64{1, 2, 3}, ys: []float64{5, 5, 5}, want: 0},
		{name: "Length mismatch", xs: []float64{1, 2}, ys: []float64{1}, want: 0},
		{name: "Empty", xs: nil, ys: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, models.Correlation(tt.xs, tt.ys), 1e-9)
		})
	}
}

func TestFitOLS(t *testing.T) {
	// y = 3 + 2x fits exactly.
	fit := models.FitOLS([]float64{3, 5, 7, 9})
	assert.InDelta(t, 2.0, fit.Slope, 1e-9)
	assert.InDelta(t, 3.0, fit.Intercept, 1e-9)
	assert.InDelta(t, 1.0, fit.R2, 1e-9)

	// A flat series has zero slope and zero explained variance.
	flat := models.FitOLS([]float64{4, 4, 4, 4})
	assert.Equal(t, 0.0, flat.Slope)
	assert.InDelta(t, 4.0, flat.Intercept, 1e-9)
	assert.Equal(t, 0.0, flat.R2)

	assert.Equal(t, models.OLSFit{}, models.FitOLS([]float64{1}))
}

func TestPercentile(t *testing.T) {
	values := []float64{15, 20, 35, 40, 50}

	assert.Equal(t, 0.0, models.Percentile(nil, 50))
	assert.InDelta(t, 15.0, models.Percentile(values, 0), 1e-9)
	assert.InDelta(t, 50.0, models.Percentile(values, 100), 1e-9)
	assert.InDelta(t, 35.0, models.Percentile(values, 50), 1e-9)
	// Linear interpolation between ranks 1 and 2.
	assert.InDelta(t, 29.0, models.Percentile(values, 40), 1e-9)

	// Input order must not matter and the input must not be mutated.
	shuffled := []float64{50, 15, 40, 20, 35}
	assert.InDelta(t, 35.0, models.Percentile(shuffled, 50), 1e-9)
	assert.Equal(t, []float64{50, 15, 40, 20, 35}, shuffled)
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 2.5, models.Median([]float64{1, 2, 3, 4}), 1e-9)
	assert.InDelta(t, 3.0, models.Median([]float64{3}), 1e-9)
}

func TestCAGR(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		minMonths int
		want      float64
	}{
		{
			name:      "Doubles over a year",
			values:    []float64{100, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 200},
			minMonths: 6,
			want:      1.0,
		},
		{
			name:      "Too short a window",
			values:    []float64{100, 200},
			minMonths: 6,
			want:      0,
		},
		{
			name:      "All zeros",
			values:    []float64{0, 0, 0, 0, 0, 0},
			minMonths: 6,
			want:      0,
		},
		{
			name:      "Sign flip is meaningless",
			values:    []float64{100, 50, 20, 10, 5, -30},
			minMonths: 6,
			want:      0,
		},
		{
			name:      "Leading zeros shorten the elapsed window",
			values:    []float64{0, 0, 0, 0, 0, 0, 100, 0, 0, 0, 0, 0, 200},
			minMonths: 6,
			want:      math.Pow(2, 2) - 1, // 6 elapsed months = half a year
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, models.CAGR(tt.values, tt.minMonths), 1e-9)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, models.Clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, models.Clamp(-2, 0, 1))
	assert.Equal(t, 1.0, models.Clamp(7, 0, 1))
}
