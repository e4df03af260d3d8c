package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanSkipsMissing(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, 2.0, Mean([]float64{1, math.NaN(), 3}))
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Mean([]float64{math.NaN()})))
}

func TestMedianSkipsMissing(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{1, 2, 100}))
	assert.Equal(t, 2.0, Median([]float64{100, math.NaN(), 2, 1}))
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestQuantileDoesNotMutateInput(t *testing.T) {
	xs := []float64{3, 1, 2}
	_ = Quantile(xs, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, xs)
}

func TestQuantiles(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	got := Quantiles(xs, []float64{0, 0.5, 1})
	assert.Equal(t, 1.0, got[0])
	assert.Equal(t, 4.0, got[2])
}
