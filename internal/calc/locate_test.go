package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edgesUpTo(n int) []float64 {
	edges := make([]float64, n)
	for i := range edges {
		edges[i] = float64(i + 1)
	}
	return edges
}

func TestLocateShortHistogram(t *testing.T) {
	h := Histogram{
		Edges:  []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		Counts: []float64{100, 90, 80, 70, 60, 50, 70, 90, 110},
	}

	res, err := Locate(h)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Equal(t, -1, res.Index)

	// a narrower window fits and stops at or before the count minimum
	res, err = locate(h, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Index, 5)
	assert.True(t, CheckThreshold(res))
}

func TestLocateDecreasingStopsAtEmptyLastBin(t *testing.T) {
	counts := make([]float64, 30)
	for i := 0; i < 29; i++ {
		counts[i] = 1e6 / float64((i+1)*(i+1))
	}

	// the drop into the empty last bin turns the slope back up
	res, err := Locate(Histogram{Edges: edgesUpTo(30), Counts: counts})
	require.NoError(t, err)
	assert.Equal(t, 19, res.Index)
	assert.Equal(t, 20.0, res.Threshold)
}

func TestLocateDecreasingVoxels(t *testing.T) {
	var values []float64
	for v := 1; v <= 300; v++ {
		for i := 0; i < int(1e5/float64(v*v)); i++ {
			values = append(values, float64(v))
		}
	}

	res, err := FindThreshold(values)
	require.NoError(t, err)
	assert.Greater(t, res.Index, 0)
	assert.Less(t, res.Index, res.Histogram.Len()-1)
	assert.True(t, CheckThreshold(res))
}

func TestLocateNoInflection(t *testing.T) {
	// a decreasing series with no empty last bin
	decreasing := make([]float64, 30)
	for i := range decreasing {
		decreasing[i] = 1e6 / float64((i+1)*(i+1))
	}

	// one populated bin, the slope settles to exactly zero
	lone := make([]float64, 21)
	lone[0] = 500

	for _, counts := range [][]float64{decreasing, lone} {
		res, err := Locate(Histogram{Edges: edgesUpTo(len(counts)), Counts: counts})
		assert.ErrorIs(t, err, ErrNoInflectionFound)
		assert.Equal(t, -1, res.Index)
		assert.Len(t, res.Slope, len(counts)-1)
	}
}

func TestLocateFlatteningTail(t *testing.T) {
	counts := make([]float64, 41)
	for i := 0; i < 40; i++ {
		counts[i] = 1e6/float64((i+1)*(i+1)) + 500
	}

	h := Histogram{Edges: edgesUpTo(41), Counts: counts}
	res, err := Locate(h)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Index)
	assert.Equal(t, 31.0, res.Threshold)
	assert.Len(t, res.LogCounts, 41)
	assert.Len(t, res.Slope, 40)
	for _, s := range res.Slope {
		assert.GreaterOrEqual(t, s, 0.0)
	}
}

func TestLocateBellLeftOfPeak(t *testing.T) {
	const peak = 20
	counts := make([]float64, 41)
	for i := 0; i < 40; i++ {
		d := float64(i-peak) / 5
		counts[i] = 1000*math.Exp(-d*d) + 1
	}

	res, err := Locate(Histogram{Edges: edgesUpTo(41), Counts: counts})
	require.NoError(t, err)
	assert.Less(t, res.Index, peak)
	assert.True(t, CheckThreshold(res))
}

func TestLocateZeroCountsStayFinite(t *testing.T) {
	counts := make([]float64, 30)
	for i := range counts {
		if i%4 != 3 {
			counts[i] = float64(1000 - 30*i)
		}
	}

	res, err := Locate(Histogram{Edges: edgesUpTo(30), Counts: counts})
	if err != nil {
		assert.ErrorIs(t, err, ErrNoInflectionFound)
	}
	for _, v := range res.LogCounts {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
	}
}

func TestFindThreshold(t *testing.T) {
	_, err := FindThreshold([]float64{0, 0, 0})
	assert.ErrorIs(t, err, ErrEmptyVolume)

	// 16 voxels give 4 bins, too few to smooth
	_, err = FindThreshold([]float64{0, 0, 0, 0, 1, 1, 2, 3, 4, 5, 8, 10, 16, 20, 50, 100})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFirstMinimum(t *testing.T) {
	tests := []struct {
		name   string
		s      []float64
		want   int
		wantOK bool
	}{
		{"immediate rise", []float64{1, 2, 3}, 0, true},
		{"ties move forward", []float64{3, 2, 2, 1, 4}, 3, true},
		{"rise after plateau", []float64{5, 5, 5, 6}, 2, true},
		{"never rises", []float64{3, 2, 1}, 2, false},
		{"flat", []float64{1, 1, 1}, 2, false},
		{"single", []float64{1}, 0, false},
		{"stops at first rise", []float64{4, 3, 3.5, 1, 0}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstMinimum(tt.s)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
