package calc

import (
	"fmt"
	"math"
)

// logZero stands in for log(0) so empty bins stay on a finite curve
var logZero = math.Log(math.SmallestNonzeroFloat64)

// Result is the outcome of a threshold search
type Result struct {
	Threshold float64
	Index     int
	Histogram Histogram
	LogCounts []float64 // smoothed log counts
	Slope     []float64 // |smoothed first difference| of LogCounts
}

// FindThreshold builds the log histogram of values and locates its threshold
func FindThreshold(values []float64) (Result, error) {
	h, err := LogHistogram(values)
	if err != nil {
		return Result{}, err
	}

	return Locate(h)
}

// Locate finds the first local minimum of the smoothed log-histogram slope and returns
// the bin edge at that index as the threshold between the dense low-value population
// and the sparse high-value tail.
func Locate(h Histogram) (Result, error) {
	return locate(h, SmoothingWindow)
}

func locate(h Histogram, window int) (Result, error) {
	res := Result{Histogram: h, Index: -1}

	logCounts := make([]float64, len(h.Counts))
	for i, c := range h.Counts {
		if c > 0 {
			logCounts[i] = math.Log(c)
		} else {
			logCounts[i] = logZero
		}
	}

	smoothed, err := Smooth(logCounts, window)
	if err != nil {
		return res, fmt.Errorf("log counts: %w", err)
	}
	res.LogCounts = smoothed

	diff := make([]float64, len(smoothed)-1)
	for i := range diff {
		diff[i] = smoothed[i+1] - smoothed[i]
	}

	slope, err := Smooth(diff, window)
	if err != nil {
		return res, fmt.Errorf("log count slope: %w", err)
	}
	for i := range slope {
		slope[i] = math.Abs(slope[i])
	}
	res.Slope = slope

	idx, ok := firstMinimum(slope)
	if !ok {
		return res, ErrNoInflectionFound
	}

	res.Index = idx
	res.Threshold = h.Edges[idx]
	return res, nil
}

// firstMinimum walks s from the left keeping a running minimum (ties move it forward)
// and stops at the first value above it. ok is false if s never rises.
func firstMinimum(s []float64) (int, bool) {
	minIdx := 0
	minVal := s[0]

	for i := 1; i < len(s); i++ {
		if s[i] > minVal {
			return minIdx, true
		}
		minVal = s[i]
		minIdx = i
	}

	return minIdx, false
}
