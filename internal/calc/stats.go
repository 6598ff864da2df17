package calc

import (
	"github.com/gonum/floats"
	"github.com/gonum/stat"
	"github.com/montanaflynn/stats"
)

// TractStats summarizes a tract count volume
type TractStats struct {
	Min     float64 // over all voxels
	Avg     float64 // over positive voxels
	Median  float64 // over positive voxels
	Max     float64 // over all voxels
	NonZero int
}

// GetTractStats computes tract statistics. Avg and Median are 0 when nothing is positive.
func GetTractStats(values []float64) TractStats {
	var ts TractStats
	if len(values) == 0 {
		return ts
	}

	ts.Min = floats.Min(values)
	ts.Max = floats.Max(values)

	var pos []float64
	for _, v := range values {
		if v > 0 {
			pos = append(pos, v)
		}
	}
	ts.NonZero = len(pos)
	if len(pos) == 0 {
		return ts
	}

	ts.Avg = stat.Mean(pos, nil)
	// only fails on empty input
	ts.Median, _ = stats.Median(pos)

	return ts
}
