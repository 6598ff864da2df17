package calc

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/KyungWonPark/NeuroTools/internal/volume"
	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat"
	"github.com/montanaflynn/stats"
)

// WeightedStats describes a value image (e.g. FA) over the voxels of a weight image
type WeightedStats struct {
	SimpleAvg   float64
	WeightedAvg float64
	Median      float64
	Min         float64
	Max         float64
	N           int
}

// Pair is one voxel of the versus tables
type Pair struct {
	Weight float64
	Value  float64
}

// GetWeightedStats evaluates values over voxels with weight > 0. It also returns the
// evaluated values. maxValue <= 0 disables the diffusion range check.
func GetWeightedStats(values, weights *volume.Volume, maxValue float64) (WeightedStats, []float64, error) {
	var ws WeightedStats

	if !values.SameShape(weights) {
		return ws, nil, fmt.Errorf("%s vs %s: %w", values, weights, ErrShapeMismatch)
	}
	if maxValue > 0 && values.Len() > 0 && floats.Max(values.Data) > maxValue {
		return ws, nil, fmt.Errorf("maximum above %g: %w", maxValue, ErrNotDiffusion)
	}

	var selected []float64
	for i, w := range weights.Data {
		if w > 0 {
			selected = append(selected, values.Data[i])
		}
	}
	if len(selected) == 0 {
		return ws, nil, fmt.Errorf("weight image: %w", ErrEmptyVolume)
	}

	ws.N = len(selected)
	ws.SimpleAvg = stat.Mean(selected, nil)
	ws.WeightedAvg = stat.Mean(values.Data, weights.Data)
	ws.Median, _ = stats.Median(selected)
	ws.Min = floats.Min(selected)
	ws.Max = floats.Max(selected)

	return ws, selected, nil
}

// VersusPairs returns (weight, value) for every voxel with nonzero weight,
// ordered by weight and then by value
func VersusPairs(values, weights *volume.Volume) ([]Pair, error) {
	if !values.SameShape(weights) {
		return nil, fmt.Errorf("%s vs %s: %w", values, weights, ErrShapeMismatch)
	}

	var pairs []Pair
	for i, w := range weights.Data {
		if w != 0 {
			pairs = append(pairs, Pair{Weight: w, Value: values.Data[i]})
		}
	}
	sortPairs(pairs)

	return pairs, nil
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Weight != pairs[j].Weight {
			return pairs[i].Weight < pairs[j].Weight
		}
		return pairs[i].Value < pairs[j].Value
	})
}

const (
	weightLevels   = 20 // target number of weight levels kept
	pointsPerLevel = 10 // target number of points kept per level
)

// ReducePairs thins sorted pairs for plotting. Zero values are dropped, roughly one in
// len(levels)/20 weight levels is kept (plus every sparse level with fewer than 10 points),
// and dense levels are subsampled to about 10 points. If more than limit rows remain a
// random subset of limit rows is drawn from rng. limit <= 0 disables the last step.
func ReducePairs(pairs []Pair, limit int, rng *rand.Rand) []Pair {
	var nonZero []Pair
	for _, p := range pairs {
		if p.Value != 0 {
			nonZero = append(nonZero, p)
		}
	}

	// group into runs of equal weight
	var levels [][]Pair
	for start := 0; start < len(nonZero); {
		end := start + 1
		for end < len(nonZero) && nonZero[end].Weight == nonZero[start].Weight {
			end++
		}
		levels = append(levels, nonZero[start:end])
		start = end
	}

	xreduce := len(levels) / weightLevels
	if xreduce < 1 {
		xreduce = 1
	}

	var reduced []Pair
	for i, level := range levels {
		if i%xreduce != 0 && len(level) >= pointsPerLevel {
			continue
		}

		yreduce := 1
		if len(level) > 2*pointsPerLevel {
			yreduce = len(level) / pointsPerLevel
		}
		for j := 0; j < len(level); j += yreduce {
			reduced = append(reduced, level[j])
		}
	}

	if limit > 0 && len(reduced) > limit {
		perm := rng.Perm(len(reduced))
		sampled := make([]Pair, limit)
		for i := 0; i < limit; i++ {
			sampled[i] = reduced[perm[i]]
		}
		sortPairs(sampled)
		reduced = sampled
	}

	return reduced
}

// PairsTable returns pairs as an n by 2 matrix of (weight, value) rows, nil when empty
func PairsTable(pairs []Pair) *mat64.Dense {
	if len(pairs) == 0 {
		return nil
	}

	table := mat64.NewDense(len(pairs), 2, nil)
	for i, p := range pairs {
		table.Set(i, 0, p.Weight)
		table.Set(i, 1, p.Value)
	}

	return table
}
