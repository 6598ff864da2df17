package calc

import (
	"fmt"
	"math"
	"sort"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat"
)

// Histogram holds bin edges and per-bin counts.
// Counts[i] is the number of values in [Edges[i], Edges[i+1]); the final bin also takes
// values equal to the last edge. Counts has the length of Edges and its last entry is 0.
type Histogram struct {
	Edges  []float64
	Counts []float64
}

// Len returns the number of edges
func (h Histogram) Len() int {
	return len(h.Edges)
}

// Table returns the histogram as an n by 2 matrix of (edge, count) rows
func (h Histogram) Table() *mat64.Dense {
	table := mat64.NewDense(len(h.Edges), 2, nil)
	for i := range h.Edges {
		table.Set(i, 0, h.Edges[i])
		table.Set(i, 1, h.Counts[i])
	}

	return table
}

// HistogramFromTable reads (edge, count) rows back into a Histogram.
// The last count is forced to 0.
func HistogramFromTable(table *mat64.Dense) (Histogram, error) {
	rows, cols := table.Dims()
	if cols < 2 {
		return Histogram{}, fmt.Errorf("histogram table needs 2 columns, got %d", cols)
	}

	h := Histogram{
		Edges:  make([]float64, rows),
		Counts: make([]float64, rows),
	}
	for i := 0; i < rows; i++ {
		h.Edges[i] = table.At(i, 0)
		h.Counts[i] = table.At(i, 1)
		if i > 0 && h.Edges[i] <= h.Edges[i-1] {
			return Histogram{}, fmt.Errorf("histogram edges not increasing at row %d", i)
		}
	}
	if rows > 0 {
		h.Counts[rows-1] = 0
	}

	return h, nil
}

// binCount is floor(sqrt(n)), at least 2
func binCount(n int) int {
	steps := int(math.Sqrt(float64(n)))
	if steps < 2 {
		steps = 2
	}

	return steps
}

// LogHistogram builds a log-spaced histogram of values.
// Edges run from the smallest positive value to the maximum in floor(sqrt(len(values)))
// logarithmic steps, rounded to integers and deduplicated. Zeros are below the first edge
// and are not counted.
func LogHistogram(values []float64) (Histogram, error) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	first := sort.Search(len(sorted), func(i int) bool { return sorted[i] > 0 })
	if first == len(sorted) {
		return Histogram{}, ErrEmptyVolume
	}

	start := sorted[first]
	fin := sorted[len(sorted)-1]
	if start == fin {
		return Histogram{}, fmt.Errorf("all positive voxels equal %g: %w", start, ErrDegenerateRange)
	}

	raw := floats.LogSpan(make([]float64, binCount(len(values))), start, fin)

	edges := make([]float64, 0, len(raw))
	for _, e := range raw {
		e = math.Round(e)
		if e <= 0 {
			continue
		}
		if len(edges) > 0 && e == edges[len(edges)-1] {
			continue
		}
		edges = append(edges, e)
	}
	if len(edges) < 2 {
		return Histogram{}, fmt.Errorf("positive voxels %g..%g round to one edge: %w", start, fin, ErrDegenerateRange)
	}

	return Histogram{Edges: edges, Counts: countSorted(sorted, edges)}, nil
}

// LinearHistogram builds a histogram of values with floor(sqrt(len(values))) linearly
// spaced edges between the minimum and the maximum.
func LinearHistogram(values []float64) (Histogram, error) {
	if len(values) == 0 {
		return Histogram{}, ErrEmptyVolume
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	start := sorted[0]
	fin := sorted[len(sorted)-1]
	if start == fin {
		return Histogram{}, fmt.Errorf("all values equal %g: %w", start, ErrDegenerateRange)
	}

	edges := floats.Span(make([]float64, binCount(len(values))), start, fin)
	// Span may land a hair off fin
	edges[len(edges)-1] = fin

	return Histogram{Edges: edges, Counts: countSorted(sorted, edges)}, nil
}

// countSorted counts sorted values into the bins described by edges.
// The result has len(edges) entries, the last one always 0.
func countSorted(sorted []float64, edges []float64) []float64 {
	last := edges[len(edges)-1]

	lo := sort.SearchFloat64s(sorted, edges[0])
	hi := sort.SearchFloat64s(sorted, last)
	top := sort.Search(len(sorted), func(i int) bool { return sorted[i] > last })

	counts := make([]float64, len(edges))
	if hi > lo {
		stat.Histogram(counts[:len(edges)-1], edges, sorted[lo:hi], nil)
	}

	// values equal to the last edge belong to the final bin
	counts[len(edges)-2] += float64(top - hi)
	counts[len(edges)-1] = 0

	return counts
}
