package io

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/KyungWonPark/NeuroTools/internal/calc"
	"github.com/gonum/matrix/mat64"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistogramToCSV writes "%e,%e" edge,count rows for every bin except the last two,
// followed by a blank line
func HistogramToCSV(path string, h calc.Histogram) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("HistogramToCSV: failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i < h.Len()-2; i++ {
		fmt.Fprintf(w, "%e,%e\n", h.Edges[i], h.Counts[i])
	}
	fmt.Fprintln(w)

	if err := w.Flush(); err != nil {
		return fmt.Errorf("HistogramToCSV: failed to write %s: %w", path, err)
	}

	return nil
}

// HistogramToNpy writes the full n x 2 histogram table to a numpy npy file
func HistogramToNpy(path string, h calc.Histogram) error {
	return Mat64toNpy(path, h.Table())
}

// LoadHistogram reads a histogram table from a .npy or csv file.
// A csv written by HistogramToCSV lacks the last two bins. A zero row one edge step
// past its end takes the place of the empty final bin, so every stored count survives.
func LoadHistogram(path string) (calc.Histogram, error) {
	if strings.HasSuffix(path, ".npy") {
		table, err := NpytoMat64(path)
		if err != nil {
			return calc.Histogram{}, err
		}

		return calc.HistogramFromTable(table)
	}

	table, err := CSVtoMat64(path)
	if err != nil {
		return calc.Histogram{}, err
	}

	return calc.HistogramFromTable(appendEmptyBin(table))
}

// appendEmptyBin adds a (edge, 0) row, the edge extrapolated from the last two rows
func appendEmptyBin(table *mat64.Dense) *mat64.Dense {
	rows, cols := table.Dims()
	if rows < 2 || cols < 2 {
		return table
	}

	last, prev := table.At(rows-1, 0), table.At(rows-2, 0)
	row := mat64.NewDense(1, cols, nil)
	row.Set(0, 0, 2*last-prev)

	var out mat64.Dense
	out.Stack(table, row)

	return &out
}

// PlotHistogram draws bin counts over a logarithmic edge axis with the threshold marked
func PlotHistogram(path string, res calc.Result, title string) error {
	h := res.Histogram

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Tracts per voxel"
	p.Y.Label.Text = "Voxels"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{}

	pts := make(plotter.XYs, 0, h.Len())
	var maxCount float64
	for i := 0; i < h.Len()-1; i++ {
		// log axis
		if h.Edges[i] <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: h.Edges[i], Y: h.Counts[i]})
		if h.Counts[i] > maxCount {
			maxCount = h.Counts[i]
		}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("PlotHistogram: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("counts", line)

	if res.Index >= 0 && res.Threshold > 0 {
		thr, err := plotter.NewLine(plotter.XYs{
			{X: res.Threshold, Y: 0},
			{X: res.Threshold, Y: maxCount},
		})
		if err != nil {
			return fmt.Errorf("PlotHistogram: %w", err)
		}
		thr.Color = color.RGBA{R: 200, A: 255}
		thr.Width = vg.Points(1)
		thr.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(thr)
		p.Legend.Add(fmt.Sprintf("threshold %g", res.Threshold), thr)
	}

	p.Legend.Top = true
	p.Legend.Left = false

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("PlotHistogram: failed to save %s: %w", path, err)
	}

	return nil
}
