package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/KyungWonPark/NeuroTools/internal/calc"
	"github.com/KyungWonPark/NeuroTools/internal/io"
	"github.com/KyungWonPark/NeuroTools/internal/logger"
)

// histthreshold re-runs the threshold search on a saved histogram table
func main() {
	logLevel := flag.String("log", "info", "log level (debug, info, warn, error)")
	plotPath := flag.String("plot", "", "draw the histogram into this png")
	verbose := flag.Bool("v", false, "print the smoothed series")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("usage: histthreshold [flags] <histogram.csv|histogram.npy>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	log, err := logger.New(*logLevel, "")
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}

	fields := map[string]interface{}{"input": path}
	err = run(path, *plotPath, *verbose, fields)
	if err != nil {
		log.Error("histthreshold", err, fields)
	}
	log.Close()
	if err != nil {
		os.Exit(2)
	}
}

// run fills fields with what the error log should carry
func run(path, plotPath string, verbose bool, fields map[string]interface{}) error {
	h, err := io.LoadHistogram(path)
	if err != nil {
		return err
	}
	fields["bins"] = h.Len()

	res, err := calc.Locate(h)
	if err != nil {
		if errors.Is(err, calc.ErrInsufficientData) {
			fields["window"] = calc.SmoothingWindow
		}
		return err
	}

	if verbose {
		fmt.Println("index,edge,log count,slope")
		for i := range res.Slope {
			fmt.Printf("%d,%g,%g,%g\n", i, h.Edges[i], res.LogCounts[i], res.Slope[i])
		}
	}

	if plotPath != "" {
		if err := io.PlotHistogram(plotPath, res, io.BaseName(path)); err != nil {
			return err
		}
	}

	fmt.Printf("Threshold = %g (bin %d of %d)\n", res.Threshold, res.Index, h.Len())
	return nil
}
