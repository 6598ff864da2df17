package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/KyungWonPark/NeuroTools/internal/calc"
	"github.com/KyungWonPark/NeuroTools/internal/config"
	"github.com/KyungWonPark/NeuroTools/internal/io"
	"github.com/KyungWonPark/NeuroTools/internal/logger"
	"github.com/KyungWonPark/NeuroTools/internal/prompt"
)

func main() {
	input := flag.String("in", "", "probtrackx output file, normally fdt_paths.nii.gz")
	configPath := flag.String("config", "", "YAML config file")
	gz := flag.Bool("gz", false, "write gzipped outputs")
	accept := flag.Bool("y", false, "accept the computed threshold without asking")
	plot := flag.Bool("plot", false, "also draw the histogram as png")
	logLevel := flag.String("log", "", "log level (debug, info, warn, error)")
	flag.Parse()

	if *input == "" && flag.NArg() > 0 {
		*input = flag.Arg(0)
	}
	if *input == "" {
		fmt.Println("ERROR: No input file specified")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	cfg.Output.Gzip = cfg.Output.Gzip || *gz
	cfg.Output.Plot = cfg.Output.Plot || *plot

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}

	p := prompt.Stdio(cfg.Timeout())

	err = run(*input, cfg, log, p, *accept)
	if err != nil {
		log.Error("fdtpaths", err, map[string]interface{}{"input": *input})
	}
	log.Close()
	if err != nil {
		os.Exit(2)
	}

	if cfg.Prompt.Pause {
		p.Pause()
	}
}

func run(input string, cfg *config.Config, log *logger.ZerologAdapter, p *prompt.Prompter, accept bool) error {
	pl := calc.Init(cfg.Processing.Workers, cfg.Log.Level == "debug")

	vol, err := io.LoadVolume(input)
	if err != nil {
		return err
	}
	log.Debug("fdtpaths", "volume loaded", map[string]interface{}{"dims": vol.String(), "workers": pl.GetNP()})

	dir := filepath.Dir(input)
	base := io.BaseName(input)

	ts := calc.GetTractStats(vol.Data)
	fmt.Println("Tract Statistics")
	fmt.Printf("  Minimum number of tracts per voxel =  %d\n", int(math.Round(ts.Min)))
	fmt.Printf("  Average number of tracts per voxel =  %.2f\n", ts.Avg)
	fmt.Printf("  Median  number of tracts per voxel =  %.2f\n", ts.Median)
	fmt.Printf("  Maximum number of tracts per voxel =  %d\n", int(math.Round(ts.Max)))

	// nothing is written unless a threshold was found
	res, err := calc.FindThreshold(vol.Data)
	if err != nil {
		return fmt.Errorf("threshold search: %w", err)
	}
	if !calc.CheckThreshold(res) {
		return fmt.Errorf("threshold %g is not a histogram edge", res.Threshold)
	}
	log.Debug("fdtpaths", "threshold located", map[string]interface{}{"index": res.Index, "edges": res.Histogram.Len()})

	prefix := filepath.Join(dir, base)
	if cfg.Output.Histogram {
		if err := io.HistogramToCSV(prefix+"_Histogram.csv", res.Histogram); err != nil {
			return err
		}
	}
	if cfg.Output.Npy {
		if err := io.HistogramToNpy(prefix+"_Histogram.npy", res.Histogram); err != nil {
			return err
		}
	}
	if cfg.Output.Plot {
		if err := io.PlotHistogram(prefix+"_Histogram.png", res, base); err != nil {
			// the plot is a diagnostic, splitting still goes ahead
			log.Warning("fdtpaths", err.Error(), nil)
		}
	}

	threshold := res.Threshold
	if accept {
		fmt.Printf("  Found threshold at %g\n", threshold)
	} else {
		threshold = p.Float("  Found threshold at", threshold)
	}
	if threshold != res.Threshold {
		log.Info("fdtpaths", "threshold overridden", map[string]interface{}{"found": res.Threshold, "used": threshold})
	}

	low, high := pl.Partition(vol, threshold)
	if !pl.CheckPartition(vol, low, high) {
		return fmt.Errorf("partition at %g does not add up to the input", threshold)
	}

	ext := ".nii"
	if cfg.Output.Gzip {
		ext = ".nii.gz"
	}

	fmt.Println("Saving File " + base + "_low" + ext)
	if err := io.SaveVolume(prefix+"_low"+ext, low); err != nil {
		return err
	}
	fmt.Println("Saving File " + base + "_high" + ext)
	if err := io.SaveVolume(prefix+"_high"+ext, high); err != nil {
		return err
	}

	return nil
}
