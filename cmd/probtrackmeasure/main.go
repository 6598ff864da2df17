package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/KyungWonPark/NeuroTools/internal/calc"
	"github.com/KyungWonPark/NeuroTools/internal/config"
	"github.com/KyungWonPark/NeuroTools/internal/io"
	"github.com/KyungWonPark/NeuroTools/internal/logger"
	"github.com/KyungWonPark/NeuroTools/internal/prompt"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	seed := flag.Int64("seed", 0, "random seed for the reduced table, overrides config")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Println("usage: probtrackmeasure [flags] <diffusion.nii.gz> <fdt_paths.nii.gz>")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}
	if *seed != 0 {
		cfg.Probtrack.Seed = *seed
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}

	err = run(flag.Arg(0), flag.Arg(1), cfg)
	if err != nil {
		log.Error("probtrackmeasure", err, map[string]interface{}{"values": flag.Arg(0), "weights": flag.Arg(1)})
	}
	log.Close()
	if err != nil {
		os.Exit(2)
	}

	if cfg.Prompt.Pause {
		prompt.Stdio(cfg.Timeout()).Pause()
	}
}

func run(valueFile, weightFile string, cfg *config.Config) error {
	values, err := io.LoadVolume(valueFile)
	if err != nil {
		return err
	}
	weights, err := io.LoadVolume(weightFile)
	if err != nil {
		return err
	}

	ws, selected, err := calc.GetWeightedStats(values, weights, cfg.Probtrack.MaxValue)
	if err != nil {
		return err
	}

	fmt.Println("Voxel Statistics:")
	fmt.Println("  Simple average = ", ws.SimpleAvg)
	fmt.Println("  Weighted average = ", ws.WeightedAvg)
	fmt.Println("  Median  = ", ws.Median)
	fmt.Println("  Minimum = ", ws.Min)
	fmt.Println("  Maximum = ", ws.Max)
	fmt.Println("  Number of voxels evaluated = ", ws.N)
	fmt.Println()

	dir := filepath.Dir(valueFile)
	base0 := strings.ReplaceAll(io.BaseName(valueFile), "_", "")
	base1 := strings.ReplaceAll(io.BaseName(weightFile), "_", "")

	h, err := calc.LinearHistogram(selected)
	if err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	if err := io.HistogramToCSV(filepath.Join(dir, base0+"_Histogram.csv"), h); err != nil {
		return err
	}

	pairs, err := calc.VersusPairs(values, weights)
	if err != nil {
		return err
	}
	name := base0 + "_versus_" + base1
	if err := io.Mat64toCSV(filepath.Join(dir, name+"_(all).csv"), calc.PairsTable(pairs)); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Probtrack.Seed))
	reduced := calc.ReducePairs(pairs, cfg.Probtrack.ReduceLimit, rng)

	return io.Mat64toCSV(filepath.Join(dir, name+"_(reduced).csv"), calc.PairsTable(reduced))
}
