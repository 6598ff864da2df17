package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KyungWonPark/NeuroTools/internal/calc"
	"github.com/KyungWonPark/NeuroTools/internal/config"
	"github.com/KyungWonPark/NeuroTools/internal/io"
	"github.com/KyungWonPark/NeuroTools/internal/logger"
	"github.com/KyungWonPark/NeuroTools/internal/mask"
	"github.com/KyungWonPark/NeuroTools/internal/prompt"
	"github.com/KyungWonPark/NeuroTools/internal/volume"
	"github.com/rs/zerolog"
)

const component = "combinemasks"

func main() {
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Println("ERROR: No input file specified")
		os.Exit(2)
	}
	if len(files) == 1 {
		fmt.Println("ERROR: Need at least 2 files")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}

	dir, err := filepath.Abs(filepath.Dir(files[0]))
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}

	logPath := filepath.Join(dir, "Combined.log")
	os.Remove(logPath)
	logFile, err := os.Create(logPath)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}
	runLog := logger.NewFileLogger(logFile, zerolog.InfoLevel)

	err = run(files, filepath.Join(dir, "Combined.nii"), cfg, runLog)
	if err != nil {
		fmt.Println("ERROR:", err)
		runLog.Error(component, err, map[string]interface{}{"status": "Operation aborted"})
	}
	logFile.Close()
	if err != nil {
		os.Exit(2)
	}

	fmt.Println("done")
	if cfg.Prompt.Pause {
		prompt.Stdio(cfg.Timeout()).Pause()
	}
}

func run(files []string, output string, cfg *config.Config, runLog *logger.ZerologAdapter) error {
	pl := calc.Init(cfg.Processing.Workers, false)

	runLog.Info(component, "Label file created from mask files", map[string]interface{}{"count": len(files)})

	masks := make([]*volume.Volume, 0, len(files))
	for i, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		runLog.Info(component, fmt.Sprintf("%d) %s", i+1, abs), nil)
		fmt.Printf("Reading file %d: %s\n", i+1, filepath.Base(file))

		m, err := io.LoadVolume(file)
		if err != nil {
			return err
		}
		masks = append(masks, m)
	}

	c, err := mask.Combine(pl, masks...)
	if err != nil {
		return err
	}

	for i := range masks {
		if c.Warnings[i] != "" {
			fmt.Printf("Warning: %s (file %d)\n", c.Warnings[i], i+1)
			runLog.Warning(component, c.Warnings[i], map[string]interface{}{"file": files[i]})
		}
		if c.Overlaps[i] > 0 {
			fmt.Printf("Warning: Mask overlap detected in file %d (%d voxels), overwriting previous values\n", i+1, c.Overlaps[i])
			runLog.Warning(component, "Mask overlap detected, overwriting previous values",
				map[string]interface{}{"file": files[i], "voxels": c.Overlaps[i]})
		}
	}

	if !calc.CheckBinary(c.Mask) {
		fmt.Println("Warning: Resulting file contains unexpected values, please check carefully")
		runLog.Warning(component, "Resulting file contains unexpected values, please check carefully", nil)
	}

	fmt.Println("Saving results")
	return io.SaveVolume(output, c.Mask)
}
