package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KyungWonPark/NeuroTools/internal/calc"
	"github.com/KyungWonPark/NeuroTools/internal/config"
	"github.com/KyungWonPark/NeuroTools/internal/io"
	"github.com/KyungWonPark/NeuroTools/internal/logger"
	"github.com/KyungWonPark/NeuroTools/internal/mask"
	"github.com/KyungWonPark/NeuroTools/internal/prompt"
)

var errNoMasks = errors.New("no matching files found")

func main() {
	configPath := flag.String("config", "", "YAML config file")
	pattern := flag.String("pattern", "", "mask file name pattern, overrides config")
	flag.Parse()

	folder := "."
	if flag.NArg() > 0 {
		folder = flag.Arg(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}
	if *pattern != "" {
		cfg.ROI.Pattern = *pattern
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}

	err = run(folder, cfg)
	if errors.Is(err, errNoMasks) {
		fmt.Println("No matching files found")
	} else if err != nil {
		log.Error("roimeasures", err, map[string]interface{}{"folder": folder, "pattern": cfg.ROI.Pattern})
	}
	log.Close()
	if err != nil {
		os.Exit(2)
	}

	if cfg.Prompt.Pause {
		prompt.Stdio(cfg.Timeout()).Pause()
	}
}

func run(folder string, cfg *config.Config) error {
	files, err := filepath.Glob(filepath.Join(folder, cfg.ROI.Pattern))
	if err != nil {
		return err
	}
	if len(files) < 1 {
		return errNoMasks
	}
	sort.Strings(files)

	pl := calc.Init(cfg.Processing.Workers, false)

	rows := make([]*mask.ROIMeasure, 0, len(files))
	for _, file := range files {
		vol, err := io.LoadVolume(file)
		if err != nil {
			return err
		}

		voxels, ml, warning := mask.Measure(pl, vol)
		if warning != "" {
			fmt.Println("Warning:", warning)
		}

		row := &mask.ROIMeasure{Structure: mask.StructureName(file), Voxels: voxels, Volume: ml}
		fmt.Println(row.Structure, "-", row.Voxels, "voxels", "=", row.Volume, "ml")
		rows = append(rows, row)
	}

	return io.StructToTSV(filepath.Join(folder, cfg.ROI.Output), &rows)
}
