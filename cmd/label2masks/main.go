package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KyungWonPark/NeuroTools/internal/config"
	"github.com/KyungWonPark/NeuroTools/internal/io"
	"github.com/KyungWonPark/NeuroTools/internal/logger"
	"github.com/KyungWonPark/NeuroTools/internal/mask"
	"github.com/KyungWonPark/NeuroTools/internal/prompt"
)

const component = "label2masks"

func main() {
	configPath := flag.String("config", "", "YAML config file")
	minVoxels := flag.Int("min", 0, "smallest region written out, overrides config")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("ERROR: No input file specified")
		os.Exit(2)
	}
	input := flag.Arg(0)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}
	if *minVoxels > 0 {
		cfg.Masks.MinVoxels = *minVoxels
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(2)
	}

	err = run(input, cfg, log)
	if err != nil {
		log.Error(component, err, map[string]interface{}{"input": input})
	}
	log.Close()
	if err != nil {
		os.Exit(2)
	}

	fmt.Println("done")
	if cfg.Prompt.Pause {
		prompt.Stdio(cfg.Timeout()).Pause()
	}
}

func run(input string, cfg *config.Config, log *logger.ZerologAdapter) error {
	vol, err := io.LoadVolume(input)
	if err != nil {
		return err
	}

	labels, truncated := mask.SplitLabels(vol, cfg.Masks.MinVoxels)
	if truncated {
		fmt.Println("Warning: Input file is not Integer, converting, please check results carefully")
	}

	prefix := filepath.Join(filepath.Dir(input), io.BaseName(input))
	for j, l := range labels {
		fmt.Printf("Creating Mask %d with value %d, %s\n", j+1, l.Value, l.Status)
		if !l.Keep() {
			continue
		}

		if err := io.SaveVolume(fmt.Sprintf("%s_MASK_%d.nii", prefix, l.Value), l.Mask); err != nil {
			return fmt.Errorf("label %d: %w", l.Value, err)
		}
	}
	log.Debug(component, "labels split", map[string]interface{}{"labels": len(labels)})

	return nil
}
