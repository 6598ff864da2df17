// Package config loads the YAML settings shared by the NeuroTools commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tool's tunables
type Config struct {
	Prompt struct {
		// TimeoutSeconds bounds how long a confirmation prompt waits for input
		TimeoutSeconds int `yaml:"timeoutSeconds"`
		// Pause waits for Enter before a tool exits
		Pause bool `yaml:"pause"`
	} `yaml:"prompt"`

	Processing struct {
		// Workers is the number of z-slice workers, 0 means one per CPU
		Workers int `yaml:"workers"`
	} `yaml:"processing"`

	Output struct {
		Gzip      bool `yaml:"gzip"`
		Histogram bool `yaml:"histogram"`
		Npy       bool `yaml:"npy"`
		Plot      bool `yaml:"plot"`
	} `yaml:"output"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Masks struct {
		// MinVoxels is the smallest label region label2masks writes out
		MinVoxels int `yaml:"minVoxels"`
	} `yaml:"masks"`

	ROI struct {
		Pattern string `yaml:"pattern"`
		Output  string `yaml:"output"`
	} `yaml:"roi"`

	Probtrack struct {
		// MaxValue rejects value images that do not look like diffusion maps
		MaxValue    float64 `yaml:"maxValue"`
		ReduceLimit int     `yaml:"reduceLimit"`
		Seed        int64   `yaml:"seed"`
	} `yaml:"probtrack"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Prompt.TimeoutSeconds = 10
	cfg.Prompt.Pause = false

	cfg.Processing.Workers = runtime.NumCPU()

	cfg.Output.Gzip = false
	cfg.Output.Histogram = true
	cfg.Output.Npy = false
	cfg.Output.Plot = false

	cfg.Log.Level = "info"

	cfg.Masks.MinVoxels = 4

	cfg.ROI.Pattern = "mist_*_mask.nii.gz"
	cfg.ROI.Output = "MIST_ROI_measures.csv"

	cfg.Probtrack.MaxValue = 10
	cfg.Probtrack.ReduceLimit = 5000
	cfg.Probtrack.Seed = 1

	return cfg
}

// Timeout returns the prompt timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Prompt.TimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from a YAML file.
// An empty path or a missing file gives the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
