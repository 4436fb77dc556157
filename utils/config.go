package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
)

// Config holds the settings of the terminal shell and of headless runs.
// The simulation itself is configured per session through game.GameConfig.
type Config struct {
	FrameRate           time.Duration `json:"frame_rate"`
	DataDir             string        `json:"data_dir"`
	SavePath            string        `json:"save_path"`
	AliveProbability    float64       `json:"alive_probability"`
	Seed                *uint64       `json:"seed,omitempty"`
	NoWrap              bool          `json:"no_wrap"`
	MaxGenerations      int           `json:"max_generations"`
	StagnationThreshold int           `json:"stagnation_threshold"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		FrameRate:           100 * time.Millisecond,
		DataDir:             "data",
		SavePath:            filepath.Join("data", "saved_grid.txt"),
		AliveProbability:    0.5,
		NoWrap:              false,
		MaxGenerations:      1000,
		StagnationThreshold: 5,
	}
}

// hclConfig mirrors Config for HCL files, where durations are written as
// strings such as "100ms".
type hclConfig struct {
	FrameRate           *string  `hcl:"frame_rate,optional"`
	DataDir             *string  `hcl:"data_dir,optional"`
	SavePath            *string  `hcl:"save_path,optional"`
	AliveProbability    *float64 `hcl:"alive_probability,optional"`
	Seed                *uint64  `hcl:"seed,optional"`
	NoWrap              *bool    `hcl:"no_wrap,optional"`
	MaxGenerations      *int     `hcl:"max_generations,optional"`
	StagnationThreshold *int     `hcl:"stagnation_threshold,optional"`
}

// LoadConfig loads configuration from a JSON or, for the ".hcl" extension,
// an HCL file. Settings absent from the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	if strings.EqualFold(filepath.Ext(filename), ".hcl") {
		return loadHCLConfig(filename)
	}

	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, config.Validate()
}

func loadHCLConfig(filename string) (Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filename); err != nil {
		return config, errors.Wrapf(err, "[loadHCLConfig] failed to read file: %+v", filename)
	}

	file, diags := hclparse.NewParser().ParseHCLFile(filename)
	if diags.HasErrors() {
		return config, errors.Wrapf(diags, "[loadHCLConfig] failed to parse file: %+v", filename)
	}

	var raw hclConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return config, errors.Wrapf(diags, "[loadHCLConfig] failed to decode file: %+v", filename)
	}

	if raw.FrameRate != nil {
		frameRate, err := time.ParseDuration(*raw.FrameRate)
		if err != nil {
			return config, errors.Wrapf(err, "[loadHCLConfig] invalid frame_rate in file: %+v", filename)
		}
		config.FrameRate = frameRate
	}
	if raw.DataDir != nil {
		config.DataDir = *raw.DataDir
	}
	if raw.SavePath != nil {
		config.SavePath = *raw.SavePath
	}
	if raw.AliveProbability != nil {
		config.AliveProbability = *raw.AliveProbability
	}
	if raw.Seed != nil {
		config.Seed = raw.Seed
	}
	if raw.NoWrap != nil {
		config.NoWrap = *raw.NoWrap
	}
	if raw.MaxGenerations != nil {
		config.MaxGenerations = *raw.MaxGenerations
	}
	if raw.StagnationThreshold != nil {
		config.StagnationThreshold = *raw.StagnationThreshold
	}

	return config, config.Validate()
}

// Validate rejects settings the shell cannot run with.
func (c Config) Validate() error {
	switch {
	case c.FrameRate <= 0:
		return errors.Errorf("[Validate] frame_rate must be positive, got %v", c.FrameRate)
	case !(c.AliveProbability >= 0 && c.AliveProbability <= 1):
		return errors.Errorf("[Validate] alive_probability must be between 0 and 1, got %v", c.AliveProbability)
	case c.MaxGenerations < 0:
		return errors.Errorf("[Validate] max_generations must not be negative, got %d", c.MaxGenerations)
	case c.StagnationThreshold < 0:
		return errors.Errorf("[Validate] stagnation_threshold must not be negative, got %d", c.StagnationThreshold)
	}
	return nil
}
