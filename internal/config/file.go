package config

// This file implements the optional YAML config file. Values from the file
// override defaults but lose to flags passed explicitly on the command line.

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML wire shape of a reelforge config file.
type fileConfig struct {
	Engine        string `yaml:"engine"`
	Muxer         string `yaml:"muxer"`
	Prober        string `yaml:"prober"`
	OutputRoot    string `yaml:"output_root"`
	Quality       string `yaml:"quality"`
	Jobs          *int   `yaml:"jobs"`
	RenderTimeout string `yaml:"render_timeout"`
	StitchTimeout string `yaml:"stitch_timeout"`
	LogFile       string `yaml:"log_file"`
}

// ApplyFile loads path and overlays its values onto cfg. setByFlag holds the
// names of flags the user passed explicitly; those fields are left alone so
// the command line keeps precedence over the file.
func ApplyFile(cfg *Config, path string, setByFlag map[string]bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	if fc.Engine != "" {
		cfg.EngineBin = fc.Engine
	}
	if fc.Muxer != "" {
		cfg.MuxerBin = fc.Muxer
	}
	if fc.Prober != "" {
		cfg.ProberBin = fc.Prober
	}
	if fc.LogFile != "" && !setByFlag["log"] && !setByFlag["l"] {
		cfg.LogFile = fc.LogFile
	}
	if fc.OutputRoot != "" && !setByFlag["output-root"] {
		cfg.OutputRoot = fc.OutputRoot
	}
	if fc.Quality != "" && !setByFlag["quality"] && !setByFlag["q"] {
		q, err := ParseQuality(fc.Quality)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		cfg.Quality = q
	}
	if fc.Jobs != nil && !setByFlag["jobs"] && !setByFlag["j"] {
		cfg.MaxJobs = *fc.Jobs
	}
	if fc.RenderTimeout != "" && !setByFlag["timeout"] {
		d, err := time.ParseDuration(fc.RenderTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: render_timeout: %w", path, err)
		}
		cfg.RenderTimeout = d
	}
	// The stitch timeout has no flag; the file is its only override.
	if fc.StitchTimeout != "" {
		d, err := time.ParseDuration(fc.StitchTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: stitch_timeout: %w", path, err)
		}
		cfg.StitchTimeout = d
	}
	return nil
}
