package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type logConfig struct {
	// Directory enables the log file if set.
	Directory  string `yaml:"directory"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

type config struct {
	// Image is used if no --image flag is given.
	Image      string    `yaml:"image"`
	SkipChecks bool      `yaml:"skipChecks"`
	OutputDir  string    `yaml:"outputDir"`
	Logs       logConfig `yaml:"logs"`
}

func defaultConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".fatnav", "config.yml")
}

// loadConfig reads the config file at path.
// A missing file results in the default config unless required is set.
func loadConfig(fs afero.Fs, path string, required bool) (config, error) {
	var cfg config

	f, err := fs.Open(path)
	if err != nil && (required || !errors.Is(err, os.ErrNotExist)) {
		return cfg, err
	}

	if err == nil {
		defer f.Close()
		dec := yaml.NewDecoder(f)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return cfg, err
		}
	}

	baseDir := filepath.Dir(path)
	resolvePath := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	cfg.Image = resolvePath(cfg.Image)
	cfg.Logs.Directory = resolvePath(cfg.Logs.Directory)

	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Logs.MaxSizeMB <= 0 {
		cfg.Logs.MaxSizeMB = 25
	}
	if cfg.Logs.MaxAgeDays <= 0 {
		cfg.Logs.MaxAgeDays = 7
	}
	if cfg.Logs.MaxBackups <= 0 {
		cfg.Logs.MaxBackups = 5
	}
	return cfg, nil
}
