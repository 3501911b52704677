package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// MinSize is the smallest directory worth reporting, as a
	// human-readable byte quantity ("500K", "2MiB", ...).
	MinSize string `yaml:"min_size"`

	// Hash selects the fingerprint digest: blake3 or xxhash.
	Hash string `yaml:"hash"`

	// Workers bounds the parallel file metadata reads.
	Workers int `yaml:"workers"`

	// Exclude patterns; matching entries are treated as nonexistent.
	// Patterns ending in "/" match directory names only.
	Exclude []string `yaml:"exclude"`
}

func DefaultConfig() *Config {
	return &Config{
		MinSize: "1",
		Hash:    "blake3",
		Workers: runtime.NumCPU() * 2,
		Exclude: []string{
			".git/",
			".svn/",
			".hg/",
			".DS_Store",
			"Thumbs.db",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Fill unset fields from the defaults
	defaults := DefaultConfig()
	if cfg.MinSize == "" {
		cfg.MinSize = defaults.MinSize
	}
	if cfg.Hash == "" {
		cfg.Hash = defaults.Hash
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	// An omitted exclude key falls back to the defaults; an explicit empty
	// list (`exclude: []`) disables exclusion.
	if cfg.Exclude == nil {
		cfg.Exclude = defaults.Exclude
	}

	return &cfg, nil
}
