package main

import (
	"fmt"
	"os"

	"github.com/unixpickle/wordvecs"
	"gopkg.in/yaml.v3"
)

// Config holds the defaults for model loading and search.
type Config struct {
	Format    string `yaml:"format"`
	Limit     int    `yaml:"limit"`
	Metric    string `yaml:"metric"`
	BatchSize int    `yaml:"batch_size,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Format: wordvecs.NativeBinary.String(),
		Limit:  10,
		Metric: wordvecs.CosineSimilarity.String(),
	}
}

// LoadConfig reads a YAML config file.
// Fields missing from the file keep their defaults.
// An empty path yields the default config.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := wordvecs.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := wordvecs.ParseMetric(c.Metric); err != nil {
		return err
	}
	if c.Limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative, got %d", c.BatchSize)
	}
	return nil
}
