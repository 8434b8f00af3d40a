// Package config loads detector settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_text_charset/internal/adapters/stream"
	"github.com/baditaflorin/go_text_charset/internal/core/utf8scan"
)

// File is the on-disk configuration.
type File struct {
	// SampleSizeCap limits how many bytes are sampled; 0 reads the whole stream.
	SampleSizeCap int64 `yaml:"sample_size_cap"`
	// TinyBufferThreshold is the size below which scans are fully bounds-checked.
	TinyBufferThreshold int `yaml:"tiny_buffer_threshold"`
	// DetailedErrors keeps scanning past the first error.
	DetailedErrors bool `yaml:"detailed_errors"`
	// SubclassifyOverlongLeads distinguishes 5-byte, 6-byte and FE/FF leading bytes.
	SubclassifyOverlongLeads bool `yaml:"subclassify_overlong_leads"`

	Log LogConfig `yaml:"log"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	JSON  bool   `yaml:"json"`
	Async bool   `yaml:"async"`
	File  string `yaml:"file"` // empty = stderr
}

// Default returns the built-in configuration.
func Default() File {
	scan := utf8scan.DefaultConfig()
	sample := stream.DefaultSampleConfig()
	return File{
		SampleSizeCap:            sample.SizeCap,
		TinyBufferThreshold:      scan.TinyBufferThreshold,
		DetailedErrors:           scan.DetailedErrors,
		SubclassifyOverlongLeads: scan.SubclassifyOverlongLeads,
		Log: LogConfig{
			Async: true,
		},
	}
}

// Load reads path on top of the defaults. Keys missing from the file keep their default.
func Load(path string) (File, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Scan returns the scanner part of the configuration.
func (f File) Scan() utf8scan.Config {
	return utf8scan.Config{
		TinyBufferThreshold:      f.TinyBufferThreshold,
		DetailedErrors:           f.DetailedErrors,
		SubclassifyOverlongLeads: f.SubclassifyOverlongLeads,
	}
}

// Sample returns the sample reader part of the configuration.
func (f File) Sample() stream.SampleConfig {
	return stream.SampleConfig{SizeCap: f.SampleSizeCap}
}

// Validate checks every section.
func (f File) Validate() error {
	return errors.Join(f.Scan().Validate(), f.Sample().Validate())
}
