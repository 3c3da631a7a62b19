// Package config loads tool configuration from the [tool.licenseguard]
// section of pyproject.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the pyproject-backed tool configuration. CLI flags override
// every field.
type Config struct {
	// Policy is a builtin policy name or a path to a policy file
	Policy string `toml:"policy"`
	// Format is the default output format (table, json, toml, csv)
	Format string `toml:"format"`
	// IncludeUnknown keeps packages without license metadata in reports
	IncludeUnknown bool `toml:"include_unknown"`
	// FailOnViolations makes forbidden licenses fail the audit
	FailOnViolations bool `toml:"fail_on_violations"`
}

type pyproject struct {
	Tool struct {
		Licenseguard *Config `toml:"licenseguard"`
	} `toml:"tool"`
}

// Default returns the configuration used when pyproject.toml is absent
// or has no [tool.licenseguard] section
func Default() *Config {
	return &Config{Format: "table"}
}

// Load reads the configuration from pyproject.toml in the working
// directory. A missing file or section yields the default configuration.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(filepath.Join(cwd, "pyproject.toml"))
}

// LoadFrom reads the configuration from an explicit pyproject.toml path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if doc.Tool.Licenseguard == nil {
		return Default(), nil
	}

	cfg := doc.Tool.Licenseguard
	if cfg.Format == "" {
		cfg.Format = Default().Format
	}
	return cfg, nil
}
