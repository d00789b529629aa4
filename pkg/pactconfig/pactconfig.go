// Package pactconfig loads the pactumctl driver's configuration.
//
// Grounded on a flat-struct Load()/getEnv pattern: environment variables
// take precedence, an optional YAML file supplies the rest, and defaults
// fill whatever remains. Unlike a typical service config, nothing here is
// required at startup — the transition engine needs no configuration at
// all; this is driver-only plumbing.
package pactconfig

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the pactumctl driver's runtime settings.
type Config struct {
	// MetricsAddr is where the driver exposes Prometheus metrics, empty to disable.
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel names a log verbosity ("debug", "info", "error"). It is
	// loaded but no pactumctl subcommand reads it; logging is not filtered.
	LogLevel string `yaml:"log_level"`

	// DataDir names a base directory for fixture and artifact files. It is
	// loaded but no pactumctl subcommand reads it; input paths are used as given.
	DataDir string `yaml:"data_dir"`

	// FixtureKeyLabelPrefix names a prefix for fixture key labels. It is
	// loaded but genkey does not apply it; labels are derived as given.
	FixtureKeyLabelPrefix string `yaml:"fixture_key_label_prefix"`

	// StrictReceipts is a flag for receipt verification. It is loaded but
	// verify-receipt does not read it; unknown input fields are ignored.
	StrictReceipts bool `yaml:"strict_receipts"`
}

// Load builds a Config from defaults, an optional YAML file at path (if
// non-empty and present), and environment variable overrides, in that
// precedence order (env wins).
func Load(yamlPath string) (*Config, error) {
	cfg := &Config{
		MetricsAddr:           "",
		LogLevel:              "info",
		DataDir:               "./data",
		FixtureKeyLabelPrefix: "",
		StrictReceipts:        true,
	}

	if yamlPath != "" {
		if data, err := os.ReadFile(yamlPath); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("pactconfig: parse %s: %w", yamlPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("pactconfig: read %s: %w", yamlPath, err)
		}
	}

	cfg.MetricsAddr = getEnv("PACTUM_METRICS_ADDR", cfg.MetricsAddr)
	cfg.LogLevel = getEnv("PACTUM_LOG_LEVEL", cfg.LogLevel)
	cfg.DataDir = getEnv("PACTUM_DATA_DIR", cfg.DataDir)
	cfg.FixtureKeyLabelPrefix = getEnv("PACTUM_FIXTURE_KEY_PREFIX", cfg.FixtureKeyLabelPrefix)
	cfg.StrictReceipts = getEnvBool("PACTUM_STRICT_RECEIPTS", cfg.StrictReceipts)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
