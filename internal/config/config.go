// Package config loads G1's on-disk configuration: where the durable
// store and blob directory live, the default answer limit, and the log
// level, all overridable from a YAML file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings read by cmd/g1.
type Config struct {
	DBPath       string `yaml:"db_path"`
	BlobDir      string `yaml:"blob_dir"`
	DefaultLimit int    `yaml:"default_limit"`
	LogLevel     string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DBPath:       "g1.db",
		BlobDir:      "g1-blobs",
		DefaultLimit: 100,
		LogLevel:     "info",
	}
}

// Load reads path and overlays it onto Default(). A missing file is not
// an error: it simply yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, errf("ReadFailed", "reading %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errf("ParseFailed", "parsing %s: %v", path, err)
	}
	return cfg, nil
}
