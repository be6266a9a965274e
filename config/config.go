// Package config loads docparse configuration from YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/antflydb/docparse/logging"
	"github.com/antflydb/docparse/pdfengine"
)

// Config is the top level docparse configuration.
type Config struct {
	// Server configures the HTTP listener and upload limits.
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging selects the log level and style.
	Logging logging.Config `yaml:"logging" json:"logging"`

	// Engine tunes the PDF layout analysis thresholds.
	Engine pdfengine.Options `yaml:"engine" json:"engine"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the listen address.
	Host string `yaml:"host" json:"host"`

	// Port is the listen port.
	Port int `yaml:"port" json:"port"`

	// MaxUploadMB caps the accepted upload size in megabytes.
	MaxUploadMB int `yaml:"max_upload_mb" json:"max_upload_mb"`
}

// MaxUploadBytes returns the upload cap in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// Load reads configuration from a YAML file. Missing keys keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        12330,
			MaxUploadMB: 50,
		},
		Logging: logging.Config{
			Level: "info",
			Style: logging.StyleLogfmt,
		},
		Engine: pdfengine.DefaultOptions(),
	}
}
