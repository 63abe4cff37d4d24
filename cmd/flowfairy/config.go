package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// envConfig overrides the config file location.
const envConfig = "FLOWFAIRY_CONFIG"

// Config represents the flowfairy configuration file
// (~/.config/flowfairy/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Decoding
	LenientKeywords *bool `yaml:"lenient_keywords"`
	Workers         *int  `yaml:"workers"`

	// Server
	ServerAddress  string   `yaml:"server_address"`
	MaxUploadBytes *int64   `yaml:"max_upload_bytes"`
	UploadRate     *float64 `yaml:"upload_rate"`
	UploadBurst    *int     `yaml:"upload_burst"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "flowfairy", "config.yaml")
}

// resolveConfigPath returns explicit when set (flag or FLOWFAIRY_CONFIG),
// else the default location.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return defaultConfigPath()
}

// LoadConfig reads the config file. A missing file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// applyGlobalConfig applies config file defaults to the global flags when
// they were not set on the command line.
func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if cfg.LenientKeywords != nil && !c.IsSet("lenient") {
		lenient = *cfg.LenientKeywords
	}
}

// applyValidateConfig applies config file defaults to validate flags.
func applyValidateConfig(c *cli.Command, cfg Config, workers *int) {
	if cfg.Workers != nil && *cfg.Workers > 0 && !c.IsSet("workers") {
		*workers = *cfg.Workers
	}
}

// applyServeConfig applies config file defaults to serve flags.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxUpload *int64, uploadRate *float64, uploadBurst *int) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxUploadBytes != nil && !c.IsSet("max-upload-bytes") {
		*maxUpload = *cfg.MaxUploadBytes
	}
	if cfg.UploadRate != nil && !c.IsSet("upload-rate") {
		*uploadRate = *cfg.UploadRate
	}
	if cfg.UploadBurst != nil && !c.IsSet("upload-burst") {
		*uploadBurst = *cfg.UploadBurst
	}
}
