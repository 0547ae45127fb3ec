package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// TransactionPeriodMs bounds how long a write transaction stays open
	// before it is committed.
	TransactionPeriodMs int `json:"transactionPeriodMs" yaml:"transactionPeriodMs"`
	// SchemaPath optionally overrides the embedded DDL script with an
	// installed schema file.
	SchemaPath string `json:"schemaPath" yaml:"schemaPath"`
	// BusyTimeoutMs is the SQLite busy handler timeout.
	BusyTimeoutMs int `json:"busyTimeoutMs" yaml:"busyTimeoutMs"`
	// Synchronous is the SQLite synchronous pragma: OFF, NORMAL or FULL.
	Synchronous string `json:"synchronous" yaml:"synchronous"`
	// LogLevel and LogFormat configure the process logger.
	LogLevel  string `json:"logLevel" yaml:"logLevel"`
	LogFormat string `json:"logFormat" yaml:"logFormat"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		TransactionPeriodMs: 500,
		BusyTimeoutMs:       5000,
		Synchronous:         "NORMAL",
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
