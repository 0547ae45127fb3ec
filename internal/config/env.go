package config

import (
	"os"
	"strconv"
)

// FromEnv overlays TLOG_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("TLOG_TRANSACTION_PERIOD_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TransactionPeriodMs = n
		}
	}
	if v := os.Getenv("TLOG_SCHEMA_PATH"); v != "" {
		cfg.SchemaPath = v
	}
	if v := os.Getenv("TLOG_BUSY_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BusyTimeoutMs = n
		}
	}
	if v := os.Getenv("TLOG_SYNCHRONOUS"); v != "" {
		cfg.Synchronous = v
	}
	if v := os.Getenv("TLOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TLOG_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
