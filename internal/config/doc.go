// Package config provides loading and environment overlay for tlog runtime
// configuration. It exposes a Default() baseline, Load() for JSON or YAML
// files, and FromEnv() to overlay TLOG_* environment variables.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/tlog.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
package config
