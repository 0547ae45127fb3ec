// Package log provides tlog's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Internally it is backed by the standard
// library slog via a custom handler that routes records through a
// formatter/output pipeline, so callers keep a stable facade while the slog
// ecosystem remains reachable.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("storage"))
//	l.Info("log opened", log.Str("path", "/var/lib/tlog/a.tlog"))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config holding a level and a
// format name, which is how the CLI honors TLOG_LOG_LEVEL and TLOG_LOG_FORMAT.
package log
