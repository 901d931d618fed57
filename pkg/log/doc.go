// Package log provides Beacon's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Internally it is backed by Go's
// standard library slog via a custom handler that preserves the
// formatter/outputs pipeline, so slog-aware libraries and our own code share
// one output path.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.WithComponent("server")
//	l.Info("server started", log.Str("addr", ":8000"))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config supporting JSON
// or text formatting. To integrate with libraries expecting *log.Logger, use
// ToStdLogger or RedirectStdLog.
package log
