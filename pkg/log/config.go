package log

import (
	"fmt"
	stdlog "log"
	"strings"
)

// Config declaratively selects logger level and format.
type Config struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// ParseLevel parses a level name. It accepts debug, info, warn, error and
// fatal, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// ApplyConfig builds a Logger from a declarative Config. Empty fields fall
// back to info level and text format.
func ApplyConfig(cfg *Config) (Logger, error) {
	level := InfoLevel
	if cfg != nil && cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}
	var formatter Formatter = &TextFormatter{}
	if cfg != nil {
		switch strings.ToLower(cfg.Format) {
		case "", "text":
		case "json":
			formatter = &JSONFormatter{}
		default:
			return nil, fmt.Errorf("unknown log format %q", cfg.Format)
		}
	}
	return NewLogger(WithLevel(level), WithFormatter(formatter), WithOutput(NewConsoleOutput())), nil
}

// stdLogWriter adapts a Logger to io.Writer for the standard library logger.
type stdLogWriter struct{ l Logger }

func (w stdLogWriter) Write(p []byte) (int, error) {
	w.l.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// RedirectStdLog routes standard library log output through the given Logger.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdLogWriter{l: l})
}

// ToStdLogger returns a *log.Logger that writes through the given Logger.
func ToStdLogger(l Logger) *stdlog.Logger {
	return stdlog.New(stdLogWriter{l: l}, "", 0)
}
