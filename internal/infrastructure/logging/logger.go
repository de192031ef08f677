package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dcmnet/dicom-conf-core/internal/infrastructure/config"
)

// serviceAttr is stamped on every log line so aggregated output from
// several services stays attributable.
const serviceAttr = "confadmin"

// Logger is a thin wrapper over slog.Logger carrying the service's
// default attributes. Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging section of config.yaml. Format
// selects text or JSON output, Output selects stdout or stderr, and
// Level filters records below the configured severity. The service name
// and version ride along as default attributes.
func New(cfg config.LoggingConfig, version string) *Logger {
	var out io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", serviceAttr),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// Default is the bootstrap logger used before config.Load succeeds:
// JSON to stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}

// With returns a child Logger carrying extra default attributes, e.g.
//
//	apiLog := logger.With("component", "api")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// parseLevel maps a config string to a slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
