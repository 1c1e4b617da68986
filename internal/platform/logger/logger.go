package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/journal-drill/internal/config"
	"github.com/phrazzld/journal-drill/internal/redact"
)

// Setup configures the process-wide JSON logger from the server config and
// installs it as the slog default. Values logged under the "error" key pass
// through redaction before they are written.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	return setupWithWriter(cfg, os.Stdout), nil
}

func setupWithWriter(cfg config.ServerConfig, out io.Writer) *slog.Logger {
	level, ok := ParseLevel(cfg.LogLevel)
	if !ok {
		// Use the default handler (text output to stderr) for the warning
		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactErrors,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a configured level name into a slog.Level.
// Unknown names yield info and false.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func redactErrors(groups []string, a slog.Attr) slog.Attr {
	if a.Key != "error" {
		return a
	}
	return slog.String(a.Key, redact.String(a.Value.String()))
}
