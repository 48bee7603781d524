package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	BackendSlog    = "slog"
	BackendZerolog = "zerolog"
)

// Options selects and tunes a Logger implementation.
//
// Backend is "slog" (default) or "zerolog". Level is one of debug, info,
// warn, error (default info). Format is "text" or "json" for slog and
// "json" or "console" for zerolog. Output defaults to os.Stderr so log lines
// never interleave with the interactive prompt on stdout.
type Options struct {
	Backend string
	Level   string
	Format  string
	Output  io.Writer
}

// New builds a Logger from opts.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(opts.Backend) {
	case BackendZerolog:
		var w io.Writer = out
		if strings.EqualFold(opts.Format, "console") {
			w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}
		zl := zerolog.New(w).Level(zerologLevel(opts.Level)).With().Timestamp().Logger()
		return NewZerologLogger(zl)
	default:
		ho := &slog.HandlerOptions{Level: slogLevel(opts.Level)}
		var h slog.Handler
		if strings.EqualFold(opts.Format, "json") {
			h = slog.NewJSONHandler(out, ho)
		} else {
			h = slog.NewTextHandler(out, ho)
		}
		return NewSlogLogger(slog.New(h))
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func slogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func zerologLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
