// Package log builds the slog.Logger shared by the commands.
//
// Without a log file, records below Error go to stdout and errors go to
// stderr. A log file and a serial console can be added as extra sinks; the
// serial console mirrors what a sketch would print on its debug UART.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.bug.st/serial"
)

const LevelTrace slog.Level = -8

type Options struct {
	Level  string
	File   string
	Serial string
	Baud   int
}

func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// below passes only records under max to h.
type below struct {
	max slog.Level
	slog.Handler
}

func (b below) Enabled(ctx context.Context, level slog.Level) bool {
	return level < b.max && b.Handler.Enabled(ctx, level)
}

func (b below) WithAttrs(attrs []slog.Attr) slog.Handler {
	return below{max: b.max, Handler: b.Handler.WithAttrs(attrs)}
}

func (b below) WithGroup(name string) slog.Handler {
	return below{max: b.max, Handler: b.Handler.WithGroup(name)}
}

// SetupLogger returns the logger and the sinks the caller must close.
func SetupLogger(opts Options) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(opts.Level)
	ho := &slog.HandlerOptions{Level: level}

	var (
		handlers fanout
		closers  []io.Closer
	)
	if opts.File == "" {
		handlers = append(handlers,
			below{max: slog.LevelError, Handler: slog.NewTextHandler(os.Stdout, ho)},
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}),
		)
	} else {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		closers = append(closers, f)
		handlers = append(handlers,
			slog.NewTextHandler(os.Stderr, ho),
			slog.NewTextHandler(f, ho),
		)
	}

	if opts.Serial != "" {
		port, err := openSerial(opts.Serial, opts.Baud)
		if err != nil {
			for _, c := range closers {
				_ = c.Close()
			}
			return nil, nil, err
		}
		closers = append(closers, port)
		handlers = append(handlers, slog.NewTextHandler(port, ho))
	}
	return slog.New(handlers), closers, nil
}

func openSerial(name string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = 115200
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial log %s: %w", name, err)
	}
	return port, nil
}
