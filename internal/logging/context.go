package logging

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

type ctxKey int

const (
	consoleKey ctxKey = iota
	diagnosticsKey
)

//nolint:gochecknoglobals // shared sink for runs without a diagnostic log
var discard = log.New(io.Discard)

// WithLogger attaches the console logger commands report through.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, consoleKey, logger)
}

// FromContext returns the console logger attached to ctx, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(consoleKey).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithDiagnostics attaches the logger that records a run's layer, segment
// and summary events.
func WithDiagnostics(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, diagnosticsKey, logger)
}

// Diagnostics returns the diagnostic logger attached to ctx. Without one,
// records are dropped.
func Diagnostics(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(diagnosticsKey).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return discard
}
