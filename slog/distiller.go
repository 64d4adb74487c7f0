package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure LoggingDistiller implements distill.Distiller.
var _ distill.Distiller = (*LoggingDistiller)(nil)

// LoggingDistiller wraps a Distiller with per-call logging.
type LoggingDistiller struct {
	next   distill.Distiller
	logger *slog.Logger
}

// NewLoggingDistiller creates a new LoggingDistiller.
func NewLoggingDistiller(next distill.Distiller, logger *slog.Logger) *LoggingDistiller {
	return &LoggingDistiller{next: next, logger: logger}
}

// Distill delegates to the wrapped distiller and logs the operation.
func (d *LoggingDistiller) Distill(ctx context.Context, markdown string) (out string, err error) {
	defer func(begin time.Time) {
		d.logger.Info("distill",
			"in_bytes", len(markdown),
			"out_bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Distill(ctx, markdown)
}
