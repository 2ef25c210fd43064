// Package logging provides zerolog context propagation helpers.
//
// The application holds a single global logger (configured in internal/config);
// this package lets call sites attach that logger to a context.Context and
// retrieve it again deep in the call stack without threading a logger
// parameter through every signature.
package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// WithContext returns a copy of ctx carrying the given logger.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or a disabled logger if
// none was attached. Callers can always log through the result safely.
func FromContext(ctx context.Context) zerolog.Logger {
	logger := zerolog.Ctx(ctx)
	if logger == nil {
		disabled := zerolog.Nop()
		return disabled
	}
	return *logger
}
