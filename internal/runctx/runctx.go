// Package runctx carries a run's services through context.
// It replaces process-wide state (global logger, global random source) with
// an explicit object, so runs are reproducible and the core is testable.
package runctx

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/jackzampolin/taskmill/internal/config"
	"github.com/jackzampolin/taskmill/internal/governor"
	"github.com/jackzampolin/taskmill/internal/summarize"
	"github.com/jackzampolin/taskmill/internal/writer"
)

// Services holds the collaborators that flow through one run.
type Services struct {
	Config     *config.Config
	Logger     *slog.Logger
	Rng        *rand.Rand
	Governor   *governor.Governor
	Summarizer summarize.Summarizer
	Writer     writer.Writer
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// LoggerFrom extracts the logger from context, falling back to the default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
