package app

import (
	"log/slog"

	"github.com/thenoetrevino/plura/internal/events"
	"github.com/thenoetrevino/plura/internal/reorder"
)

// Option configures New
type Option func(*appConfig)

type appConfig struct {
	eventClient   events.EventPublisher
	logger        *slog.Logger
	engineOptions []reorder.Option
}

// WithEventPublisher makes every service and the reorder engine announce
// board changes through ec. Without it the app runs offline and other
// sessions only see changes on their next reload.
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithLogger sets the logger handed to the reorder engine, which reports
// rolled back batches and resyncs through it. A nil logger keeps
// slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithEngineOptions passes extra options to the reorder engine. They are
// applied after the ones New derives from the app, so they win.
func WithEngineOptions(opts ...reorder.Option) Option {
	return func(cfg *appConfig) {
		cfg.engineOptions = append(cfg.engineOptions, opts...)
	}
}
