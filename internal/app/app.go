package app

import (
	"context"
	"log/slog"

	"github.com/thenoetrevino/plura/internal/board"
	"github.com/thenoetrevino/plura/internal/database"
	"github.com/thenoetrevino/plura/internal/events"
	"github.com/thenoetrevino/plura/internal/reorder"
	activityservice "github.com/thenoetrevino/plura/internal/services/activity"
	contactservice "github.com/thenoetrevino/plura/internal/services/contact"
	laneservice "github.com/thenoetrevino/plura/internal/services/lane"
	pipelineservice "github.com/thenoetrevino/plura/internal/services/pipeline"
	tagservice "github.com/thenoetrevino/plura/internal/services/tag"
	ticketservice "github.com/thenoetrevino/plura/internal/services/ticket"
	"github.com/thenoetrevino/plura/internal/session"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	repo database.DataStore

	// Event system for live updates
	eventClient events.EventPublisher

	logger *slog.Logger

	// Session is the identity every call is made with
	Session *session.Session

	// Service layer (business logic)
	PipelineService pipelineservice.Service
	LaneService     laneservice.Service
	TicketService   ticketservice.Service
	TagService      tagservice.Service
	ContactService  contactservice.Service
	ActivityService activityservice.Service

	// Engine persists drag and drop moves
	Engine *reorder.Engine
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(repo database.DataStore, sess *session.Session, opts ...Option) *App {
	cfg := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	activity := activityservice.NewService(repo)
	engineOptions := append([]reorder.Option{
		reorder.WithActivityRecorder(activity),
		reorder.WithEventPublisher(cfg.eventClient),
		reorder.WithLogger(cfg.logger),
	}, cfg.engineOptions...)

	return &App{
		repo:            repo,
		eventClient:     cfg.eventClient,
		logger:          cfg.logger,
		Session:         sess,
		PipelineService: pipelineservice.NewService(repo, activity, cfg.eventClient),
		LaneService:     laneservice.NewService(repo, activity, cfg.eventClient),
		TicketService:   ticketservice.NewService(repo, activity, cfg.eventClient),
		TagService:      tagservice.NewService(repo, cfg.eventClient),
		ContactService:  contactservice.NewService(repo, cfg.eventClient),
		ActivityService: activity,
		Engine:          reorder.NewEngine(repo, engineOptions...),
	}
}

// Repo returns the underlying repository for direct database access.
func (a *App) Repo() database.DataStore {
	return a.repo
}

// EventClient returns the event publisher, nil when running without the daemon
func (a *App) EventClient() events.EventPublisher {
	return a.eventClient
}

// OpenBoard loads the board of a pipeline for the app's session
func (a *App) OpenBoard(ctx context.Context, pipelineID int) (*board.State, error) {
	return board.LoadSnapshot(ctx, a.repo, a.Session, pipelineID)
}

// Close waits for in-flight reorder batches and closes the event client
func (a *App) Close() error {
	if err := a.Engine.Close(); err != nil {
		return err
	}
	if a.eventClient != nil {
		return a.eventClient.Close()
	}
	return nil
}
