package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/plura/internal/app"
	"github.com/thenoetrevino/plura/internal/config"
	"github.com/thenoetrevino/plura/internal/database"
	"github.com/thenoetrevino/plura/internal/events"
)

type appKey struct{}

// WithApp returns a context carrying an already built App. Commands run
// with such a context use it instead of opening the configured database.
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config

	db    *sql.DB
	owned bool // App and db were opened by NewCLI and are closed by Close
}

// NewCLI opens the configured database and connects to the daemon when it
// is running. Without a daemon the CLI still works; boards in other
// sessions simply do not refresh.
func NewCLI(ctx context.Context, cfg *config.Config) (*CLI, error) {
	sess, err := cfg.Identity.Session()
	if err != nil {
		return nil, fmt.Errorf("invalid identity: %w", err)
	}

	db, err := database.InitDB(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var eventClient events.EventPublisher
	client := events.NewClient(cfg.SocketPath, sess.ID, cfg.EventDebounce)
	if err := client.Connect(ctx); err == nil {
		eventClient = client
	} else {
		slog.Debug("daemon unavailable, live updates disabled", "error", events.ClassifyDaemonError(err))
		_ = client.Close()
	}

	application := app.New(database.NewRepository(db), sess, app.WithEventPublisher(eventClient))

	return &CLI{
		App:    application,
		Config: cfg,
		db:     db,
		owned:  true,
	}, nil
}

// GetCLIFromContext returns a CLI over the App stored by WithApp, or loads
// the configuration and opens a new one.
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if a, ok := ctx.Value(appKey{}).(*app.App); ok && a != nil {
		return &CLI{App: a, Config: config.Default()}, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewCLI(ctx, cfg)
}

// SubAccount resolves the sub-account a command acts on: the explicit flag
// value, then the configured sub-account, then the session's first one.
func (c *CLI) SubAccount(flag string) string {
	if flag != "" {
		return flag
	}
	if c.owned && c.Config.Identity.SubAccount != "" {
		return c.Config.Identity.SubAccount
	}
	if subs := c.App.Session.SubAccounts; len(subs) > 0 {
		return subs[0]
	}
	return config.DefaultSubAccount
}

// Close waits for pending moves and releases the database. A borrowed App
// is left open for its owner.
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	return errors.Join(c.App.Close(), c.db.Close())
}
