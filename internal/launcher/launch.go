package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thenoetrevino/plura/internal/app"
	"github.com/thenoetrevino/plura/internal/config"
	"github.com/thenoetrevino/plura/internal/tui"
)

// shutdownGrace bounds how long a cancelled board waits for the program to exit
const shutdownGrace = 5 * time.Second

// Launch opens pipelineID as an interactive board and blocks until the user
// quits or ctx is cancelled. A pipelineID of 0 opens the first pipeline of
// subAccountID, creating one when the sub-account has none.
func Launch(ctx context.Context, a *app.App, cfg *config.Config, pipelineID int, subAccountID string) error {
	if pipelineID == 0 {
		p, err := a.PipelineService.EnsureDefault(ctx, a.Session, subAccountID)
		if err != nil {
			return err
		}
		pipelineID = p.ID
	}

	st, err := a.OpenBoard(ctx, pipelineID)
	if err != nil {
		return err
	}

	model := tui.New(ctx, a, st,
		tui.WithKeyMappings(cfg.KeyMappings),
		tui.WithTheme(cfg.Theme),
	)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	errChan := make(chan error, 1)
	go func() {
		_, err := p.Run()
		errChan <- err
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("error running board: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received, closing board")
		select {
		case <-errChan:
		case <-time.After(shutdownGrace):
			slog.Warn("board did not exit in time", "grace", shutdownGrace)
		}
	}

	return nil
}
