// Package cli provides helpers for testing cobra commands against an
// in-memory database. It lives apart from testutil to avoid import cycles
// when service tests import testutil.
package cli

import (
	"testing"

	"github.com/thenoetrevino/plura/internal/app"
	"github.com/thenoetrevino/plura/internal/database"
	"github.com/thenoetrevino/plura/internal/session"
	"github.com/thenoetrevino/plura/internal/testutil"
)

// SetupCLITest creates an in-memory repository and an App acting as an
// agency owner. The App is closed on cleanup.
func SetupCLITest(t *testing.T) (*database.Repository, *app.App) {
	t.Helper()
	return SetupCLITestAs(t, testutil.OwnerSession())
}

// SetupCLITestAs is SetupCLITest with an explicit session
func SetupCLITestAs(t *testing.T, sess *session.Session) (*database.Repository, *app.App) {
	t.Helper()
	repo := testutil.SetupTestRepository(t)

	// EventPublisher is nil, event publishing is tested in the services
	appInstance := app.New(repo, sess)
	t.Cleanup(func() {
		if err := appInstance.Close(); err != nil {
			t.Logf("Warning: app close error during cleanup: %v", err)
		}
	})

	return repo, appInstance
}
