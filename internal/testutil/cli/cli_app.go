package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/app"
	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/testutil"
)

// ExecuteCLICommand executes a CLI command against a test app instance and
// returns its stdout
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()
	return ExecuteCLICommandWithContext(t, context.Background(), testApp, cmd, args)
}

// ExecuteCLICommandWithContext executes a CLI command with a specific context and test app
func ExecuteCLICommandWithContext(t *testing.T, ctx context.Context, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	SetupCobraCommand(cmd, args)
	ctxWithApp := cli.WithApp(ctx, testApp)

	var executeErr error
	output := testutil.CaptureOutput(t, func() {
		executeErr = cmd.ExecuteContext(ctxWithApp)
	})

	return output, executeErr
}

// ExecuteCLICommandStreams is ExecuteCLICommand for tests that also check
// what the command printed to stderr
func ExecuteCLICommandStreams(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string) (testutil.Streams, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	SetupCobraCommand(cmd, args)
	ctxWithApp := cli.WithApp(context.Background(), testApp)

	var executeErr error
	streams := testutil.CaptureStreams(t, func() {
		executeErr = cmd.ExecuteContext(ctxWithApp)
	})

	return streams, executeErr
}
