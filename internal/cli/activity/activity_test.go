package activity

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/plura/internal/cli"
	laneservice "github.com/thenoetrevino/plura/internal/services/lane"
	"github.com/thenoetrevino/plura/internal/testutil"
	clitest "github.com/thenoetrevino/plura/internal/testutil/cli"
)

func TestListActivityCommand(t *testing.T) {
	repo, app := clitest.SetupCLITest(t)
	ctx := context.Background()

	first := testutil.CreateTestPipeline(t, repo, "Sales")
	second := testutil.CreateTestPipeline(t, repo, "Support")
	for _, pid := range []int{first, second, first} {
		_, err := app.LaneService.CreateLane(ctx, app.Session, laneservice.CreateLaneRequest{Name: "New", PipelineID: pid})
		require.NoError(t, err)
	}

	t.Run("whole sub-account", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--subaccount", testutil.TestSubAccount, "--json"})
		require.NoError(t, err)
		entries := clitest.ParseJSON(t, output)["activity"].([]any)
		assert.Len(t, entries, 3)
	})

	t.Run("one pipeline with limit", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), []string{
			"--subaccount", testutil.TestSubAccount, "--pipeline", strconv.Itoa(first), "--limit", "1", "--json",
		})
		require.NoError(t, err)
		entries := clitest.ParseJSON(t, output)["activity"].([]any)
		require.Len(t, entries, 1)
		entry := entries[0].(map[string]any)
		assert.Equal(t, float64(first), entry["pipeline_id"])
		assert.Contains(t, entry["description"], "New")
	})

	t.Run("human", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--subaccount", testutil.TestSubAccount})
		require.NoError(t, err)
		assert.Contains(t, output, "ago")
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--subaccount", testutil.TestSubAccount, "--limit", "-1", "--json"})
		require.Error(t, err)
		assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
	})
}
