package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/database"
	"github.com/thenoetrevino/plura/internal/testutil"
	clitest "github.com/thenoetrevino/plura/internal/testutil/cli"
)

func TestCreatePipelineCommand(t *testing.T) {
	repo, app := clitest.SetupCLITest(t)

	tests := []struct {
		name      string
		args      []string
		wantExit  int
		checkFunc func(t *testing.T, output string)
	}{
		{
			name: "quiet prints the new ID",
			args: []string{"--name", "Sales", "--subaccount", testutil.TestSubAccount, "--quiet"},
			checkFunc: func(t *testing.T, output string) {
				id, err := strconv.Atoi(strings.TrimSpace(output))
				require.NoError(t, err, "Expected numeric pipeline ID, got: %s", output)

				p, err := repo.GetPipelineByID(context.Background(), id)
				require.NoError(t, err)
				assert.Equal(t, "Sales", p.Name)
				assert.Equal(t, testutil.TestSubAccount, p.SubAccountID)
			},
		},
		{
			name: "json output",
			args: []string{"--name", "Onboarding", "--subaccount", testutil.TestSubAccount, "--json"},
			checkFunc: func(t *testing.T, output string) {
				result := clitest.ParseJSON(t, output)
				assert.Equal(t, true, result["success"])
				p, ok := result["pipeline"].(map[string]any)
				require.True(t, ok, "Expected 'pipeline' object in JSON output")
				assert.Equal(t, "Onboarding", p["name"])
				assert.Equal(t, float64(0), p["version"])
			},
		},
		{
			name: "human output",
			args: []string{"--name", "Renewals", "--subaccount", testutil.TestSubAccount},
			checkFunc: func(t *testing.T, output string) {
				assert.Contains(t, output, "created successfully")
				assert.Contains(t, output, "Renewals")
			},
		},
		{
			name:     "empty name is a validation error",
			args:     []string{"--name", "", "--subaccount", testutil.TestSubAccount, "--json"},
			wantExit: cli.ExitValidation,
			checkFunc: func(t *testing.T, output string) {
				result := clitest.ParseJSON(t, output)
				assert.Equal(t, false, result["success"])
				errData := result["error"].(map[string]any)
				assert.Equal(t, "VALIDATION_ERROR", errData["code"])
			},
		},
		{
			name:     "missing name flag",
			args:     []string{},
			wantExit: cli.ExitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), tt.args)

			if tt.wantExit == cli.ExitSuccess {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantExit, cli.ExitCode(err))
			}
			if tt.checkFunc != nil {
				tt.checkFunc(t, output)
			}
		})
	}
}

func TestCreatePipelineCommand_GuestIsForbidden(t *testing.T) {
	_, app := clitest.SetupCLITestAs(t, testutil.GuestSession())

	_, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), []string{"--name", "Sales", "--quiet"})

	require.Error(t, err)
	assert.Equal(t, cli.ExitForbidden, cli.ExitCode(err))
}

func TestListPipelineCommand(t *testing.T) {
	repo, app := clitest.SetupCLITest(t)

	testutil.CreateTestPipeline(t, repo, "Pipeline 1")
	testutil.CreateTestPipeline(t, repo, "Pipeline 2")

	t.Run("quiet lists every ID", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--subaccount", testutil.TestSubAccount, "--quiet"})
		require.NoError(t, err)
		assert.Len(t, strings.Fields(output), 2)
	})

	t.Run("json", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--subaccount", testutil.TestSubAccount, "--json"})
		require.NoError(t, err)
		result := clitest.ParseJSON(t, output)
		pipelines := result["pipelines"].([]any)
		assert.Len(t, pipelines, 2)
	})

	t.Run("human", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--subaccount", testutil.TestSubAccount})
		require.NoError(t, err)
		assert.Contains(t, output, "Pipeline 1")
		assert.Contains(t, output, "Pipeline 2")
	})
}

func TestListPipelineCommand_EnsureDefault(t *testing.T) {
	_, app := clitest.SetupCLITest(t)

	output, err := clitest.ExecuteCLICommand(t, app, ListCmd(), []string{"--subaccount", "fresh", "--ensure-default", "--json"})
	require.NoError(t, err)

	pipelines := clitest.ParseJSON(t, output)["pipelines"].([]any)
	require.Len(t, pipelines, 1)
	assert.Equal(t, "First Pipeline", pipelines[0].(map[string]any)["name"])
}

func TestShowPipelineCommand(t *testing.T) {
	repo, app := clitest.SetupCLITest(t)
	snap := testutil.CreateTestBoard(t, repo, 2, 1)
	id := fmt.Sprintf("%d", snap.Pipeline.ID)
	contactID := testutil.CreateTestContact(t, repo, "Acme Corp", "")
	customerTicket := snap.Lanes[1].Tickets[0]
	require.NoError(t, repo.UpdateTicket(context.Background(), customerTicket.ID, database.TicketFields{
		Title:      customerTicket.Title,
		CustomerID: &contactID,
	}))

	t.Run("json board", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ShowCmd(), []string{"--id", id, "--json"})
		require.NoError(t, err)

		board := clitest.ParseJSON(t, output)["board"].(map[string]any)
		lanes := board["lanes"].([]any)
		require.Len(t, lanes, 2)

		first := lanes[0].(map[string]any)
		assert.Equal(t, "Lane 0", first["name"])
		tickets := first["tickets"].([]any)
		require.Len(t, tickets, 2)
		assert.Equal(t, "L0-T0", tickets[0].(map[string]any)["title"])
		assert.Equal(t, float64(1), tickets[1].(map[string]any)["order"])
		assert.Nil(t, tickets[0].(map[string]any)["customer"])

		second := lanes[1].(map[string]any)["tickets"].([]any)
		assert.Equal(t, "Acme Corp", second[0].(map[string]any)["customer"])
	})

	t.Run("human board", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, app, ShowCmd(), []string{"--id", id})
		require.NoError(t, err)
		assert.Contains(t, output, "Test Pipeline")
		assert.Contains(t, output, "Lane 1")
		assert.Contains(t, output, "L1-T0")
		assert.Contains(t, output, "Acme Corp")
	})

	t.Run("unknown pipeline", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, app, ShowCmd(), []string{"--id", "9999", "--json"})
		require.Error(t, err)
		assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
	})
}

func TestRenamePipelineCommand(t *testing.T) {
	repo, app := clitest.SetupCLITest(t)
	id := testutil.CreateTestPipeline(t, repo, "Old")

	_, err := clitest.ExecuteCLICommand(t, app, RenameCmd(), []string{"--id", fmt.Sprintf("%d", id), "--name", "New", "--quiet"})
	require.NoError(t, err)

	p, err := repo.GetPipelineByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, 0, p.Version, "renaming must not bump the version")
}

func TestDeletePipelineCommand(t *testing.T) {
	repo, app := clitest.SetupCLITest(t)
	snap := testutil.CreateTestBoard(t, repo, 1)

	output, err := clitest.ExecuteCLICommand(t, app, DeleteCmd(), []string{"--id", fmt.Sprintf("%d", snap.Pipeline.ID), "--force"})
	require.NoError(t, err)
	assert.Contains(t, output, "deleted successfully")

	_, err = repo.GetPipelineByID(context.Background(), snap.Pipeline.ID)
	assert.Error(t, err)
	_, err = repo.GetLaneByID(context.Background(), snap.Lanes[0].ID)
	assert.Error(t, err, "lanes are deleted with their pipeline")
}
