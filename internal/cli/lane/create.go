package lane

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	laneservice "github.com/thenoetrevino/plura/internal/services/lane"
)

// CreateCmd returns the lane create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append a lane to a pipeline",
		Long: `Create a new lane at the end of a pipeline.

Examples:
  plura lane create --pipeline=1 --name="Qualified"

  LANE_ID=$(plura lane create --pipeline=1 --name="Won" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().Int("pipeline", 0, "Pipeline ID (required)")
	cmd.Flags().String("name", "", "Lane name (required)")
	cli.MarkRequired(cmd, "pipeline", "name")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pipelineID, _ := cmd.Flags().GetInt("pipeline")
	name, _ := cmd.Flags().GetString("name")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	l, err := cliInstance.App.LaneService.CreateLane(ctx, cliInstance.App.Session, laneservice.CreateLaneRequest{
		Name:       name,
		PipelineID: pipelineID,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", l.ID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"lane":    laneJSON(l),
		})
	}

	fmt.Printf("✓ Lane '%s' created successfully (ID: %d, position %d)\n", l.Name, l.ID, l.Order)
	return nil
}
