package lane

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
)

// MoveCmd returns the lane move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a lane to another position in its pipeline",
		Long: `Move a lane to a zero-based position. Positions past the end place the lane last.

Examples:
  # Make lane 4 the first lane
  plura lane move --id=4 --to=0
`,
		RunE: runMove,
	}

	cmd.Flags().Int("id", 0, "Lane ID (required)")
	cmd.Flags().Int("to", 0, "Target position, zero-based (required)")
	cli.MarkRequired(cmd, "id", "to")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	laneID, _ := cmd.Flags().GetInt("id")
	to, _ := cmd.Flags().GetInt("to")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	st, err := cliInstance.App.MoveLane(ctx, laneID, to)
	if err != nil {
		return formatter.Fail(err)
	}

	snap := st.Confirmed()
	position := snap.LaneIndex(laneID)

	if formatter.Quiet {
		fmt.Printf("%d\n", laneID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":          true,
			"lane_id":          laneID,
			"position":         position,
			"pipeline_version": snap.Pipeline.Version,
		})
	}

	fmt.Printf("✓ Lane %d moved to position %d\n", laneID, position)
	return nil
}
