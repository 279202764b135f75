package lane

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
)

// DeleteCmd returns the lane delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a lane and its tickets",
		Long:  "Delete a lane with all of its tickets. The remaining lanes close the gap.",
		RunE:  runDelete,
	}

	cmd.Flags().Int("id", 0, "Lane ID (required)")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	laneID, _ := cmd.Flags().GetInt("id")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	sess := cliInstance.App.Session
	l, err := cliInstance.App.LaneService.GetLaneByID(ctx, sess, laneID)
	if err != nil {
		return formatter.Fail(err)
	}

	if !cli.ConfirmDelete(cmd, formatter, fmt.Sprintf("lane '%s' and all of its tickets", l.Name)) {
		fmt.Println("Cancelled")
		return nil
	}

	if err := cliInstance.App.LaneService.DeleteLane(ctx, sess, laneID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"lane_id": laneID,
		})
	}

	fmt.Printf("✓ Lane '%s' deleted successfully\n", l.Name)
	return nil
}
