package lane

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
)

// RenameCmd returns the lane rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a lane without changing its position",
		RunE:  runRename,
	}

	cmd.Flags().Int("id", 0, "Lane ID (required)")
	cmd.Flags().String("name", "", "New name (required)")
	cli.MarkRequired(cmd, "id", "name")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	laneID, _ := cmd.Flags().GetInt("id")
	name, _ := cmd.Flags().GetString("name")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	if err := cliInstance.App.LaneService.UpdateLaneName(ctx, cliInstance.App.Session, laneID, name); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", laneID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"lane_id": laneID,
			"name":    name,
		})
	}

	fmt.Printf("✓ Lane %d renamed to '%s'\n", laneID, name)
	return nil
}
