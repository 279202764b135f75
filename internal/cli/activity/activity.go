// Package activity holds the cli commands for the sub-account activity log
//
// e.g., plura activity list
package activity

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/cli/styles"
	activityservice "github.com/thenoetrevino/plura/internal/services/activity"
)

// ActivityCmd returns the activity parent command
func ActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log",
	}

	cmd.AddCommand(ListCmd())

	return cmd
}

// ListCmd returns the activity list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent activity, newest first",
		Long: `List the most recent activity of a sub-account, optionally limited to one pipeline.

Examples:
  plura activity list
  plura activity list --pipeline=2 --limit=5
`,
		RunE: runList,
	}

	cmd.Flags().String("subaccount", "", "Sub-account (defaults to the configured one)")
	cmd.Flags().Int("pipeline", 0, "Only show activity of this pipeline")
	cmd.Flags().Int("limit", activityservice.DefaultLimit, "Maximum number of entries")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	subAccount, _ := cmd.Flags().GetString("subaccount")
	limit, _ := cmd.Flags().GetInt("limit")
	formatter := cli.Formatter(cmd)

	var pipelineID *int
	if cmd.Flags().Changed("pipeline") {
		id, _ := cmd.Flags().GetInt("pipeline")
		pipelineID = &id
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	subAccountID := cliInstance.SubAccount(subAccount)
	entries, err := cliInstance.App.ActivityService.ListRecent(ctx, cliInstance.App.Session, subAccountID, pipelineID, limit)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, a := range entries {
			fmt.Printf("%d\n", a.ID)
		}
		return nil
	}

	if formatter.JSON {
		out := make([]map[string]any, len(entries))
		for i, a := range entries {
			out[i] = map[string]any{
				"id":          a.ID,
				"subaccount":  a.SubAccountID,
				"pipeline_id": a.PipelineID,
				"description": a.Description,
				"created_at":  a.CreatedAt,
			}
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":  true,
			"activity": out,
		})
	}

	if len(entries) == 0 {
		fmt.Println("No activity yet")
		return nil
	}

	fmt.Println(styles.TitleStyle.Render(fmt.Sprintf("Activity in %s", subAccountID)))
	for _, a := range entries {
		fmt.Printf("  %s %s\n", a.Description, styles.SubtitleStyle.Render(cli.FormatAge(a.CreatedAt)))
	}
	return nil
}
