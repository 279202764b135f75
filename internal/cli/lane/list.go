package lane

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/cli/styles"
)

// ListCmd returns the lane list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the lanes of a pipeline in order",
		RunE:  runList,
	}

	cmd.Flags().Int("pipeline", 0, "Pipeline ID (required)")
	cli.MarkRequired(cmd, "pipeline")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pipelineID, _ := cmd.Flags().GetInt("pipeline")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	lanes, err := cliInstance.App.LaneService.GetLanesByPipeline(ctx, cliInstance.App.Session, pipelineID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, l := range lanes {
			fmt.Printf("%d\n", l.ID)
		}
		return nil
	}

	if formatter.JSON {
		out := make([]map[string]any, len(lanes))
		for i, l := range lanes {
			out[i] = laneJSON(l)
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"lanes":   out,
		})
	}

	if len(lanes) == 0 {
		fmt.Printf("Pipeline %d has no lanes\n", pipelineID)
		return nil
	}

	fmt.Println(styles.TitleStyle.Render(fmt.Sprintf("Lanes of pipeline %d", pipelineID)))
	for _, l := range lanes {
		fmt.Printf("  %d. %s %s\n", l.Order+1, l.Name, styles.SubtitleStyle.Render(fmt.Sprintf("(ID: %d)", l.ID)))
	}
	return nil
}
