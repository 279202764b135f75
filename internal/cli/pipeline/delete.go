package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
)

// DeleteCmd returns the pipeline delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a pipeline",
		Long:  "Delete a pipeline with all of its lanes and tickets (requires confirmation unless --force, --json or --quiet).",
		RunE:  runDelete,
	}

	cmd.Flags().Int("id", 0, "Pipeline ID (required)")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pipelineID, _ := cmd.Flags().GetInt("id")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	sess := cliInstance.App.Session
	p, err := cliInstance.App.PipelineService.GetPipelineByID(ctx, sess, pipelineID)
	if err != nil {
		return formatter.Fail(err)
	}

	if !cli.ConfirmDelete(cmd, formatter, fmt.Sprintf("pipeline #%d '%s' and all of its lanes and tickets", p.ID, p.Name)) {
		fmt.Println("Cancelled")
		return nil
	}

	if err := cliInstance.App.PipelineService.DeletePipeline(ctx, sess, pipelineID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":     true,
			"pipeline_id": pipelineID,
		})
	}

	fmt.Printf("✓ Pipeline %d deleted successfully\n", pipelineID)
	return nil
}
