package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
)

// RenameCmd returns the pipeline rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a pipeline",
		RunE:  runRename,
	}

	cmd.Flags().Int("id", 0, "Pipeline ID (required)")
	cmd.Flags().String("name", "", "New name (required)")
	cli.MarkRequired(cmd, "id", "name")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pipelineID, _ := cmd.Flags().GetInt("id")
	name, _ := cmd.Flags().GetString("name")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	if err := cliInstance.App.PipelineService.UpdatePipelineName(ctx, cliInstance.App.Session, pipelineID, name); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", pipelineID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":     true,
			"pipeline_id": pipelineID,
			"name":        name,
		})
	}

	fmt.Printf("✓ Pipeline %d renamed to '%s'\n", pipelineID, name)
	return nil
}
