package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	pipelineservice "github.com/thenoetrevino/plura/internal/services/pipeline"
)

// CreateCmd returns the pipeline create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new pipeline",
		Long: `Create a new, empty pipeline in a sub-account.

Examples:
  # Human-readable output
  plura pipeline create --name="Sales"

  # In a specific sub-account
  plura pipeline create --name="Onboarding" --subaccount=acme

  # Quiet mode for bash capture
  PIPELINE_ID=$(plura pipeline create --name="Sales" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("name", "", "Pipeline name (required)")
	cmd.Flags().String("subaccount", "", "Sub-account that owns the pipeline (defaults to the configured one)")
	cli.MarkRequired(cmd, "name")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("name")
	subAccount, _ := cmd.Flags().GetString("subaccount")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	p, err := cliInstance.App.PipelineService.CreatePipeline(ctx, cliInstance.App.Session, pipelineservice.CreatePipelineRequest{
		Name:         name,
		SubAccountID: cliInstance.SubAccount(subAccount),
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", p.ID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":  true,
			"pipeline": pipelineJSON(p),
		})
	}

	fmt.Printf("✓ Pipeline '%s' created successfully (ID: %d)\n", p.Name, p.ID)
	return nil
}
