package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/cli/styles"
	"github.com/thenoetrevino/plura/internal/models"
)

// ListCmd returns the pipeline list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pipelines of a sub-account",
		RunE:  runList,
	}

	cmd.Flags().String("subaccount", "", "Sub-account to list (defaults to the configured one)")
	cmd.Flags().Bool("ensure-default", false, "Create the default pipeline when the sub-account has none")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	subAccount, _ := cmd.Flags().GetString("subaccount")
	ensureDefault, _ := cmd.Flags().GetBool("ensure-default")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	sess := cliInstance.App.Session
	subAccountID := cliInstance.SubAccount(subAccount)

	if ensureDefault {
		if _, err := cliInstance.App.PipelineService.EnsureDefault(ctx, sess, subAccountID); err != nil {
			return formatter.Fail(err)
		}
	}

	pipelines, err := cliInstance.App.PipelineService.GetPipelines(ctx, sess, subAccountID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, p := range pipelines {
			fmt.Printf("%d\n", p.ID)
		}
		return nil
	}

	if formatter.JSON {
		out := make([]map[string]any, len(pipelines))
		for i, p := range pipelines {
			out[i] = pipelineJSON(p)
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":   true,
			"pipelines": out,
		})
	}

	if len(pipelines) == 0 {
		fmt.Printf("No pipelines in sub-account '%s'\n", subAccountID)
		return nil
	}

	fmt.Println(styles.TitleStyle.Render(fmt.Sprintf("Pipelines in %s", subAccountID)))
	for _, p := range pipelines {
		fmt.Printf("  %3d  %s %s\n", p.ID, p.Name,
			styles.SubtitleStyle.Render("updated "+cli.FormatAge(p.UpdatedAt)))
	}
	return nil
}

func pipelineJSON(p *models.Pipeline) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"name":       p.Name,
		"subaccount": p.SubAccountID,
		"version":    p.Version,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}
