package tag

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/cli/styles"
)

// ListCmd returns the tag list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tags of a sub-account",
		RunE:  runList,
	}

	cmd.Flags().String("subaccount", "", "Sub-account to list (defaults to the configured one)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	subAccount, _ := cmd.Flags().GetString("subaccount")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	subAccountID := cliInstance.SubAccount(subAccount)
	tags, err := cliInstance.App.TagService.GetTagsBySubAccount(ctx, cliInstance.App.Session, subAccountID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, t := range tags {
			fmt.Printf("%d\n", t.ID)
		}
		return nil
	}

	if formatter.JSON {
		out := make([]map[string]any, len(tags))
		for i, t := range tags {
			out[i] = tagJSON(t)
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"tags":    out,
		})
	}

	if len(tags) == 0 {
		fmt.Printf("No tags in sub-account '%s'\n", subAccountID)
		return nil
	}

	fmt.Println(styles.TitleStyle.Render(fmt.Sprintf("Tags in %s", subAccountID)))
	for _, t := range tags {
		fmt.Printf("  %3d  %s %s\n", t.ID, styles.RenderTagChip(t), styles.SubtitleStyle.Render(t.Color))
	}
	return nil
}
