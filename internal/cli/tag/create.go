package tag

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/cli/styles"
	"github.com/thenoetrevino/plura/internal/models"
	tagservice "github.com/thenoetrevino/plura/internal/services/tag"
)

// CreateCmd returns the tag create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		Long: `Create a colored tag shared by every pipeline of a sub-account.

Examples:
  plura tag create --name=hot --color="#FF5F87"
`,
		RunE: runCreate,
	}

	cmd.Flags().String("name", "", "Tag name (required)")
	cmd.Flags().String("color", models.DefaultTagColor, "Hex color, e.g. #FF5F87")
	cmd.Flags().String("subaccount", "", "Sub-account that owns the tag (defaults to the configured one)")
	cli.MarkRequired(cmd, "name")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("name")
	color, _ := cmd.Flags().GetString("color")
	subAccount, _ := cmd.Flags().GetString("subaccount")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	t, err := cliInstance.App.TagService.CreateTag(ctx, cliInstance.App.Session, tagservice.CreateTagRequest{
		SubAccountID: cliInstance.SubAccount(subAccount),
		Name:         name,
		Color:        color,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", t.ID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"tag":     tagJSON(t),
		})
	}

	fmt.Printf("✓ Tag %s created successfully (ID: %d)\n", styles.RenderTagChip(t), t.ID)
	return nil
}
