package tag

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
)

// DeleteCmd returns the tag delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a tag and remove it from every ticket",
		RunE:  runDelete,
	}

	cmd.Flags().Int("id", 0, "Tag ID (required)")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tagID, _ := cmd.Flags().GetInt("id")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	if !cli.ConfirmDelete(cmd, formatter, fmt.Sprintf("tag %d", tagID)) {
		fmt.Println("Cancelled")
		return nil
	}

	if err := cliInstance.App.TagService.DeleteTag(ctx, cliInstance.App.Session, tagID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"tag_id":  tagID,
		})
	}

	fmt.Printf("✓ Tag %d deleted successfully\n", tagID)
	return nil
}
