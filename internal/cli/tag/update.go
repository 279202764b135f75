package tag

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	tagservice "github.com/thenoetrevino/plura/internal/services/tag"
)

var errNothingToUpdate = errors.New("at least one of --name or --color must be given")

// UpdateCmd returns the tag update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rename or recolor a tag",
		RunE:  runUpdate,
	}

	cmd.Flags().Int("id", 0, "Tag ID (required)")
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("color", "", "New hex color")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tagID, _ := cmd.Flags().GetInt("id")
	formatter := cli.Formatter(cmd)

	req := tagservice.UpdateTagRequest{ID: tagID}
	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.Name = &name
	}
	if cmd.Flags().Changed("color") {
		color, _ := cmd.Flags().GetString("color")
		req.Color = &color
	}
	if req.Name == nil && req.Color == nil {
		if fmtErr := formatter.Error("NO_UPDATES", errNothingToUpdate.Error()); fmtErr != nil {
			return fmtErr
		}
		return &cli.CodedError{Code: cli.ExitUsage, Err: errNothingToUpdate}
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	if err := cliInstance.App.TagService.UpdateTag(ctx, cliInstance.App.Session, req); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", tagID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"tag_id":  tagID,
		})
	}

	fmt.Printf("✓ Tag %d updated successfully\n", tagID)
	return nil
}
