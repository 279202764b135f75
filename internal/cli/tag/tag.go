// Package tag holds all cli commands related to tags
//
// e.g., plura tag ...
package tag

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/models"
)

// TagCmd returns the tag parent command
func TagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage sub-account tags",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

func tagJSON(t *models.Tag) map[string]any {
	return map[string]any{
		"id":         t.ID,
		"name":       t.Name,
		"color":      t.Color,
		"subaccount": t.SubAccountID,
	}
}
