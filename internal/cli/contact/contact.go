// Package contact holds all cli commands related to customer contacts
//
// e.g., plura contact ...
package contact

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/models"
)

// ContactCmd returns the contact parent command
func ContactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage sub-account contacts (ticket customers)",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

func contactJSON(c *models.Contact) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"email":      c.Email,
		"subaccount": c.SubAccountID,
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
}
