// Package ticket holds all cli commands related to tickets
//
// e.g., plura ticket ...
package ticket

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/models"
)

// TicketCmd returns the ticket parent command
func TicketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Manage tickets (deals)",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(TagCmd())
	cmd.AddCommand(UntagCmd())

	return cmd
}

func ticketJSON(t *models.Ticket) map[string]any {
	tags := make([]map[string]any, len(t.Tags))
	for i, tag := range t.Tags {
		tags[i] = map[string]any{"id": tag.ID, "name": tag.Name, "color": tag.Color}
	}
	var customer map[string]any
	if t.Customer != nil {
		customer = map[string]any{"id": t.Customer.ID, "name": t.Customer.Name, "email": t.Customer.Email}
	}
	return map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"value":       t.Value,
		"lane_id":     t.LaneID,
		"order":       t.Order,
		"assignee":    t.AssigneeID,
		"customer":    customer,
		"tags":        tags,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}
}
