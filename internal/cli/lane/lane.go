// Package lane holds all cli commands related to lanes
//
// e.g., plura lane ...
package lane

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/models"
)

// LaneCmd returns the lane parent command
func LaneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lane",
		Short: "Manage pipeline lanes",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(MoveCmd())

	return cmd
}

func laneJSON(l *models.Lane) map[string]any {
	return map[string]any{
		"id":          l.ID,
		"name":        l.Name,
		"pipeline_id": l.PipelineID,
		"order":       l.Order,
		"version":     l.Version,
	}
}
