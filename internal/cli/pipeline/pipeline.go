// Package pipeline holds all cli commands related to pipelines
//
// e.g., plura pipeline ...
package pipeline

import (
	"github.com/spf13/cobra"
)

// PipelineCmd returns the pipeline parent command
func PipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Manage pipelines",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}
