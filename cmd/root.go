// Package cmd wires the plura command tree
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli/activity"
	"github.com/thenoetrevino/plura/internal/cli/contact"
	"github.com/thenoetrevino/plura/internal/cli/lane"
	"github.com/thenoetrevino/plura/internal/cli/pipeline"
	"github.com/thenoetrevino/plura/internal/cli/tag"
	"github.com/thenoetrevino/plura/internal/cli/ticket"
)

// NewRootCmd builds the plura command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plura",
		Short: "Plura - pipeline boards for agencies and their sub-accounts",
		Long: `Plura manages the deal pipelines of a sub-account: lanes, tickets and tags.

Run 'plura board' for the interactive board, or use the subcommands to script
changes. Every subcommand accepts --json and --quiet for machine output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(BoardCmd())
	rootCmd.AddCommand(pipeline.PipelineCmd())
	rootCmd.AddCommand(lane.LaneCmd())
	rootCmd.AddCommand(ticket.TicketCmd())
	rootCmd.AddCommand(tag.TagCmd())
	rootCmd.AddCommand(contact.ContactCmd())
	rootCmd.AddCommand(activity.ActivityCmd())

	return rootCmd
}

// Execute runs the command tree
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
