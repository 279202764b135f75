package ticket

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
)

// TagCmd returns the ticket tag subcommand
func TagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Attach a tag to a ticket",
		RunE:  func(cmd *cobra.Command, args []string) error { return runTagging(cmd, true) },
	}
	addTaggingFlags(cmd)
	return cmd
}

// UntagCmd returns the ticket untag subcommand
func UntagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "untag",
		Short: "Detach a tag from a ticket",
		RunE:  func(cmd *cobra.Command, args []string) error { return runTagging(cmd, false) },
	}
	addTaggingFlags(cmd)
	return cmd
}

func addTaggingFlags(cmd *cobra.Command) {
	cmd.Flags().Int("id", 0, "Ticket ID (required)")
	cmd.Flags().Int("tag", 0, "Tag ID (required)")
	cli.MarkRequired(cmd, "id", "tag")
	cli.AddOutputFlags(cmd)
}

func runTagging(cmd *cobra.Command, attach bool) error {
	ctx := cmd.Context()

	ticketID, _ := cmd.Flags().GetInt("id")
	tagID, _ := cmd.Flags().GetInt("tag")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	sess := cliInstance.App.Session
	svc := cliInstance.App.TicketService
	verb := "attached to"
	if attach {
		err = svc.AttachTag(ctx, sess, ticketID, tagID)
	} else {
		err = svc.DetachTag(ctx, sess, ticketID, tagID)
		verb = "detached from"
	}
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", ticketID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":   true,
			"ticket_id": ticketID,
			"tag_id":    tagID,
			"attached":  attach,
		})
	}

	fmt.Printf("✓ Tag %d %s ticket %d\n", tagID, verb, ticketID)
	return nil
}
