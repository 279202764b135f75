package ticket

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
)

// DeleteCmd returns the ticket delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a ticket",
		RunE:  runDelete,
	}

	cmd.Flags().Int("id", 0, "Ticket ID (required)")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ticketID, _ := cmd.Flags().GetInt("id")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	sess := cliInstance.App.Session
	t, err := cliInstance.App.TicketService.GetTicketByID(ctx, sess, ticketID)
	if err != nil {
		return formatter.Fail(err)
	}

	if !cli.ConfirmDelete(cmd, formatter, fmt.Sprintf("ticket #%d '%s'", t.ID, t.Title)) {
		fmt.Println("Cancelled")
		return nil
	}

	if err := cliInstance.App.TicketService.DeleteTicket(ctx, sess, ticketID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":   true,
			"ticket_id": ticketID,
		})
	}

	fmt.Printf("✓ Ticket '%s' deleted successfully\n", t.Title)
	return nil
}
