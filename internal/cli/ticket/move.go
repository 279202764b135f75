package ticket

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
)

// MoveCmd returns the ticket move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a ticket within its lane or to another lane",
		Long: `Move a ticket to a zero-based position, optionally in another lane of the same pipeline.
Without --position the ticket goes to the bottom of the target lane.

Examples:
  # Move ticket 7 to the top of its lane
  plura ticket move --id=7 --position=0

  # Move ticket 7 into lane 4 at position 1
  plura ticket move --id=7 --lane=4 --position=1
`,
		RunE: runMove,
	}

	cmd.Flags().Int("id", 0, "Ticket ID (required)")
	cmd.Flags().Int("lane", 0, "Target lane ID (defaults to the ticket's lane)")
	cmd.Flags().Int("position", -1, "Target position, zero-based (defaults to the bottom)")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ticketID, _ := cmd.Flags().GetInt("id")
	laneID, _ := cmd.Flags().GetInt("lane")
	position, _ := cmd.Flags().GetInt("position")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	st, err := cliInstance.App.MoveTicket(ctx, ticketID, laneID, position)
	if err != nil {
		return formatter.Fail(err)
	}

	t, lane := st.Confirmed().FindTicket(ticketID)
	if t == nil {
		return formatter.Fail(fmt.Errorf("ticket %d vanished after move", ticketID))
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", ticketID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":      true,
			"ticket_id":    ticketID,
			"lane_id":      lane.ID,
			"position":     t.Order,
			"lane_version": lane.Version,
		})
	}

	fmt.Printf("✓ Ticket '%s' moved to '%s' at position %d\n", t.Title, lane.Name, t.Order)
	return nil
}
