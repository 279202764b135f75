package ticket

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	ticketservice "github.com/thenoetrevino/plura/internal/services/ticket"
)

// CreateCmd returns the ticket create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ticket at the bottom of a lane",
		Long: `Create a new ticket. It is appended after the last ticket of the lane.

Examples:
  plura ticket create --lane=3 --title="Acme renewal" --value=1250

  # With description, assignee, customer and tags
  plura ticket create --lane=3 --title="Globex" \
    --description="Call back on **Monday**" --assignee=user-42 --customer=2 --tag=1 --tag=4

  TICKET_ID=$(plura ticket create --lane=3 --title="Initech" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().Int("lane", 0, "Lane ID (required)")
	cmd.Flags().String("title", "", "Ticket title (required)")
	cmd.Flags().String("description", "", "Ticket description (markdown)")
	cmd.Flags().Float64("value", 0, "Deal value")
	cmd.Flags().String("assignee", "", "Assignee user ID")
	cmd.Flags().Int("customer", 0, "Customer contact ID")
	cmd.Flags().IntSlice("tag", nil, "Tag ID to attach (repeatable)")
	cli.MarkRequired(cmd, "lane", "title")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	laneID, _ := cmd.Flags().GetInt("lane")
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	value, _ := cmd.Flags().GetFloat64("value")
	assignee, _ := cmd.Flags().GetString("assignee")
	tagIDs, _ := cmd.Flags().GetIntSlice("tag")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	req := ticketservice.CreateTicketRequest{
		LaneID:      laneID,
		Title:       title,
		Description: description,
		Value:       value,
		TagIDs:      tagIDs,
	}
	if assignee != "" {
		req.AssigneeID = &assignee
	}
	if cmd.Flags().Changed("customer") {
		customer, _ := cmd.Flags().GetInt("customer")
		req.CustomerID = &customer
	}

	t, err := cliInstance.App.TicketService.CreateTicket(ctx, cliInstance.App.Session, req)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", t.GetID())
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"ticket":  ticketJSON(t),
		})
	}

	fmt.Printf("✓ Ticket '%s' created successfully (ID: %d, %s)\n", t.Title, t.ID, cli.FormatValue(t.Value))
	return nil
}
