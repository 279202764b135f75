package ticket

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	ticketservice "github.com/thenoetrevino/plura/internal/services/ticket"
)

var errNothingToUpdate = errors.New("at least one of --title, --description, --value, --assignee, --unassign, --customer or --clear-customer must be given")

// UpdateCmd returns the ticket update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update ticket fields",
		Long: `Update the given fields of a ticket. Position and lane are changed with 'ticket move'.

Examples:
  plura ticket update --id=7 --value=3000
  plura ticket update --id=7 --title="Acme (renewal)" --unassign
  plura ticket update --id=7 --customer=2
`,
		RunE: runUpdate,
	}

	cmd.Flags().Int("id", 0, "Ticket ID (required)")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description (markdown)")
	cmd.Flags().Float64("value", 0, "New deal value")
	cmd.Flags().String("assignee", "", "New assignee user ID")
	cmd.Flags().Bool("unassign", false, "Remove the assignee")
	cmd.Flags().Int("customer", 0, "New customer contact ID")
	cmd.Flags().Bool("clear-customer", false, "Remove the customer")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ticketID, _ := cmd.Flags().GetInt("id")
	formatter := cli.Formatter(cmd)

	req := ticketservice.UpdateTicketRequest{TicketID: ticketID}
	flags := cmd.Flags()
	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		req.Title = &title
	}
	if flags.Changed("description") {
		description, _ := flags.GetString("description")
		req.Description = &description
	}
	if flags.Changed("value") {
		value, _ := flags.GetFloat64("value")
		req.Value = &value
	}
	if flags.Changed("assignee") {
		assignee, _ := flags.GetString("assignee")
		req.AssigneeID = &assignee
	}
	req.Unassign, _ = flags.GetBool("unassign")
	if flags.Changed("customer") {
		customer, _ := flags.GetInt("customer")
		req.CustomerID = &customer
	}
	req.ClearCustomer, _ = flags.GetBool("clear-customer")

	if req.Title == nil && req.Description == nil && req.Value == nil && req.AssigneeID == nil && !req.Unassign &&
		req.CustomerID == nil && !req.ClearCustomer {
		if fmtErr := formatter.Error("NO_UPDATES", errNothingToUpdate.Error()); fmtErr != nil {
			return fmtErr
		}
		return &cli.CodedError{Code: cli.ExitUsage, Err: errNothingToUpdate}
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	sess := cliInstance.App.Session
	if err := cliInstance.App.TicketService.UpdateTicket(ctx, sess, req); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", ticketID)
		return nil
	}

	if formatter.JSON {
		t, err := cliInstance.App.TicketService.GetTicketByID(ctx, sess, ticketID)
		if err != nil {
			return formatter.Fail(err)
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"ticket":  ticketJSON(t),
		})
	}

	fmt.Printf("✓ Ticket %d updated successfully\n", ticketID)
	return nil
}
