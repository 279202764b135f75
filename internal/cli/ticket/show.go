package ticket

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/cli/styles"
	"github.com/thenoetrevino/plura/internal/models"
)

// ShowCmd returns the ticket show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show ticket details",
		RunE:  runShow,
	}

	cmd.Flags().Int("id", 0, "Ticket ID (required)")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
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

	if formatter.Quiet {
		fmt.Printf("%d\n", t.ID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"ticket":  ticketJSON(t),
		})
	}

	laneName := fmt.Sprintf("#%d", t.LaneID)
	if l, err := cliInstance.App.LaneService.GetLaneByID(ctx, sess, t.LaneID); err == nil {
		laneName = l.Name
	}

	fmt.Println(styles.RenderCard(renderTicket(t, laneName)))
	return nil
}

func renderTicket(t *models.Ticket, laneName string) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("#%d %s", t.ID, t.Title)))
	b.WriteString("\n\n")

	field := func(label, value string) {
		b.WriteString(styles.LabelStyle.Render(label))
		b.WriteString(" " + value + "\n")
	}
	field("Value:", styles.ValueStyle.Render(cli.FormatValue(t.Value)))
	field("Lane:", fmt.Sprintf("%s (position %d)", laneName, t.Order+1))
	assignee := "unassigned"
	if t.AssigneeID != nil {
		assignee = *t.AssigneeID
	}
	field("Assignee:", assignee)
	if t.Customer != nil {
		customer := t.Customer.Name
		if t.Customer.Email != "" {
			customer += " <" + t.Customer.Email + ">"
		}
		field("Customer:", customer)
	}
	field("Updated:", cli.FormatAge(t.UpdatedAt))

	if len(t.Tags) > 0 {
		b.WriteString("\n" + styles.SectionStyle.Render("Tags") + "\n")
		b.WriteString(styles.RenderTagChips(t.Tags) + "\n")
	}

	if strings.TrimSpace(t.Description) != "" {
		b.WriteString("\n" + styles.SectionStyle.Render("Description") + "\n")
		b.WriteString(renderDescription(t.Description))
	}

	return strings.TrimRight(b.String(), "\n")
}
