package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/cli/styles"
	"github.com/thenoetrevino/plura/internal/models"
)

// ShowCmd returns the pipeline show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a pipeline board",
		Long:  "Display every lane of a pipeline with its tickets in board order.",
		RunE:  runShow,
	}

	cmd.Flags().Int("id", 0, "Pipeline ID (required)")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pipelineID, _ := cmd.Flags().GetInt("id")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	st, err := cliInstance.App.OpenBoard(ctx, pipelineID)
	if err != nil {
		return formatter.Fail(err)
	}
	snap := st.Confirmed()

	if formatter.Quiet {
		fmt.Printf("%d\n", snap.Pipeline.ID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"board":   BoardJSON(snap),
		})
	}

	fmt.Println(RenderBoard(snap))
	return nil
}

// BoardJSON converts a snapshot into the JSON shape shared by show and move
func BoardJSON(snap *models.BoardSnapshot) map[string]any {
	lanes := make([]map[string]any, len(snap.Lanes))
	for i, l := range snap.Lanes {
		tickets := make([]map[string]any, len(l.Tickets))
		for j, t := range l.Tickets {
			tags := make([]string, len(t.Tags))
			for k, tag := range t.Tags {
				tags[k] = tag.Name
			}
			var customer *string
			if t.Customer != nil {
				customer = &t.Customer.Name
			}
			tickets[j] = map[string]any{
				"id":       t.ID,
				"title":    t.Title,
				"value":    t.Value,
				"order":    t.Order,
				"assignee": t.AssigneeID,
				"customer": customer,
				"tags":     tags,
			}
		}
		lanes[i] = map[string]any{
			"id":      l.ID,
			"name":    l.Name,
			"order":   l.Order,
			"version": l.Version,
			"tickets": tickets,
		}
	}
	return map[string]any{
		"pipeline": pipelineJSON(&snap.Pipeline),
		"lanes":    lanes,
	}
}

// RenderBoard draws the lanes of a snapshot side by side
func RenderBoard(snap *models.BoardSnapshot) string {
	header := styles.TitleStyle.Render(fmt.Sprintf("%s (#%d)", snap.Pipeline.Name, snap.Pipeline.ID))
	if len(snap.Lanes) == 0 {
		return header + "\n" + styles.SubtitleStyle.Render("No lanes yet")
	}

	lanes := make([]string, len(snap.Lanes))
	for i, l := range snap.Lanes {
		lanes[i] = renderLane(l)
	}
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, lanes...)
}

func renderLane(l *models.Lane) string {
	var total float64
	for _, t := range l.Tickets {
		total += t.Value
	}

	var b strings.Builder
	b.WriteString(styles.LaneHeaderStyle.Render(fmt.Sprintf("%s (%d)", l.Name, len(l.Tickets))))
	b.WriteString("\n")
	b.WriteString(styles.ValueStyle.Render(cli.FormatValue(total)))

	if len(l.Tickets) == 0 {
		b.WriteString("\n" + styles.SubtitleStyle.Render("No tickets"))
	}
	for _, t := range l.Tickets {
		body := fmt.Sprintf("#%d %s\n%s", t.ID, t.Title, styles.ValueStyle.Render(cli.FormatValue(t.Value)))
		if t.Customer != nil {
			body += "\n" + styles.SubtitleStyle.Render(t.Customer.Name)
		}
		if len(t.Tags) > 0 {
			body += "\n" + styles.RenderTagChips(t.Tags)
		}
		b.WriteString("\n" + styles.TicketStyle.Render(body))
	}
	return styles.LaneStyle.Render(b.String())
}
