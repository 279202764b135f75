package contact

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/cli/styles"
)

// ListCmd returns the contact list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the contacts of a sub-account",
		RunE:  runList,
	}

	cmd.Flags().String("subaccount", "", "Sub-account to list (defaults to the configured one)")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	subAccount, _ := cmd.Flags().GetString("subaccount")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	subAccountID := cliInstance.SubAccount(subAccount)
	contacts, err := cliInstance.App.ContactService.GetContactsBySubAccount(ctx, cliInstance.App.Session, subAccountID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, c := range contacts {
			fmt.Printf("%d\n", c.ID)
		}
		return nil
	}

	if formatter.JSON {
		out := make([]map[string]any, len(contacts))
		for i, c := range contacts {
			out[i] = contactJSON(c)
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":  true,
			"contacts": out,
		})
	}

	if len(contacts) == 0 {
		fmt.Printf("No contacts in sub-account '%s'\n", subAccountID)
		return nil
	}

	fmt.Println(styles.TitleStyle.Render(fmt.Sprintf("Contacts in %s", subAccountID)))
	for _, c := range contacts {
		fmt.Printf("  %3d  %s %s\n", c.ID, c.Name, styles.SubtitleStyle.Render(c.Email))
	}
	return nil
}
