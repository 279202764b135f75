package contact

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	contactservice "github.com/thenoetrevino/plura/internal/services/contact"
)

// CreateCmd returns the contact create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact",
		Long: `Create a contact that tickets of the sub-account can name as their customer.

Examples:
  plura contact create --name="Acme Corp" --email=buyer@acme.test

  CONTACT_ID=$(plura contact create --name=Globex --quiet)
  plura ticket create --lane=3 --title="Globex renewal" --customer=$CONTACT_ID
`,
		RunE: runCreate,
	}

	cmd.Flags().String("name", "", "Contact name (required)")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("subaccount", "", "Sub-account that owns the contact (defaults to the configured one)")
	cli.MarkRequired(cmd, "name")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	subAccount, _ := cmd.Flags().GetString("subaccount")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	c, err := cliInstance.App.ContactService.CreateContact(ctx, cliInstance.App.Session, contactservice.CreateContactRequest{
		SubAccountID: cliInstance.SubAccount(subAccount),
		Name:         name,
		Email:        email,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", c.GetID())
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"contact": contactJSON(c),
		})
	}

	fmt.Printf("✓ Contact '%s' created successfully (ID: %d)\n", c.Name, c.ID)
	return nil
}
