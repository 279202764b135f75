package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	contactservice "github.com/thenoetrevino/plura/internal/services/contact"
)

var errNothingToUpdate = errors.New("at least one of --name or --email must be given")

// UpdateCmd returns the contact update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rename a contact or change its email",
		Long: `Update a contact. Boards showing it as a ticket customer pick up the change.

Examples:
  plura contact update --id=2 --email=ceo@acme.test
  plura contact update --id=2 --email=""   # clear the email
`,
		RunE: runUpdate,
	}

	cmd.Flags().Int("id", 0, "Contact ID (required)")
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("email", "", "New email address")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	contactID, _ := cmd.Flags().GetInt("id")
	formatter := cli.Formatter(cmd)

	req := contactservice.UpdateContactRequest{ID: contactID}
	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.Name = &name
	}
	if cmd.Flags().Changed("email") {
		email, _ := cmd.Flags().GetString("email")
		req.Email = &email
	}
	if req.Name == nil && req.Email == nil {
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

	if err := cliInstance.App.ContactService.UpdateContact(ctx, cliInstance.App.Session, req); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Printf("%d\n", contactID)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":    true,
			"contact_id": contactID,
		})
	}

	fmt.Printf("✓ Contact %d updated successfully\n", contactID)
	return nil
}
