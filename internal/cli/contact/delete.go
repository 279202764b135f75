package contact

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
)

// DeleteCmd returns the contact delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a contact. Its tickets are kept without a customer.",
		RunE:  runDelete,
	}

	cmd.Flags().Int("id", 0, "Contact ID (required)")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.MarkRequired(cmd, "id")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	contactID, _ := cmd.Flags().GetInt("id")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	if !cli.ConfirmDelete(cmd, formatter, fmt.Sprintf("contact %d", contactID)) {
		fmt.Println("Cancelled")
		return nil
	}

	if err := cliInstance.App.ContactService.DeleteContact(ctx, cliInstance.App.Session, contactID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":    true,
			"contact_id": contactID,
		})
	}

	fmt.Printf("✓ Contact %d deleted successfully\n", contactID)
	return nil
}
