package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/launcher"
)

// BoardCmd returns the command that opens the interactive board
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive pipeline board",
		Long: `Open a pipeline as an interactive board. Without --pipeline the first
pipeline of the sub-account is opened, creating one when there is none.

Keys (defaults, configurable in config.yaml):
  h/l, j/k     move the cursor between lanes and tickets
  space        pick up a ticket, g picks up a lane
  enter / esc  drop / cancel the picked up item
  H/L, K/J     move the selected ticket one step
  r            reload the board
  ?            toggle help`,
		RunE: runBoard,
	}

	cmd.Flags().Int("pipeline", 0, "Pipeline ID")
	cmd.Flags().String("subaccount", "", "Sub-account (defaults to the configured one)")

	return cmd
}

func runBoard(cmd *cobra.Command, args []string) error {
	pipelineID, _ := cmd.Flags().GetInt("pipeline")
	subAccount, _ := cmd.Flags().GetString("subaccount")
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	err = launcher.Launch(cmd.Context(), cliInstance.App, cliInstance.Config, pipelineID, cliInstance.SubAccount(subAccount))
	if err != nil {
		return formatter.Fail(err)
	}
	return nil
}
