package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// AddOutputFlags registers the agent-friendly --json and --quiet flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

// Formatter builds the OutputFormatter selected by the command's flags
func Formatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
}

// MarkRequired marks flags as required, logging instead of failing when a
// flag name is wrong
func MarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			slog.Error("failed to mark flag as required", "flag", name, "error", err)
		}
	}
}

// Open resolves the CLI for a command, reporting initialization failures
// through the formatter. The caller must Close the returned CLI.
func Open(cmd *cobra.Command, formatter *OutputFormatter) (*CLI, error) {
	cliInstance, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		if fmtErr := formatter.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
			slog.Error("failed to format error message", "error", fmtErr)
		}
		return nil, &CodedError{Code: ExitError, Err: err}
	}
	return cliInstance, nil
}

// CloseCLI closes the CLI and logs a failure, for use in defer
func CloseCLI(cliInstance *CLI) {
	if err := cliInstance.Close(); err != nil {
		slog.Error("failed to close CLI", "error", err)
	}
}

// Confirm asks a yes/no question on stdin. Anything but y or yes is a no.
func Confirm(in io.Reader, prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		slog.Error("failed to read user input", "error", err)
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// ConfirmDelete asks for confirmation unless --force or machine output is
// set. A terminal gets an interactive prompt.
func ConfirmDelete(cmd *cobra.Command, formatter *OutputFormatter, what string) bool {
	force, _ := cmd.Flags().GetBool("force")
	if force || formatter.Quiet || formatter.JSON {
		return true
	}

	in := stdin(cmd)
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		var confirmed bool
		err := huh.NewConfirm().
			Title("Delete " + what + "?").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			slog.Error("failed to read confirmation", "error", err)
			return false
		}
		return confirmed
	}
	return Confirm(in, "Delete "+what+"?")
}

func stdin(cmd *cobra.Command) io.Reader {
	if in := cmd.InOrStdin(); in != nil {
		return in
	}
	return os.Stdin
}

// FormatValue renders a deal value as currency, e.g. $1,250.00
func FormatValue(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatAge renders a timestamp relative to now, e.g. "3 minutes ago"
func FormatAge(t time.Time) string {
	return humanize.Time(t)
}
