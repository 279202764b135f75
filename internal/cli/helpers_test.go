package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{1250, "$1,250.00"},
		{1234567.891, "$1,234,567.89"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	got := FormatAge(time.Now().Add(-3 * time.Hour))
	if got != "3 hours ago" {
		t.Errorf("Expected '3 hours ago', got %q", got)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		if got := Confirm(strings.NewReader(tt.input), "Delete?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestConfirmDelete_SkipsPrompt(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "delete"}
		cmd.Flags().Bool("force", false, "")
		cmd.SetIn(strings.NewReader("n\n"))
		return cmd
	}

	forced := newCmd()
	if err := forced.Flags().Set("force", "true"); err != nil {
		t.Fatal(err)
	}
	if !ConfirmDelete(forced, &OutputFormatter{}, "lane") {
		t.Error("--force should skip the prompt")
	}
	if !ConfirmDelete(newCmd(), &OutputFormatter{JSON: true}, "lane") {
		t.Error("--json should skip the prompt")
	}
	if ConfirmDelete(newCmd(), &OutputFormatter{}, "lane") {
		t.Error("answering n should cancel")
	}
}
