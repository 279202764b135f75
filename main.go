package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/plura/cmd"
	"github.com/thenoetrevino/plura/internal/cli"
	"github.com/thenoetrevino/plura/internal/config"
	"github.com/thenoetrevino/plura/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level := ""
	if cfg, err := config.Load(); err == nil {
		level = cfg.LogLevel
	}
	if err := logging.Init(level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	err := cmd.Execute(ctx)
	if err != nil {
		// Coded errors were already reported by the command
		var coded *cli.CodedError
		if !errors.As(err, &coded) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	cancel()
	os.Exit(cli.ExitCode(err))
}
