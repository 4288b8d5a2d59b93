package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/tododash/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:])
	stop()

	// Errors are already reported on stderr or in the JSON output.
	if err != nil && !errors.Is(err, context.Canceled) {
		os.Exit(1)
	}
}
