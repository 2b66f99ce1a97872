package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"isiprint/internal/cli"
)

// shutdownSignals cancel the command context so the shell and log follow
// return cleanly and the host connection is closed.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
