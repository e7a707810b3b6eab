package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Defacto2/unarchive/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Run(ctx, os.Args)
	stop()
	os.Exit(cli.ExitCode(err))
}
