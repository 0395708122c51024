package main

import (
	"context"
	"os"
	"os/signal"

	"nidgate/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli.Version = version
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
