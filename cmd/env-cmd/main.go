package main

import (
	"context"
	"os"

	"github.com/KilianKilmister/env-cmd/internal/cli"
)

func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], cli.Config{
		Streams: cli.Streams{
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		},
	}))
}
