package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "myfuel",
		Usage: "Nearby fuel prices and EV chargers from the Spanish open data feeds",
		Commands: []*cli.Command{
			serveCommand(),
			botCommand(),
			syncCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
