package main

import (
	"fmt"
	"os"

	"taskboard/internal/cli"
	"taskboard/internal/config"
)

func main() {
	root := cli.NewRootCommand(config.NewLoader())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cli.NewErrorHandler().HandleSimple(err))
		os.Exit(1)
	}
}
