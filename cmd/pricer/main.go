package main

import (
	"fmt"
	"os"

	"options-pricer/internal/cli"
	"options-pricer/internal/logging"
)

func main() {
	root := cli.NewRootCmd(nil, logging.NewLogger())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
