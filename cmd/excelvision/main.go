// Package main provides the CLI entry point for the Excel Vision client.
package main

import (
	"fmt"
	"os"

	"github.com/excelvision/excelvision/internal/cli"
)

func main() {
	statePath, err := cli.DefaultStatePath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := cli.NewRootCmd(cli.NewStateStore(statePath))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
