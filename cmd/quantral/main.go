// Package main provides the quantral command-line interface.
package main

import (
	"os"

	"github.com/quantral/quantral/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
