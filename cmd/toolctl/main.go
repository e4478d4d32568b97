package main

import (
	"os"

	"github.com/toolbench/toolbench/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
