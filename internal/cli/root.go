// Package cli implements the toolctl command tree: a generic client that can
// discover, describe, and run any tool the server registers, with no
// tool-specific code.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/toolbench/toolbench/internal/client"
	"github.com/toolbench/toolbench/internal/config"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:     "toolctl",
	Short:   "Generic client for a toolbench server",
	Long:    "toolctl discovers tools from a toolbench server, renders their input schemas as flags, and runs them without tool-specific code.",
	Version: config.GetVersion(),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:4310", "toolbench server URL")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(runCmd)
}

// newClient builds a client for the configured server.
func newClient() *client.Client {
	return client.New(serverURL)
}

// Execute runs the root command and returns an error; exit code is set by RunE.
func Execute() error {
	return rootCmd.Execute()
}
