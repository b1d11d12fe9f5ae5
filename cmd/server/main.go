package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Event gallery API server",
	Long: `Event gallery API server: events with typed categories and image galleries.

Configuration is read from the environment, optionally seeded from a .env file.

Examples:
  server              # same as "server serve"
  server serve        # start the HTTP server and thumbnail worker
  server init-db      # create tables and seed event types, then exit`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
