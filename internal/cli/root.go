// Package cli holds the bookie commands: the HTTP server, a terminal browser
// and a one-shot search.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookie/internal/config"
	"github.com/mrlokans/bookie/internal/entrypoint"
)

// NewRootCmd builds the bookie command tree. Running bookie without a
// subcommand starts the server.
func NewRootCmd(version string) *cobra.Command {
	serve := newServeCmd(version)

	cmd := &cobra.Command{
		Use:   "bookie",
		Short: "Book search and favorites backed by OpenLibrary",
		Long: `Bookie searches the OpenLibrary catalog and keeps a local list of
favorite books.

It runs as an HTTP API server or as an interactive terminal browser.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// newLocalApp builds the app for commands that run in the foreground. Those
// never process background tasks, so the queue and the cleanup job stay off.
func newLocalApp(cfg *config.Config) (*entrypoint.App, error) {
	cfg.Tasks.Enabled = false
	cfg.Covers.CleanupEnabled = false
	return entrypoint.NewApp(cfg)
}
