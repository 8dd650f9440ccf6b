package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookie/internal/config"
	"github.com/mrlokans/bookie/internal/entrypoint"
)

func newServeCmd(version string) *cobra.Command {
	var port int32

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Starts the Bookie HTTP API.

Configuration is read from the environment (and a .env file in the working
directory). The server shuts down gracefully on Ctrl+C.`,
		Example: `  # Start server on the configured port (default 8188)
  bookie serve

  # Start server on custom port
  bookie serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			if cmd.Flags().Changed("port") {
				cfg.HTTP.Port = port
			}
			return entrypoint.Run(cmd.Context(), cfg, version)
		},
	}

	cmd.Flags().Int32VarP(&port, "port", "p", 0, "Port to listen on (overrides PORT)")

	return cmd
}
