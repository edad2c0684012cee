package main

import (
	"github.com/spf13/cobra"

	"github.com/htoml-dev/htoml/internal/dev"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		port     int
		host     string
		noReload bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Start the development server",
		Long: `Serve a directory of documents, compiling them on request.

  /            serves index.toml
  /a/b.html    serves a/b.toml
  /a/b         serves a/b.toml

Other files are served as they are. Connected browsers reload when a
document changes and show an overlay when it fails to compile.
Prometheus metrics are exposed at /metrics.

Examples:
  htoml serve
  htoml serve site --port=8080
  htoml serve --host=0.0.0.0 --no-reload`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				cfg.Serve.Root = args[0]
			}
			if port > 0 {
				cfg.Serve.Port = port
			}
			if host != "" {
				cfg.Serve.Host = host
			}
			if noReload {
				cfg.SetHotReload(false)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			server, err := dev.NewServer(dev.ServerOptions{
				Config: cfg,
				Logger: a.logger,
				OnReload: func(clients int) {
					a.success("Reloaded %d browsers", clients)
				},
			})
			if err != nil {
				return err
			}

			a.printBanner()
			a.info("Serving %s", cfg.RootPath())
			a.info("Local: %s", cfg.ServeURL())
			if !cfg.HotReloadEnabled() {
				a.warn("Hot reload disabled")
			}

			return server.Start(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from htoml.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from htoml.json)")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Disable browser hot reload")

	return cmd
}
