package main

import (
	"github.com/spf13/cobra"

	"research-agent/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the streaming HTTP API",
	Long: `serve starts an HTTP server exposing the agent: /api/stream answers a
question over server-sent events, /api/ws over a websocket. Both emit the
answer in fixed-size chunks followed by a done payload with the full
result. /metrics serves Prometheus metrics and /healthz a liveness probe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		addr, _ := cmd.Flags().GetString("addr")
		return server.New(app.Agent).ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
