package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"meet-transcript/pkg/db"
	"meet-transcript/pkg/logging"
	"meet-transcript/pkg/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload API",
		Long: `Serve starts the HTTP API:

  POST /process          multipart field "file"; returns {"result": "..."}
  GET  /transcripts/{id} archived record, when a store is configured
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				opts.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := db.Open(ctx, opts.cfg.Store)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			log := logging.NewLogger("serve")
			if store != nil {
				defer closeStore(context.Background(), store, log)
			}

			log.WithField("backend", opts.cfg.Store.Backend).Info("Starting server")
			return server.New(opts.cfg.Server, store).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "Listen address")
	return cmd
}
