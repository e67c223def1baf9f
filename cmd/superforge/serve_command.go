package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"superforge/internal/config"
	"superforge/internal/content"
	"superforge/internal/httpapi"
	"superforge/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return ctx.withStore(func(cfg *config.Config, store *content.Store) error {
				if bind != "" {
					cfg.Paths.APIBind = bind
				}
				if err := store.EnsureBooks(signalCtx); err != nil {
					return err
				}
				srv, err := httpapi.New(cfg, store, logger)
				if err != nil {
					return err
				}
				if err := srv.Start(signalCtx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", srv.Addr())

				<-signalCtx.Done()
				logger.Info("http api shutting down", logging.String("address", srv.Addr()))
				srv.Stop()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default paths.api_bind)")
	return cmd
}
