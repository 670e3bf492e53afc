package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/worklog-dashboard/internal/logging"
	"github.com/nhle/worklog-dashboard/internal/server"
)

var (
	serveAddr     string
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard as a JSON API for the browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(cfg.Log, os.Stderr)

		svc, closeFn, err := openService(log)
		if err != nil {
			return err
		}
		defer closeFn()

		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		srv := server.New(server.Config{
			Addr:     addr,
			Sprint:   sprint(),
			AllowAll: serveAllowAll,
		}, svc, log.With().Str("component", "server").Logger())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			log.Info().Msg("shutting down server")
			srv.Shutdown(context.Background())
		}()

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "cors-allow-all", false, "allow any CORS origin")
	rootCmd.AddCommand(serveCmd)
}
