package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpadapter "github.com/aretw0/mosaic/pkg/adapters/http"
	"github.com/aretw0/mosaic/pkg/observability"
	"github.com/aretw0/mosaic/pkg/session"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the workspace HTTP server",
	Long: `Serves workspaces over a JSON API. Clients apply actions with
POST /workspaces/{id}/actions and follow changes with the Server-Sent Events
stream at GET /workspaces/{id}/events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("cors") {
			cfg.Server.CORS, _ = cmd.Flags().GetBool("cors")
		}
		logger, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		back, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer back.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		engine := newEngine(cfg, logger, observability.Chain(metrics.Hooks(), observability.LogHooks(logger)))
		streams := httpadapter.NewStreamManager(logger)

		opts := append(back.options,
			session.WithLogger(logger),
			session.WithChangeListener(streams.Listener()),
			session.WithDeleteListener(func(_ context.Context, id string) { metrics.Forget(id) }),
		)
		manager := session.NewManager(back.store, engine, opts...)

		handlerOpts := []httpadapter.Option{
			httpadapter.WithStreams(streams),
			httpadapter.WithLogger(logger),
		}
		if cfg.Server.Metrics {
			handlerOpts = append(handlerOpts, httpadapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		}
		if cfg.Server.CORS {
			handlerOpts = append(handlerOpts, httpadapter.WithCORS())
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           httpadapter.NewHandler(manager, handlerOpts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting Mosaic Server", "address", srv.Addr, "store", cfg.Store.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			// Event streams never finish on their own, so Close is expected here.
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Mosaic Server stopped")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides server.port)")
	serveCmd.Flags().Bool("cors", false, "Allow cross-origin requests (overrides server.cors)")
}
