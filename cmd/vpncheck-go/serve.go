package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/August26/vpncheck-go/internal/config"
	"github.com/August26/vpncheck-go/internal/server"
)

const shutdownTimeout = 10 * time.Second

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.RequireSecret(cfg); err != nil {
			return err
		}
		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		comps, err := buildComponents(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer comps.Close()

		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           server.New(comps.orchestrator, cfg.APIKey, log).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting vpncheck-go",
				"addr", cfg.ListenAddr,
				"llm_provider", cfg.LLM.Provider,
				"llm_model", cfg.LLM.Model,
			)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default from config, :8000)")
}
