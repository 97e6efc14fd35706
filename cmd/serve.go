package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lehigh-university-libraries/photolog/internal/captions"
	"github.com/lehigh-university-libraries/photolog/internal/export"
	"github.com/lehigh-university-libraries/photolog/internal/handlers"
	"github.com/lehigh-university-libraries/photolog/internal/images"
	"github.com/lehigh-university-libraries/photolog/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		provider string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the photo log web API",
		Long: `Starts the web API for collecting photos and descriptions into projects and
downloading them as PDF reports.

Projects are kept in memory and expire after 24 hours without edits.`,
		Example: `  # Start server on default address :8888
  photolog serve

  # Start server on custom address
  photolog serve --addr :3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = os.Getenv("PHOTOLOG_ADDR")
			}
			if addr == "" {
				addr = ":8888"
			}

			var captioner captions.Provider
			if provider != "none" {
				c, err := captions.New(provider)
				if err != nil {
					return err
				}
				captioner = c
			}

			handler := handlers.New(
				storage.New(),
				export.NewService(slog.Default()),
				images.NewProvider(),
				captioner,
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Photolog API available", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default $PHOTOLOG_ADDR, then :8888)")
	cmd.Flags().StringVar(&provider, "caption-provider", "", "Caption provider: gemini, ollama, openai or none (default $CAPTION_PROVIDER)")

	return cmd
}
