package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/wardrobe-labs/stylematch/internal/catalog"
	"github.com/wardrobe-labs/stylematch/internal/config"
	"github.com/wardrobe-labs/stylematch/internal/handlers"
	"github.com/wardrobe-labs/stylematch/internal/matching"
	"github.com/wardrobe-labs/stylematch/internal/providers"
	"github.com/wardrobe-labs/stylematch/internal/storage"
)

func newServeCmd() *cobra.Command {
	var port string
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog matching web server",
		Long: `Starts the Stylematch chat interface on the specified port.

Users upload a photo (or type a description) and get back the top catalog
matches ranked by the configured vision-language model (Gemini, OpenAI or
Ollama).`,
		Example: `  # Start server on default port 8888
  stylematch serve

  # Start server on custom port with an explicit config file
  stylematch serve --port 3000 --config config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			provider, err := matching.NewProvider(cfg.Provider)
			if err != nil {
				return err
			}

			instruction, err := loadInstruction(cfg.PromptPath)
			if err != nil {
				return err
			}

			cat := catalog.New(cfg.CatalogDir, cfg.MetadataPath)
			matcher := matching.NewService(cat, provider, providers.Config{
				Model:       cfg.Model,
				Temperature: cfg.Temperature,
			}, instruction)
			sessions := storage.New(24 * time.Hour)
			handler := handlers.New(matcher, cat, sessions, cfg.Auth, cfg.StaticDir)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/chat", handler.HandleChat)
			mux.HandleFunc("/api/catalog", handler.HandleCatalog)
			mux.HandleFunc("/api/catalog/images/", handler.HandleCatalogImage)
			mux.HandleFunc("/api/login", handler.HandleLogin)
			mux.HandleFunc("/api/logout", handler.HandleLogout)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: handler.RequireSession(mux),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Stylematch interface available", "addr", addr, "url", "http://localhost"+addr, "provider", cfg.Provider, "model", cfg.Model)
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

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")

	return cmd
}

// loadInstruction reads a prompt override file; empty path keeps the
// built-in instruction.
func loadInstruction(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
