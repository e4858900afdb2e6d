package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dokushodb/booklog/internal/catalog"
	"github.com/dokushodb/booklog/internal/config"
	"github.com/dokushodb/booklog/internal/handlers"
	"github.com/dokushodb/booklog/internal/metadata"
	"github.com/dokushodb/booklog/internal/search"
)

func newServeCmd() *cobra.Command {
	var port string
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the booklog API server",
		Long: `Starts the booklog HTTP API on the specified port.

The API covers barcode scanning, ISBN metadata lookup, title search, and
catalog CRUD with CSV import/export. Book and category tables are stored
as Parquet files under the configured data directory.`,
		Example: `  # Start server on default port 8888
  booklog serve

  # Start server on custom port with a config file
  booklog serve --port 3000 --config booklog.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			store, err := catalog.NewParquetStore(cfg.DataDir)
			if err != nil {
				return err
			}

			resolver := metadata.NewResolver()
			engine := search.NewEngine(cfg.Country, cfg.Language)
			engine.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout()}

			handler := handlers.New(catalog.NewService(store), resolver, engine, cfg.GeminiModel)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/scan", handler.HandleScan)
			mux.HandleFunc("/api/lookup", handler.HandleLookup)
			mux.HandleFunc("/api/search", handler.HandleSearch)
			mux.HandleFunc("/api/books", handler.HandleBooks)
			mux.HandleFunc("/api/books/", handler.HandleBookDetail)
			mux.HandleFunc("/api/categories", handler.HandleCategories)
			mux.HandleFunc("/api/export", handler.HandleExport)
			mux.HandleFunc("/api/import", handler.HandleImport)
			mux.HandleFunc("/api/sessions", handler.HandleSessions)
			mux.HandleFunc("/api/sessions/", handler.HandleSessionDetail)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Booklog API available", "addr", addr, "url", "http://localhost"+addr, "data_dir", cfg.DataDir)
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
	cmd.Flags().StringVarP(&configPath, "config", "c", "booklog.yaml", "Path to YAML config file")

	return cmd
}
