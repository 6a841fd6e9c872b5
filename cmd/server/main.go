package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	"github.com/hossman39/availablityio/internal/api"
	"github.com/hossman39/availablityio/internal/config"
	"github.com/hossman39/availablityio/pkg/availability"
	"github.com/hossman39/availablityio/pkg/stremio"
	"github.com/hossman39/availablityio/pkg/tmdb"
)

// Version is advertised in the manifest. Overridable at build time.
var Version = "1.1.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Build the availability service. Without an API key the service
	// still runs and answers every lookup with a configuration error.
	var options []availability.Option
	if cfg.TMDBAPIKey != "" {
		client := tmdb.NewClient(cfg.TMDBAPIKey, tmdb.WithBaseURL(cfg.TMDBBaseURL))
		options = append(options, availability.WithProvider(client))
	} else {
		slog.Warn("TMDB_API_KEY is not set, lookups will report a configuration error")
	}
	svc := availability.New(options...)

	manifest := stremio.Manifest{
		ID:          "com.github.hossman39.availablityio",
		Version:     Version,
		Name:        "Digital Release Dates",
		Description: "Shows the digital release date for movies, using data from TMDB.",
		Resources:   []string{"stream"},
		Types:       []string{stremio.TypeMovie},
		IDPrefixes:  []string{availability.IMDBIDPrefix},
		Catalogs:    []stremio.CatalogItem{},
	}

	logger := httplog.NewLogger("availablityio", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  true,
		JSON:     cfg.Environment == "production",
	})

	// Set up router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger, []string{"/health"}))
	r.Use(middleware.Recoverer)

	// Addon hosts call from web origins
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(30 * time.Second))

	// Mount routes
	handler := api.NewAddonHandler(svc, manifest)
	r.Mount("/", handler.Routes())

	// Create server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Addon server starting", "port", cfg.Port, "environment", cfg.Environment, "version", Version)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}
