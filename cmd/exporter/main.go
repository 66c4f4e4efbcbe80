package main

import (
	"github.com/rs/zerolog/log"

	"github.com/statline/nginx-exporter/internal/api"
	"github.com/statline/nginx-exporter/internal/pkg/config"
	"github.com/statline/nginx-exporter/internal/pkg/httpclient"
	"github.com/statline/nginx-exporter/internal/pkg/logger"
	"github.com/statline/nginx-exporter/internal/status"
	"github.com/statline/nginx-exporter/internal/upstream"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.App.Environment, cfg.App.Debug)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Msg("Starting nginx exporter")

	// Descriptor table, validated once at startup
	table, err := status.NewTable(status.DefaultDescriptors())
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid descriptor table")
	}

	// Upstream fetcher
	client := httpclient.NewClient(httpclient.DefaultConfig())
	fetcher := upstream.NewHTTPFetcher(client, cfg.Upstream.URL, cfg.Upstream.Timeout)

	// Create server
	server := api.NewServer(cfg, fetcher, table)

	// Start server
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
