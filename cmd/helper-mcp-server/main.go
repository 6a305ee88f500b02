package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"hensgen-helper/internal/config"
	"hensgen-helper/internal/feeds"
	"hensgen-helper/internal/health"
	"hensgen-helper/internal/logger"
	"hensgen-helper/internal/mcpserver"
	"hensgen-helper/internal/storage"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.ParseShared()
	if err != nil {
		l := logger.NewWithWriter("prod", os.Stderr)
		l.Fatal().Err(err).Msg("failed to parse config")
	}
	// stdout carries the MCP protocol
	log := logger.NewWithWriter(cfg.AppEnv, os.Stderr)
	ctx := log.WithContext(context.Background())

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer store.Close()

	sources, err := feeds.ParseSources(cfg.NewsFeeds)
	if err != nil {
		log.Fatal().Err(err).Msg("bad NEWS_FEEDS")
	}
	feedSvc := feeds.New(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.WeatherURL, sources, cfg.NewsLimit, log)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "hensgen-helper-mcp",
		Version: "1.0.0",
	}, nil)
	mcpserver.NewTools(feedSvc, health.NewLog(store)).Register(server)

	log.Info().Msg("starting MCP server on stdio")
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
