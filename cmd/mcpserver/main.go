package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tendant/simple-notes/internal/mcp"
	"github.com/tendant/simple-notes/pkg/simplenotes/config"
)

// ListenConfig holds the settings only the network modes need
type ListenConfig struct {
	Port    uint16 `env:"MCP_PORT" env-default:"8002"`
	BaseUrl string `env:"MCP_BASE_URL" env-default:"http://localhost:8002"`
}

func main() {
	var mode = flag.String("mode", "stdio", "Server mode: 'stdio', 'sse', or 'http'")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("No .env file found or error loading it, using environment", "err", err)
	}

	var listen ListenConfig
	if err := cleanenv.ReadEnv(&listen); err != nil {
		slog.Error("Failed to read listen configuration", "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}
	// stdout carries the protocol in stdio mode
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx := context.Background()
	backends, err := cfg.BuildBackends(ctx)
	if err != nil {
		logger.Error("Failed to build backends", "err", err)
		os.Exit(1)
	}
	defer backends.Close()

	svc, err := cfg.BuildService(backends, logger)
	if err != nil {
		logger.Error("Failed to create service", "err", err)
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"Markdown Notes Mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	mcp.NewNotesHandler(svc, logger).RegisterTools(s)

	switch *mode {
	case "sse":
		sseServer := server.NewSSEServer(s, server.WithBaseURL(listen.BaseUrl))
		logger.Info("Starting SSE server", "base url", listen.BaseUrl)
		if err := sseServer.Start(fmt.Sprintf(":%d", listen.Port)); err != nil {
			logger.Error("Failed to start SSE server", "err", err)
			os.Exit(1)
		}
	case "http":
		httpServer := server.NewStreamableHTTPServer(s)
		logger.Info("HTTP server listening", "port", listen.Port)
		if err := httpServer.Start(fmt.Sprintf(":%d", listen.Port)); err != nil {
			logger.Error("Server error", "err", err)
			os.Exit(1)
		}
	default:
		logger.Info("Starting in stdio mode")
		if err := server.ServeStdio(s); err != nil {
			logger.Error("Failed to start stdio server", "err", err)
			os.Exit(1)
		}
	}
}
