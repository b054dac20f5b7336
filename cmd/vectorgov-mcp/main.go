// Command vectorgov-mcp serves VectorGov legislation search over the
// Model Context Protocol, on stdio by default or SSE with -transport sse.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vectorgov/vectorgov-go/internal/config"
	"github.com/vectorgov/vectorgov-go/internal/mcpserver"
)

const defaultConfigPath = "vectorgov-mcp.toml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to TOML config file")
	transport := flag.String("transport", "", "transport: stdio or sse (overrides config)")
	addr := flag.String("addr", "", "listen address for the sse transport (overrides config)")
	flag.Parse()

	// Best effort: a .env next to the binary is how local setups carry
	// VECTORGOV_API_KEY.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath, *configPath != defaultConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vectorgov-mcp: %v\n", err)
		os.Exit(1)
	}
	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger, err := buildLogger(cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vectorgov-mcp: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := mcpserver.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	switch cfg.Server.Transport {
	case "sse":
		err = srv.ServeSSE(cfg.Server.Addr)
	default:
		err = srv.ServeStdio()
	}
	if err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// buildLogger writes structured logs to stderr only: on the stdio
// transport stdout carries protocol frames.
func buildLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zapCfg.Level = parsed
	}
	return zapCfg.Build()
}
