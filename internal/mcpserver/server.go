// Package mcpserver exposes VectorGov search over the Model Context
// Protocol so MCP hosts (Claude Desktop, IDE agents) can ground answers
// in Brazilian procurement law. Stdout belongs to the protocol on the
// stdio transport; all logging goes through zap to stderr.
package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	vectorgov "github.com/vectorgov/vectorgov-go"
	"github.com/vectorgov/vectorgov-go/internal/config"
)

const (
	// ServerName is the MCP server name announced during initialize.
	ServerName = "vectorgov-mcp"
	// ServerVersion tracks the SDK version.
	ServerVersion = vectorgov.Version
)

// Server wraps the MCP server with the VectorGov client.
type Server struct {
	mcp    *server.MCPServer
	client *vectorgov.Client
	cfg    *config.Config
	log    *zap.Logger
}

// NewServer builds the server and registers its tools and resources. The
// API key resolves through the usual client chain: config file, then
// VECTORGOV_API_KEY.
func NewServer(cfg *config.Config, log *zap.Logger) (*Server, error) {
	opts := []vectorgov.Option{
		vectorgov.WithTimeout(cfg.Timeout()),
		vectorgov.WithMaxRetries(cfg.API.MaxRetries),
		vectorgov.WithDefaultTopK(cfg.Search.TopK),
		vectorgov.WithDefaultMode(vectorgov.SearchMode(cfg.Search.Mode)),
	}
	if cfg.API.Key != "" {
		opts = append(opts, vectorgov.WithAPIKey(cfg.API.Key))
	}
	if cfg.API.BaseURL != "" {
		opts = append(opts, vectorgov.WithBaseURL(cfg.API.BaseURL))
	}
	client, err := vectorgov.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize VectorGov client: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithResourceCapabilities(false, false),
	)

	s := &Server{
		mcp:    mcpServer,
		client: client,
		cfg:    cfg,
		log:    log,
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// ServeStdio serves the protocol over stdin/stdout and blocks until the
// host closes the stream.
func (s *Server) ServeStdio() error {
	s.log.Info("serving MCP over stdio",
		zap.String("server", ServerName),
		zap.String("version", ServerVersion))
	return server.ServeStdio(s.mcp)
}

// ServeSSE serves the protocol over HTTP server-sent events on addr and
// blocks until the listener fails.
func (s *Server) ServeSSE(addr string) error {
	s.log.Info("serving MCP over SSE",
		zap.String("server", ServerName),
		zap.String("addr", addr))
	sse := server.NewSSEServer(s.mcp)
	return sse.Start(addr)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchLegislationTool(), s.handleSearchLegislation)
	s.mcp.AddTool(listDocumentsTool(), s.handleListDocuments)
	s.mcp.AddTool(getArticleTool(), s.handleGetArticle)
}
