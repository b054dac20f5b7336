package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	vectorgov "github.com/vectorgov/vectorgov-go"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
)

// MCPError is a JSON-RPC level error returned for malformed requests.
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) *MCPError {
	return &MCPError{Code: code, Message: message, Data: data}
}

// handleSearchLegislation handles the search_legislation tool invocation.
// The argument map already matches the client's tool-call contract, so it
// goes straight through ExecuteToolCall.
func (s *Server) handleSearchLegislation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, _ := args["query"].(string)
	start := time.Now()
	content, err := s.client.ExecuteToolCall(ctx, args)
	if err != nil {
		return s.toolError("search_legislation", query, err)
	}
	s.log.Debug("search_legislation served",
		zap.String("query", query),
		zap.Duration("elapsed", time.Since(start)))
	return mcp.NewToolResultText(content), nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}
	page := getIntDefault(args, "page", 1)
	limit := getIntDefault(args, "limit", 20)

	docs, err := s.client.ListDocuments(ctx, page, limit)
	if err != nil {
		return s.toolError("list_documents", "", err)
	}

	entries := make([]map[string]interface{}, 0, len(docs.Documents))
	for _, d := range docs.Documents {
		entries = append(entries, map[string]interface{}{
			"document_id":    d.DocumentID,
			"tipo_documento": d.DocumentType,
			"numero":         d.Number,
			"ano":            d.Year,
			"title":          d.Title,
			"chunks_count":   d.ChunksCount,
			"enriched":       d.Enriched(),
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"documents": entries,
		"total":     docs.Total,
		"page":      docs.Page,
		"pages":     docs.Pages,
	})), nil
}

// handleGetArticle handles the get_article tool invocation.
func (s *Server) handleGetArticle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	reference, ok := args["reference"].(string)
	if !ok || strings.TrimSpace(reference) == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "reference parameter is required", map[string]interface{}{
			"param":  "reference",
			"reason": "missing or empty",
		})
	}

	var opts []vectorgov.LookupOption
	if !getBoolDefault(args, "include_hierarchy", true) {
		opts = append(opts, vectorgov.WithoutHierarchy())
	}
	result, err := s.client.Lookup(ctx, reference, opts...)
	if err != nil {
		return s.toolError("get_article", reference, err)
	}
	return mcp.NewToolResultText(formatLookup(result)), nil
}

// formatLookup renders a lookup result as Markdown for the host model.
func formatLookup(result *vectorgov.LookupResult) string {
	if !result.Found() {
		var b strings.Builder
		fmt.Fprintf(&b, "Dispositivo não encontrado para a referência %q.", result.Reference)
		if result.Message != "" {
			b.WriteString(" " + result.Message)
		}
		if len(result.Candidates) > 0 {
			b.WriteString("\n\nCandidatos:\n")
			for _, c := range result.Candidates {
				fmt.Fprintf(&b, "- %s (%s)\n", strings.TrimSpace(c.Text), c.DocumentID)
			}
		}
		return b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s\n", result.Match.Metadata.String(), strings.TrimSpace(result.Match.Text))
	if result.Match.ExpertNote != "" {
		fmt.Fprintf(&b, "\n**Nota do especialista:** %s\n", result.Match.ExpertNote)
	}
	if result.Parent != nil {
		fmt.Fprintf(&b, "\n### Dispositivo pai\n%s\n", strings.TrimSpace(result.Parent.Text))
	}
	if len(result.Siblings) > 0 {
		b.WriteString("\n### Dispositivos irmãos\n")
		for _, sibling := range result.Siblings {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(sibling.Text))
		}
	}
	return b.String()
}

// toolError maps client failures: invalid input becomes a protocol error,
// everything else becomes a tool result the model can read and react to.
func (s *Server) toolError(tool, input string, err error) (*mcp.CallToolResult, error) {
	var validationErr *vectorgov.ValidationError
	if errors.As(err, &validationErr) {
		return nil, newMCPError(ErrorCodeInvalidParams, validationErr.Message, map[string]interface{}{
			"param": validationErr.Field,
		})
	}
	s.log.Warn("tool call failed",
		zap.String("tool", tool),
		zap.String("input", input),
		zap.Error(err))
	return mcp.NewToolResultError(fmt.Sprintf("A consulta à base VectorGov falhou: %v", err)), nil
}

func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
