package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	vectorgov "github.com/vectorgov/vectorgov-go"
)

// searchLegislationTool returns the tool definition for search_legislation.
// It reuses the canonical schema the LLM provider converters use.
func searchLegislationTool() mcp.Tool {
	schema := vectorgov.ToolSchema()
	properties := schema["properties"].(map[string]interface{})
	// MCP hosts additionally get the quality/latency knob the LLM provider
	// shapes keep server-default.
	properties["mode"] = map[string]interface{}{
		"type":        "string",
		"description": "Modo de busca: fast, balanced ou precise",
		"enum":        []string{"fast", "balanced", "precise"},
	}
	return mcp.Tool{
		Name:        vectorgov.ToolName,
		Description: vectorgov.ToolDescription,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   []string{"query"},
		},
	}
}

// listDocumentsTool returns the tool definition for list_documents.
func listDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_documents",
		Description: "Lista os documentos normativos disponíveis na base de conhecimento, com paginação",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Página da listagem (a partir de 1)",
					"default":     1,
					"minimum":     1,
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Documentos por página (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}

// getArticleTool returns the tool definition for get_article.
func getArticleTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_article",
		Description: "Recupera o texto exato de um dispositivo legal a partir de uma referência como 'Art. 33 da Lei 14.133', incluindo dispositivo pai e irmãos",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"reference": map[string]interface{}{
					"type":        "string",
					"description": "Referência normativa, por exemplo 'Art. 18, §1º da Lei 14.133'",
				},
				"include_hierarchy": map[string]interface{}{
					"type":        "boolean",
					"description": "Incluir dispositivo pai e dispositivos irmãos",
					"default":     true,
				},
			},
			Required: []string{"reference"},
		},
	}
}
