// Package google adapts VectorGov search to the Gemini function-calling
// API using github.com/google/generative-ai-go/genai types.
package google

import (
	"context"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	vectorgov "github.com/vectorgov/vectorgov-go"
)

// NewModel builds a genai client and returns the named model with the
// search tool already attached.
func NewModel(ctx context.Context, apiKey, model string) (*genai.Client, *genai.GenerativeModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, err
	}
	m := client.GenerativeModel(model)
	m.Tools = []*genai.Tool{Tool()}
	return client, m, nil
}

// Tool returns the search tool as a typed genai.Tool, ready to place in
// GenerativeModel.Tools. genai.Schema has no numeric bounds, so the top_k
// range lives in the field description; the client still enforces it.
func Tool() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        vectorgov.ToolName,
			Description: vectorgov.ToolDescription,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "Pergunta ou termos de busca sobre legislação",
					},
					"top_k": {
						Type:        genai.TypeInteger,
						Description: "Número de resultados (1-50, padrão 5)",
					},
					"filters": {
						Type:        genai.TypeObject,
						Description: "Filtros opcionais por tipo_documento, ano ou orgao",
						Properties: map[string]*genai.Schema{
							"tipo_documento": {Type: genai.TypeString},
							"ano":            {Type: genai.TypeInteger},
							"orgao":          {Type: genai.TypeString},
						},
					},
				},
				Required: []string{"query"},
			},
		}},
	}
}

// ExecuteFunctionCall runs one genai.FunctionCall and returns the
// FunctionResponse part to send back to the model. Calls naming other
// functions yield ok=false.
func ExecuteFunctionCall(ctx context.Context, client *vectorgov.Client, call genai.FunctionCall) (genai.FunctionResponse, bool, error) {
	if call.Name != vectorgov.ToolName {
		return genai.FunctionResponse{}, false, nil
	}
	content, err := client.ExecuteToolCall(ctx, call.Args)
	if err != nil {
		return genai.FunctionResponse{}, false, err
	}
	return genai.FunctionResponse{
		Name:     call.Name,
		Response: map[string]any{"content": content},
	}, true, nil
}

// Prompt renders a search result as a single grounded prompt for
// GenerateContent. Gemini has no separate system channel in this shape,
// so the system prompt is folded into the text.
func Prompt(result *vectorgov.SearchResult, query, systemPrompt string, maxContextChars int) genai.Text {
	return genai.Text(result.ToPrompt(query, systemPrompt, maxContextChars))
}
