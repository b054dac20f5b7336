package vectorgov

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ToolName is the function name exposed to every LLM provider.
const ToolName = "search_legislation"

// ToolDescription is the tool description shown to the model.
const ToolDescription = "Busca semântica em legislação brasileira de licitações e contratos " +
	"(Lei 14.133/2021, decretos, instruções normativas). Use para fundamentar respostas " +
	"sobre licitações, contratos administrativos, ETP, TR e temas correlatos."

// ToolSchema returns a fresh copy of the canonical JSON Schema for the
// search tool. Every provider converter, map-shaped or typed, derives
// from it so the shapes can never drift apart.
func ToolSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Pergunta ou termos de busca sobre legislação",
			},
			"top_k": map[string]any{
				"type":        "integer",
				"description": "Número de resultados (1-50, padrão 5)",
				"minimum":     1,
				"maximum":     50,
			},
			"filters": map[string]any{
				"type":        "object",
				"description": "Filtros opcionais por tipo_documento, ano ou orgao",
				"properties": map[string]any{
					"tipo_documento": map[string]any{"type": "string"},
					"ano":            map[string]any{"type": "integer"},
					"orgao":          map[string]any{"type": "string"},
				},
			},
		},
		"required": []string{"query"},
	}
}

// ToOpenAITool returns the search tool in OpenAI function-calling shape.
// The typed variant lives in integrations/openai; this map form suits
// raw JSON payloads and providers with OpenAI-compatible APIs.
func (c *Client) ToOpenAITool() map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        ToolName,
			"description": ToolDescription,
			"parameters":  ToolSchema(),
		},
	}
}

// ToAnthropicTool returns the search tool in Anthropic tool-use shape.
func (c *Client) ToAnthropicTool() map[string]any {
	return map[string]any{
		"name":         ToolName,
		"description":  ToolDescription,
		"input_schema": ToolSchema(),
	}
}

// ToGoogleTool returns the search tool in Gemini function-declaration
// shape.
func (c *Client) ToGoogleTool() map[string]any {
	return map[string]any{
		"function_declarations": []map[string]any{{
			"name":        ToolName,
			"description": ToolDescription,
			"parameters":  ToolSchema(),
		}},
	}
}

// toolArguments is the normalized argument set extracted from any
// provider's tool-call envelope.
type toolArguments struct {
	Query   string
	TopK    int
	Mode    SearchMode
	Filters *Filters
}

// ExecuteToolCall accepts a tool call in any provider's envelope, or a
// plain argument map, runs the search, and returns a provider-neutral
// Markdown response ready to feed back to the model. Unrecognized
// payloads and malformed argument JSON yield a ValidationError; the
// search itself fails with the usual typed errors.
func (c *Client) ExecuteToolCall(ctx context.Context, toolCall any) (string, error) {
	args, err := extractToolArguments(toolCall)
	if err != nil {
		return "", err
	}
	opts := []SearchOption{}
	if args.TopK != 0 {
		opts = append(opts, WithTopK(args.TopK))
	}
	if args.Mode != "" {
		opts = append(opts, WithMode(args.Mode))
	}
	if args.Filters != nil {
		opts = append(opts, WithFilters(*args.Filters))
	}
	result, err := c.Search(ctx, args.Query, opts...)
	if err != nil {
		return "", err
	}
	return formatToolResponse(result), nil
}

// extractToolArguments detects the envelope structurally, not by provider
// name: an OpenAI call carries arguments as a JSON string under
// function.arguments, Anthropic as an object under input, Gemini as an
// object under args. A bare map is treated as the arguments themselves.
func extractToolArguments(toolCall any) (toolArguments, error) {
	m, err := toEnvelopeMap(toolCall)
	if err != nil {
		return toolArguments{}, err
	}

	if fn, ok := m["function"].(map[string]any); ok {
		if raw, ok := fn["arguments"].(string); ok {
			return parseArgumentsJSON(raw)
		}
	}
	if input, ok := m["input"].(map[string]any); ok {
		return argumentsFromMap(input)
	}
	if args, ok := m["args"].(map[string]any); ok {
		return argumentsFromMap(args)
	}
	if raw, ok := m["arguments"].(string); ok {
		return parseArgumentsJSON(raw)
	}
	if _, ok := m["query"]; ok {
		return argumentsFromMap(m)
	}
	return toolArguments{}, newValidationError("unrecognized tool call payload", "tool_call")
}

// toEnvelopeMap coerces typed SDK structs and maps alike into a generic
// map through a JSON round trip.
func toEnvelopeMap(toolCall any) (map[string]any, error) {
	if m, ok := toolCall.(map[string]any); ok {
		return m, nil
	}
	raw, err := json.Marshal(toolCall)
	if err != nil {
		return nil, newValidationError("tool call is not serializable: "+err.Error(), "tool_call")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, newValidationError("tool call is not an object", "tool_call")
	}
	return m, nil
}

func parseArgumentsJSON(raw string) (toolArguments, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return toolArguments{}, newValidationError("malformed tool call arguments: "+err.Error(), "arguments")
	}
	return argumentsFromMap(m)
}

func argumentsFromMap(m map[string]any) (toolArguments, error) {
	query, _ := m["query"].(string)
	if strings.TrimSpace(query) == "" {
		return toolArguments{}, newValidationError("tool call missing query", "query")
	}
	args := toolArguments{Query: query}
	if k, ok := asInt(m["top_k"]); ok {
		args.TopK = k
	}
	// mode is not part of the provider-facing schema, but hosts that know
	// about it (the MCP server) may pass it through.
	if mode, ok := m["mode"].(string); ok {
		args.Mode = SearchMode(mode)
	}
	if fm, ok := m["filters"].(map[string]any); ok {
		f := Filters{}
		f.Type, _ = fm["tipo_documento"].(string)
		f.IssuingBody, _ = fm["orgao"].(string)
		if year, ok := asInt(fm["ano"]); ok {
			f.Year = year
		}
		if f != (Filters{}) {
			args.Filters = &f
		}
	}
	return args, nil
}

// asInt accepts the numeric shapes JSON decoding and typed SDKs produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

// formatToolResponse renders a result as Markdown for the model: a
// numbered source list with relevance percentages, then the instruction
// to ground the answer on those excerpts.
func formatToolResponse(result *SearchResult) string {
	if result.Len() == 0 {
		return "Nenhum resultado encontrado na base de conhecimento para esta consulta."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Encontrados %d trechos relevantes:\n\n", result.Len()))
	for i, hit := range result.Hits {
		source := hit.Source
		if source == "" {
			source = hit.Metadata.String()
		}
		fmt.Fprintf(&b, "### [%d] %s (relevância: %.0f%%)\n%s\n", i+1, source, hit.Score*100, strings.TrimSpace(hit.Text))
		if hit.ExpertNote != "" {
			fmt.Fprintf(&b, "\n**Nota do especialista:** %s\n", hit.ExpertNote)
		}
		if hit.TCUCaseLaw != "" {
			fmt.Fprintf(&b, "\n**Jurisprudência TCU:** %s\n", hit.TCUCaseLaw)
		}
		b.WriteString("\n")
	}
	b.WriteString("Responda com base exclusivamente nos trechos acima, citando os artigos pertinentes.")
	return b.String()
}
