package openai

import (
	"context"
	"strings"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vectorgov "github.com/vectorgov/vectorgov-go"
)

func sampleResult() *vectorgov.SearchResult {
	return &vectorgov.SearchResult{
		Query: "O que é ETP?",
		Hits: []vectorgov.Hit{
			{Text: "O ETP é o documento da primeira etapa do planejamento.", Score: 0.9, Source: "LEI 14.133/2021, Art. 6, inciso XX"},
		},
		Total: 1,
	}
}

func TestTool(t *testing.T) {
	tool := Tool()

	assert.Equal(t, goopenai.ToolTypeFunction, tool.Type)
	require.NotNil(t, tool.Function)
	assert.Equal(t, vectorgov.ToolName, tool.Function.Name)
	assert.Equal(t, vectorgov.ToolDescription, tool.Function.Description)
	assert.Equal(t, vectorgov.ToolSchema(), tool.Function.Parameters)
}

func TestChatMessages(t *testing.T) {
	messages := ChatMessages(sampleResult(), "", "", 0)

	require.Len(t, messages, 2)
	assert.Equal(t, goopenai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, goopenai.ChatMessageRoleUser, messages[1].Role)
	assert.True(t, strings.HasSuffix(messages[1].Content, "Pergunta: O que é ETP?"))
	assert.Contains(t, messages[1].Content, "[1] LEI 14.133/2021, Art. 6, inciso XX")
}

func TestExecuteToolCallsSkipsForeignTools(t *testing.T) {
	calls := []goopenai.ToolCall{
		{
			ID:       "call_1",
			Type:     goopenai.ToolTypeFunction,
			Function: goopenai.FunctionCall{Name: "get_weather", Arguments: `{"city": "Brasília"}`},
		},
	}
	messages, err := ExecuteToolCalls(context.Background(), nil, calls)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
