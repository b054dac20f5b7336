// Package openai adapts VectorGov search to the OpenAI chat-completions
// tool-calling API using github.com/sashabaranov/go-openai types.
package openai

import (
	"context"

	goopenai "github.com/sashabaranov/go-openai"

	vectorgov "github.com/vectorgov/vectorgov-go"
)

// Tool returns the search tool as a typed openai.Tool, ready to place in
// ChatCompletionRequest.Tools.
func Tool() goopenai.Tool {
	return goopenai.Tool{
		Type: goopenai.ToolTypeFunction,
		Function: &goopenai.FunctionDefinition{
			Name:        vectorgov.ToolName,
			Description: vectorgov.ToolDescription,
			Parameters:  vectorgov.ToolSchema(),
		},
	}
}

// ExecuteToolCalls runs every search tool call from a model response and
// returns the tool messages to append to the conversation, in call order.
// Calls naming other tools are skipped; the first failing search aborts.
func ExecuteToolCalls(ctx context.Context, client *vectorgov.Client, calls []goopenai.ToolCall) ([]goopenai.ChatCompletionMessage, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(calls))
	for _, call := range calls {
		if call.Function.Name != vectorgov.ToolName {
			continue
		}
		content, err := client.ExecuteToolCall(ctx, call)
		if err != nil {
			return nil, err
		}
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:       goopenai.ChatMessageRoleTool,
			Content:    content,
			Name:       call.Function.Name,
			ToolCallID: call.ID,
		})
	}
	return messages, nil
}

// ChatMessages converts a search result into the system and user messages
// of a chat-completions request. An empty systemPrompt picks the default
// prompt; maxContextChars zero means no truncation.
func ChatMessages(result *vectorgov.SearchResult, query, systemPrompt string, maxContextChars int) []goopenai.ChatCompletionMessage {
	converted := result.ToMessages(query, systemPrompt, maxContextChars)
	messages := make([]goopenai.ChatCompletionMessage, 0, len(converted))
	for _, m := range converted {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return messages
}
