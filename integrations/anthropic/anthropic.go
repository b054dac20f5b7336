// Package anthropic adapts VectorGov search to the Anthropic Messages
// tool-use API using github.com/liushuangls/go-anthropic/v2 types.
package anthropic

import (
	"context"

	goanthropic "github.com/liushuangls/go-anthropic/v2"

	vectorgov "github.com/vectorgov/vectorgov-go"
)

// Tool returns the search tool as a typed ToolDefinition, ready to place
// in MessagesRequest.Tools.
func Tool() goanthropic.ToolDefinition {
	return goanthropic.ToolDefinition{
		Name:        vectorgov.ToolName,
		Description: vectorgov.ToolDescription,
		InputSchema: vectorgov.ToolSchema(),
	}
}

// ExecuteToolUse runs one tool_use content block and returns the
// tool_result block to send back in the next user message. Blocks naming
// other tools yield ok=false.
func ExecuteToolUse(ctx context.Context, client *vectorgov.Client, block *goanthropic.MessageContentToolUse) (goanthropic.MessageContent, bool, error) {
	if block == nil || block.Name != vectorgov.ToolName {
		return goanthropic.MessageContent{}, false, nil
	}
	var args map[string]any
	if err := block.UnmarshalInput(&args); err != nil {
		return goanthropic.MessageContent{}, false, err
	}
	content, err := client.ExecuteToolCall(ctx, args)
	if err != nil {
		return goanthropic.MessageContent{}, false, err
	}
	return goanthropic.NewToolResultMessageContent(block.ID, content, false), true, nil
}

// Messages converts a search result into the system prompt and user
// message of a Messages request. Anthropic carries the system prompt
// outside the message list, so it is returned separately.
func Messages(result *vectorgov.SearchResult, query, systemPrompt string, maxContextChars int) (string, []goanthropic.Message) {
	converted := result.ToMessages(query, systemPrompt, maxContextChars)
	system := ""
	messages := make([]goanthropic.Message, 0, len(converted))
	for _, m := range converted {
		if m.Role == "system" {
			system = m.Content
			continue
		}
		messages = append(messages, goanthropic.Message{
			Role:    goanthropic.ChatRole(m.Role),
			Content: []goanthropic.MessageContent{goanthropic.NewTextMessageContent(m.Content)},
		})
	}
	return system, messages
}
