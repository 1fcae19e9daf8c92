package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	modelsllm "uigen/internal/domain/models/llm"
	domainllm "uigen/internal/llm"
)

// convertMessages converts domain messages to Anthropic SDK format. Tool
// result messages become user-role tool_result blocks, per the API contract.
func convertMessages(messages []modelsllm.Message) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case modelsllm.RoleUser:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))

		case modelsllm.RoleAssistant:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(msg.ToolCalls))
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				var input interface{} = map[string]interface{}{}
				if len(call.Input) > 0 {
					if err := json.Unmarshal(call.Input, &input); err != nil {
						return nil, fmt.Errorf("message %d: decode tool input: %w", i, err)
					}
				}
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    call.ID,
						Name:  call.Name,
						Input: input,
					},
				})
			}
			result = append(result, anthropic.NewAssistantMessage(blocks...))

		case modelsllm.RoleTool:
			block := anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					ToolUseID: msg.ToolCallID,
					IsError:   anthropic.Bool(msg.IsError),
					Content: []anthropic.ToolResultBlockParamContentUnion{
						{OfText: &anthropic.TextBlockParam{Text: msg.Content}},
					},
				},
			}
			result = append(result, anthropic.NewUserMessage(block))

		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	return result, nil
}

// convertTools converts domain tool definitions to the SDK tool params.
func convertTools(tools []domainllm.ToolDefinition) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		result = append(result, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: tool.InputSchema,
					Required:   tool.Required,
				},
			},
		})
	}
	return result
}
