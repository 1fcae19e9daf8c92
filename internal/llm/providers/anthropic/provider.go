// Package anthropic implements the real model provider over the Anthropic
// API. It is selected whenever a provider credential is configured.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	modelsllm "uigen/internal/domain/models/llm"
	domainllm "uigen/internal/llm"
)

// Provider implements the domain Provider interface for Claude models.
type Provider struct {
	client *anthropic.Client
}

// NewProvider creates a new Anthropic provider with the given API key.
func NewProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Provider{client: &client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// Stream starts one streaming model turn. Text deltas are emitted as they
// arrive; tool calls are emitted once the turn's content is complete, since
// their JSON input accumulates across deltas.
func (p *Provider) Stream(ctx context.Context, req *domainllm.Request) (<-chan domainllm.StreamEvent, error) {
	if !strings.HasPrefix(req.Model, "claude-") {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	messages, err := convertMessages(req.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	apiParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: int64(req.MaxTokens),
		Tools:     convertTools(req.Tools),
	}

	if req.System != "" {
		apiParams.System = []anthropic.TextBlockParam{
			{Type: "text", Text: req.System},
		}
	}

	eventChan := make(chan domainllm.StreamEvent, 10) // Buffered to prevent blocking

	go func() {
		defer close(eventChan)

		stream := p.client.Messages.NewStreaming(ctx, apiParams)

		// Accumulator for tool inputs and final metadata
		message := anthropic.Message{}

		for stream.Next() {
			event := stream.Current()

			if err := message.Accumulate(event); err != nil {
				eventChan <- domainllm.StreamEvent{Err: fmt.Errorf("failed to accumulate message: %w", err)}
				return
			}

			var out domainllm.StreamEvent
			switch e := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if e.Delta.Type == "text_delta" {
					out = domainllm.StreamEvent{TextDelta: e.Delta.Text}
				}
			default:
				// Block boundaries and message lifecycle events carry nothing
				// the consumer needs incrementally.
			}

			if out == (domainllm.StreamEvent{}) {
				continue
			}

			select {
			case <-ctx.Done():
				eventChan <- domainllm.StreamEvent{Err: ctx.Err()}
				return
			case eventChan <- out:
			}
		}

		if err := stream.Err(); err != nil {
			eventChan <- domainllm.StreamEvent{Err: fmt.Errorf("anthropic streaming error: %w", err)}
			return
		}

		// Completed tool calls, now that their inputs are fully accumulated
		for _, block := range message.Content {
			if tool, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
				eventChan <- domainllm.StreamEvent{
					ToolCall: &modelsllm.ToolCall{
						ID:    tool.ID,
						Name:  tool.Name,
						Input: json.RawMessage(tool.JSON.Input.Raw()),
					},
				}
			}
		}

		eventChan <- domainllm.StreamEvent{
			Metadata: &domainllm.Metadata{
				Model:        string(message.Model),
				InputTokens:  int(message.Usage.InputTokens),
				OutputTokens: int(message.Usage.OutputTokens),
				StopReason:   string(message.StopReason),
			},
		}
	}()

	return eventChan, nil
}
