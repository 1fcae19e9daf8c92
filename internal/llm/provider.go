// Package llm defines the provider abstraction the chat workflow runs
// against. Providers stream one model turn at a time; the step loop that
// feeds tool results back lives in the chat service.
package llm

import (
	"context"

	"uigen/internal/domain/models/llm"
)

// ToolDefinition describes a tool the model may call during a turn.
type ToolDefinition struct {
	Name        string
	Description string
	// InputSchema holds the JSON-schema "properties" object plus required
	// field names, in the shape provider APIs expect.
	InputSchema map[string]interface{}
	Required    []string
}

// ModelConfig is the model id and budget a provider runs under.
type ModelConfig struct {
	Model     string
	MaxSteps  int
	MaxTokens int
}

// Request is a single model turn.
type Request struct {
	Model     string
	System    string
	Messages  []llm.Message
	Tools     []ToolDefinition
	MaxTokens int
}

// Metadata is emitted once, when a stream completes normally.
type Metadata struct {
	Model        string
	InputTokens  int
	OutputTokens int
	StopReason   string
}

// StreamEvent is one event from a streaming model turn. Exactly one field
// is set: a text delta as tokens arrive, a completed tool call, terminal
// metadata, or an error.
type StreamEvent struct {
	TextDelta string
	ToolCall  *llm.ToolCall
	Metadata  *Metadata
	Err       error
}

// Provider generates streamed model turns.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Stream starts one model turn. The returned channel is closed when the
	// turn ends; an Err event terminates it early.
	Stream(ctx context.Context, req *Request) (<-chan StreamEvent, error)
}
