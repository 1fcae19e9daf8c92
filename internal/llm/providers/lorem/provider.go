// Package lorem is the mock model provider. It needs no credentials and
// keeps local and CI runs fast and offline: every conversation produces the
// same two-step shape - create /App.jsx via the editor tool, then reply.
package lorem

import (
	"context"
	"encoding/json"
	"strings"

	loremgen "github.com/bozaro/golorem"

	modelsllm "uigen/internal/domain/models/llm"
	domainllm "uigen/internal/llm"
)

// ModelName is the model id the mock provider reports.
const ModelName = "lorem-mock"

const appJSX = `export default function App() {
  return (
    <div className="min-h-screen bg-gradient-to-br from-indigo-500 to-purple-600 flex items-center justify-center">
      <div className="bg-white/80 backdrop-blur-sm rounded-2xl shadow-lg shadow-indigo-500/10 p-8 text-center">
        <h1 className="text-2xl font-semibold bg-gradient-to-r from-indigo-600 to-purple-600 bg-clip-text text-transparent">
          Generated Component
        </h1>
        <p className="mt-2 text-slate-600">Edit this chat to change me.</p>
      </div>
    </div>
  );
}
`

// Provider is the mock provider.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new mock provider.
func NewProvider() *Provider {
	return &Provider{generator: loremgen.New()}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// Stream produces a deterministic turn. If the conversation does not yet
// contain a tool result, the turn requests creation of /App.jsx; otherwise
// it closes with a short text reply. Text is emitted word by word so stream
// consumers exercise real incremental delivery.
func (p *Provider) Stream(ctx context.Context, req *domainllm.Request) (<-chan domainllm.StreamEvent, error) {
	eventChan := make(chan domainllm.StreamEvent, 10)

	go func() {
		defer close(eventChan)

		if hasToolResult(req.Messages) {
			text := "Done. " + p.generator.Sentence(4, 8)
			if !p.streamWords(ctx, eventChan, text) {
				return
			}
			eventChan <- domainllm.StreamEvent{
				Metadata: &domainllm.Metadata{Model: ModelName, OutputTokens: len(strings.Fields(text)), StopReason: "end_turn"},
			}
			return
		}

		if !p.streamWords(ctx, eventChan, "Creating your component now.") {
			return
		}

		input, _ := json.Marshal(map[string]string{
			"command":   "create",
			"path":      "/App.jsx",
			"file_text": appJSX,
		})
		eventChan <- domainllm.StreamEvent{
			ToolCall: &modelsllm.ToolCall{ID: "toolu_mock_1", Name: "str_replace_editor", Input: input},
		}
		eventChan <- domainllm.StreamEvent{
			Metadata: &domainllm.Metadata{Model: ModelName, OutputTokens: 4, StopReason: "tool_use"},
		}
	}()

	return eventChan, nil
}

func (p *Provider) streamWords(ctx context.Context, out chan<- domainllm.StreamEvent, text string) bool {
	words := strings.Fields(text)
	for i, word := range words {
		delta := word
		if i < len(words)-1 {
			delta += " "
		}
		// checked separately so an already-cancelled context never races
		// the send
		select {
		case <-ctx.Done():
			out <- domainllm.StreamEvent{Err: ctx.Err()}
			return false
		default:
		}
		select {
		case <-ctx.Done():
			out <- domainllm.StreamEvent{Err: ctx.Err()}
			return false
		case out <- domainllm.StreamEvent{TextDelta: delta}:
		}
	}
	return true
}

func hasToolResult(messages []modelsllm.Message) bool {
	for _, msg := range messages {
		if msg.Role == modelsllm.RoleTool {
			return true
		}
	}
	return false
}
