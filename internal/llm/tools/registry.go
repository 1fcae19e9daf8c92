package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"uigen/internal/domain/models/llm"
	domainllm "uigen/internal/llm"
)

// Executor defines the interface for executing a tool.
// Implementations must be thread-safe and respect context cancellation.
type Executor interface {
	// Definition returns the schema advertised to the model.
	Definition() domainllm.ToolDefinition

	// Execute runs the tool with the decoded input parameters. The returned
	// value must be JSON-serializable.
	Execute(ctx context.Context, input map[string]interface{}) (interface{}, error)
}

// Result is the outcome of one tool execution, matched to its call by ID.
type Result struct {
	ID      string
	Name    string
	Content string
	IsError bool
}

// Registry manages tool executors for one chat request. It is thread-safe.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]Executor
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[string]Executor)}
}

// Register adds a tool executor. An existing tool with the same name is
// replaced.
func (r *Registry) Register(executor Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[executor.Definition().Name] = executor
}

// Definitions returns the schemas of all registered tools.
func (r *Registry) Definitions() []domainllm.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]domainllm.ToolDefinition, 0, len(r.executors))
	for _, e := range r.executors {
		defs = append(defs, e.Definition())
	}
	return defs
}

// Execute runs a single tool call. Failures are reported inside the Result
// so they flow back to the model as error tool results rather than aborting
// the step loop.
func (r *Registry) Execute(ctx context.Context, call llm.ToolCall) Result {
	r.mu.RLock()
	executor := r.executors[call.Name]
	r.mu.RUnlock()

	if executor == nil {
		return Result{ID: call.ID, Name: call.Name, Content: fmt.Sprintf("tool not found: %s", call.Name), IsError: true}
	}

	var input map[string]interface{}
	if len(call.Input) > 0 {
		if err := json.Unmarshal(call.Input, &input); err != nil {
			return Result{ID: call.ID, Name: call.Name, Content: fmt.Sprintf("invalid tool input: %v", err), IsError: true}
		}
	}

	value, err := executor.Execute(ctx, input)
	if err != nil {
		return Result{ID: call.ID, Name: call.Name, Content: err.Error(), IsError: true}
	}

	content, err := encodeResult(value)
	if err != nil {
		return Result{ID: call.ID, Name: call.Name, Content: fmt.Sprintf("encode tool result: %v", err), IsError: true}
	}

	return Result{ID: call.ID, Name: call.Name, Content: content}
}

// ExecuteAll runs the calls of one step concurrently, preserving order.
func (r *Registry) ExecuteAll(ctx context.Context, calls []llm.ToolCall) []Result {
	if len(calls) == 0 {
		return nil
	}

	results := make([]Result, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call llm.ToolCall) {
			defer wg.Done()
			results[i] = r.Execute(ctx, call)
		}(i, call)
	}
	wg.Wait()

	return results
}

func encodeResult(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
