// Package chat implements the completion workflow: stream a model response
// for one chat turn, drive the tool loop against the request's virtual file
// system, and persist the result after the stream ends.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"uigen/internal/anonwork"
	"uigen/internal/domain"
	"uigen/internal/domain/models/llm"
	domainllm "uigen/internal/llm"
	"uigen/internal/llm/prompts"
	"uigen/internal/llm/tools"
	"uigen/internal/service/project"
	"uigen/internal/vfs"
)

// Request is one chat turn from the client.
type Request struct {
	Messages  []llm.Message          `json:"messages"`
	Files     map[string]interface{} `json:"files"`
	ProjectID string                 `json:"projectId,omitempty"`
}

// Sink receives stream output. The handler backs it with the HTTP response;
// tests back it with a buffer.
type Sink interface {
	TextDelta(delta string) error
	ToolCall(name string) error
	StreamError(message string) error
	Finish() error
}

// Service runs chat completions.
type Service struct {
	provider domainllm.Provider
	model    domainllm.ModelConfig
	projects *project.Service
	tracker  *anonwork.Tracker
	logger   *slog.Logger
}

// NewService creates a chat service bound to one provider and budget.
func NewService(
	provider domainllm.Provider,
	model domainllm.ModelConfig,
	projects *project.Service,
	tracker *anonwork.Tracker,
	logger *slog.Logger,
) *Service {
	return &Service{
		provider: provider,
		model:    model,
		projects: projects,
		tracker:  tracker,
		logger:   logger,
	}
}

// Complete streams one assistant response into sink and, once the stream
// has ended, persists the merged transcript. An error return means the
// request failed before any output was streamed; later failures are
// delivered through the sink.
func (s *Service) Complete(ctx context.Context, req *Request, userID, anonSessionID string, sink Sink) error {
	fs := vfs.NewFromSnapshot(req.Files)
	registry := tools.BuildForFileSystem(fs)

	transcript := make([]llm.Message, len(req.Messages))
	copy(transcript, req.Messages)

	var responseMessages []llm.Message
	streamedAny := false

	for step := 0; step < s.model.MaxSteps; step++ {
		provReq := &domainllm.Request{
			Model:     s.model.Model,
			System:    prompts.Generation,
			Messages:  transcript,
			Tools:     registry.Definitions(),
			MaxTokens: s.model.MaxTokens,
		}

		events, err := s.provider.Stream(ctx, provReq)
		if err != nil {
			if !streamedAny {
				return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
			}
			_ = sink.StreamError(err.Error())
			return nil
		}

		assistant := llm.Message{Role: llm.RoleAssistant}
		for event := range events {
			switch {
			case event.Err != nil:
				if !streamedAny {
					return fmt.Errorf("%w: %v", domain.ErrUpstream, event.Err)
				}
				_ = sink.StreamError(event.Err.Error())
				return nil
			case event.TextDelta != "":
				streamedAny = true
				assistant.Content += event.TextDelta
				if err := sink.TextDelta(event.TextDelta); err != nil {
					// Client went away; finish the turn without it.
					s.logger.Debug("stream write failed", "error", err)
				}
			case event.ToolCall != nil:
				streamedAny = true
				assistant.ToolCalls = append(assistant.ToolCalls, *event.ToolCall)
			}
		}

		transcript = append(transcript, assistant)
		responseMessages = append(responseMessages, assistant)

		if len(assistant.ToolCalls) == 0 {
			break
		}

		for _, call := range assistant.ToolCalls {
			_ = sink.ToolCall(call.Name)
		}

		results := registry.ExecuteAll(ctx, assistant.ToolCalls)
		for _, result := range results {
			toolMsg := llm.Message{
				Role:       llm.RoleTool,
				Content:    result.Content,
				ToolCallID: result.ID,
				IsError:    result.IsError,
			}
			transcript = append(transcript, toolMsg)
			responseMessages = append(responseMessages, toolMsg)
		}
	}

	_ = sink.Finish()

	// Fire-after-stream-ends: the save must never break the completed
	// stream, and a client disconnect must not cancel it.
	s.saveAfterStream(context.WithoutCancel(ctx), req, userID, anonSessionID, responseMessages, fs)

	return nil
}

// saveAfterStream persists the merged transcript once, on stream
// completion. Authenticated requests with a project id update the project
// row; anonymous requests mirror the work into the session tracker. All
// failures are logged and swallowed.
func (s *Service) saveAfterStream(
	ctx context.Context,
	req *Request,
	userID, anonSessionID string,
	responseMessages []llm.Message,
	fs *vfs.FileSystem,
) {
	merged := make([]llm.Message, 0, len(req.Messages)+len(responseMessages))
	merged = append(merged, req.Messages...)
	merged = append(merged, responseMessages...)

	if req.ProjectID != "" {
		if userID == "" {
			return
		}

		messages, data, err := serializeState(merged, fs)
		if err != nil {
			s.logger.Error("failed to save project data", "error", err, "project_id", req.ProjectID)
			return
		}

		if err := s.projects.UpdateContent(ctx, req.ProjectID, userID, messages, data); err != nil {
			s.logger.Error("failed to save project data", "error", err, "project_id", req.ProjectID)
		}
		return
	}

	if userID == "" && anonSessionID != "" {
		s.tracker.Record(ctx, anonSessionID, merged, fs.SerializeToNodes())
	}
}

func serializeState(messages []llm.Message, fs *vfs.FileSystem) (string, string, error) {
	encodedMessages, err := json.Marshal(messages)
	if err != nil {
		return "", "", fmt.Errorf("serialize messages: %w", err)
	}
	encodedData, err := json.Marshal(fs.SerializeToNodes())
	if err != nil {
		return "", "", fmt.Errorf("serialize file system: %w", err)
	}
	return string(encodedMessages), string(encodedData), nil
}
