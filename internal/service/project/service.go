// Package project implements the owner-scoped project operations: create,
// get-one, list, and the chat workflow's content update path.
package project

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"uigen/internal/config"
	"uigen/internal/domain"
	"uigen/internal/domain/models"
	"uigen/internal/domain/models/llm"
	"uigen/internal/domain/repositories"
)

// CreateRequest carries the structured inputs of a create call.
type CreateRequest struct {
	Name     string                 `json:"name"`
	Messages []llm.Message          `json:"messages"`
	Data     map[string]interface{} `json:"data"`
}

// Service implements the project operations.
type Service struct {
	repo   repositories.ProjectRepository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo repositories.ProjectRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create stores a new project owned by userID. The owner id comes from the
// session, never from caller input. The returned record keeps the
// serialized messages/data fields exactly as stored: create returns the
// persisted shape while Get returns the structured one, and callers rely on
// that asymmetry.
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*models.Project, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	messages, err := serializeMessages(req.Messages)
	if err != nil {
		return nil, fmt.Errorf("%w: messages: %v", domain.ErrValidation, err)
	}
	data, err := serializeData(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: data: %v", domain.ErrValidation, err)
	}

	project := &models.Project{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Messages: messages,
		Data:     data,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"user_id", userID,
	)

	return project, nil
}

// Get retrieves a project by (id, owner) and deserializes its stored
// transcript and snapshot. A project owned by someone else is a not-found,
// same as a nonexistent id.
func (s *Service) Get(ctx context.Context, id, userID string) (*models.ProjectView, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	project, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	var messages []llm.Message
	if err := json.Unmarshal([]byte(project.Messages), &messages); err != nil {
		return nil, fmt.Errorf("deserialize messages for project %s: %w", id, err)
	}
	if messages == nil {
		messages = []llm.Message{}
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(project.Data), &data); err != nil {
		return nil, fmt.Errorf("deserialize data for project %s: %w", id, err)
	}
	if data == nil {
		data = map[string]interface{}{}
	}

	return &models.ProjectView{
		ID:        project.ID,
		Name:      project.Name,
		Messages:  messages,
		Data:      data,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}, nil
}

// List returns the account's project summaries, most recently updated
// first. An account with no projects gets an empty list, not an error.
func (s *Service) List(ctx context.Context, userID string) ([]models.ProjectSummary, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.List(ctx, userID)
}

// UpdateContent replaces a project's serialized transcript and snapshot.
func (s *Service) UpdateContent(ctx context.Context, id, userID, messages, data string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	return s.repo.UpdateContent(ctx, id, userID, messages, data)
}

// serializeMessages encodes a transcript; the empty transcript is "[]".
func serializeMessages(messages []llm.Message) (string, error) {
	if messages == nil {
		messages = []llm.Message{}
	}
	encoded, err := json.Marshal(messages)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// serializeData encodes a file-system snapshot; the empty snapshot is "{}".
func serializeData(data map[string]interface{}) (string, error) {
	if data == nil {
		data = map[string]interface{}{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func validateName(name string) error {
	return validation.Validate(strings.TrimSpace(name),
		validation.Required,
		validation.Length(1, config.MaxProjectNameLength),
	)
}
