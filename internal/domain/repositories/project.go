package repositories

import (
	"context"

	"uigen/internal/domain/models"
)

// ProjectRepository defines data access operations for projects. Every
// lookup and mutation is keyed by the (id, userID) compound key - a project
// id alone never suffices.
type ProjectRepository interface {
	// Create inserts a new project and fills in store-generated timestamps.
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by (id, userID).
	GetByID(ctx context.Context, id, userID string) (*models.Project, error)

	// List retrieves project summaries for a user, ordered by updated_at DESC.
	List(ctx context.Context, userID string) ([]models.ProjectSummary, error)

	// UpdateContent replaces the serialized transcript and file-system
	// snapshot of the row matched by (id, userID) and bumps updated_at.
	UpdateContent(ctx context.Context, id, userID, messages, data string) error
}
