package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"uigen/internal/domain"
	"uigen/internal/domain/models"
	"uigen/internal/domain/repositories"
)

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new project row. The id is generated by the caller; the
// store sets both timestamps.
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, name, messages, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`, r.tables.Projects)

	err := r.pool.QueryRow(ctx, query,
		project.ID,
		project.UserID,
		project.Name,
		project.Messages,
		project.Data,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by (id, userID). A row owned by a different
// user is reported as not found.
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id, userID string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, messages, data, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Projects)

	var project models.Project
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&project.ID,
		&project.UserID,
		&project.Name,
		&project.Messages,
		&project.Data,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// List retrieves project summaries for a user, most recently updated first.
func (r *PostgresProjectRepository) List(ctx context.Context, userID string) ([]models.ProjectSummary, error) {
	query := fmt.Sprintf(`
		SELECT id, name, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, r.tables.Projects)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.ProjectSummary
	for rows.Next() {
		var p models.ProjectSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	// Return empty slice instead of nil if no projects
	if projects == nil {
		projects = []models.ProjectSummary{}
	}

	return projects, nil
}

// UpdateContent replaces the serialized transcript and snapshot of the row
// matched by (id, userID) and bumps updated_at.
func (r *PostgresProjectRepository) UpdateContent(ctx context.Context, id, userID, messages, data string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET messages = $1, data = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
	`, r.tables.Projects)

	result, err := r.pool.Exec(ctx, query, messages, data, id, userID)
	if err != nil {
		return fmt.Errorf("update project content: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
