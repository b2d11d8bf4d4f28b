package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
)

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new project.
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, slug, name, description, visibility, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.ID,
		project.Slug,
		project.Name,
		project.Description,
		project.Visibility,
		project.OwnerID,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("slug %q: %w", project.Slug, domain.ErrDuplicateProject)
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetBySlug retrieves a project by its globally unique slug.
func (r *PostgresProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT id, slug, name, description, visibility, owner_id, created_at, updated_at
		FROM %s
		WHERE slug = $1
	`, r.tables.Projects)

	var p models.Project
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, slug).Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Description,
		&p.Visibility,
		&p.OwnerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("project %q: %w", slug, domain.ErrProjectNotFound)
		}
		return nil, fmt.Errorf("get project by slug: %w", err)
	}
	return &p, nil
}

// ListForUser returns projects visible to the user: owned, member of, or
// public.
func (r *PostgresProjectRepository) ListForUser(ctx context.Context, userID string) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT p.id, p.slug, p.name, p.description, p.visibility, p.owner_id, p.created_at, p.updated_at
		FROM %s p
		LEFT JOIN %s m ON m.project_id = p.id AND m.user_id = $1
		WHERE p.owner_id = $1 OR m.user_id IS NOT NULL OR p.visibility = 'public'
		ORDER BY p.updated_at DESC
	`, r.tables.Projects, r.tables.ProjectMembers)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.Visibility, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// GetMemberRole returns the user's role on a project, nil when not a member.
func (r *PostgresProjectRepository) GetMemberRole(ctx context.Context, projectID, userID string) (*models.MemberRole, error) {
	query := fmt.Sprintf(`
		SELECT role FROM %s WHERE project_id = $1 AND user_id = $2
	`, r.tables.ProjectMembers)

	var role models.MemberRole
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, projectID, userID).Scan(&role)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member role: %w", err)
	}
	return &role, nil
}
