package repositories

import (
	"context"

	"folio/internal/domain/models"
)

// ProjectRepository defines data access for projects and membership.
type ProjectRepository interface {
	// Create inserts a new project. Returns ErrDuplicateProject when the
	// slug is taken.
	Create(ctx context.Context, project *models.Project) error

	// GetBySlug retrieves a project by its globally unique slug.
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)

	// ListForUser returns projects the user owns or is a member of, plus
	// public projects, newest-first.
	ListForUser(ctx context.Context, userID string) ([]models.Project, error)

	// GetMemberRole returns the user's role on a project, nil when the
	// user is not a member.
	GetMemberRole(ctx context.Context, projectID, userID string) (*models.MemberRole, error)
}

// UserRepository provides the minimal identity lookups the platform needs.
type UserRepository interface {
	// Upsert inserts the user or refreshes name/email on conflict. Called
	// on first authenticated request so attribution rows exist.
	Upsert(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
