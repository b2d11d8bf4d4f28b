package services

import (
	"context"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"folio/internal/domain/models"
)

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugRule    = validation.Match(slugPattern).Error("must be lowercase letters, digits and hyphens")
)

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Visibility  string  `json:"visibility"`
}

// Validate checks the request fields.
func (r *CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Slug, validation.Required, validation.Length(1, 100), slugRule),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Visibility, validation.In("", "public", "private")),
	)
}

// ProjectService manages the project surface the document tree hangs off.
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest, ownerID string) (*models.Project, error)
	GetProject(ctx context.Context, slug, userID string) (*models.Project, error)
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
}
