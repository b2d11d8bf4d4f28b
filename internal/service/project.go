package service

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
)

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo repositories.ProjectRepository
	authorizer  services.Authorizer
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo repositories.ProjectRepository, authorizer services.Authorizer, logger *slog.Logger) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// CreateProject creates a project owned by the acting user.
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest, ownerID string) (*models.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	visibility := models.VisibilityPrivate
	if req.Visibility == string(models.VisibilityPublic) {
		visibility = models.VisibilityPublic
	}

	project := &models.Project{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Visibility:  visibility,
		OwnerID:     ownerID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created", "slug", project.Slug, "owner_id", ownerID)
	return project, nil
}

// GetProject retrieves a project the user may view.
func (s *projectService) GetProject(ctx context.Context, slug, userID string) (*models.Project, error) {
	project, err := s.projectRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	allowed, err := s.authorizer.HasPermission(ctx, project, userID, services.PermissionView)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("view on project %q: %w", slug, domain.ErrPermissionDenied)
	}
	return project, nil
}

// ListProjects returns projects visible to the user.
func (s *projectService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	return s.projectRepo.ListForUser(ctx, userID)
}
