// Package auth implements the capability check consulted before every
// project operation.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
)

// rolePermissions maps a member role to the capabilities it grants.
var rolePermissions = map[models.MemberRole]map[services.Permission]bool{
	models.RoleViewer: {
		services.PermissionView: true,
	},
	models.RoleEditor: {
		services.PermissionView: true,
		services.PermissionEdit: true,
	},
	models.RoleAdmin: {
		services.PermissionView:          true,
		services.PermissionEdit:          true,
		services.PermissionManageMembers: true,
	},
}

// ProjectAuthorizer implements services.Authorizer with an ownership plus
// role-matrix model:
//  1. the owner holds every capability
//  2. public projects grant view to anyone
//  3. members fall back to their role's permission set
type ProjectAuthorizer struct {
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger
}

// NewProjectAuthorizer creates a new project authorizer
func NewProjectAuthorizer(projectRepo repositories.ProjectRepository, logger *slog.Logger) *ProjectAuthorizer {
	return &ProjectAuthorizer{projectRepo: projectRepo, logger: logger}
}

// HasPermission reports whether the user may exercise the capability on the
// project. A false answer carries no error; the caller decides how to
// surface it.
func (a *ProjectAuthorizer) HasPermission(ctx context.Context, project *models.Project, userID string, perm services.Permission) (bool, error) {
	if project.OwnerID == userID {
		return true, nil
	}

	if perm == services.PermissionView && project.Visibility == models.VisibilityPublic {
		return true, nil
	}

	role, err := a.projectRepo.GetMemberRole(ctx, project.ID, userID)
	if err != nil {
		return false, fmt.Errorf("check member role: %w", err)
	}
	if role == nil {
		return false, nil
	}
	return rolePermissions[*role][perm], nil
}
