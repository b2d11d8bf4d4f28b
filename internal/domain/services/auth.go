package services

import (
	"context"

	"folio/internal/domain/models"
)

// Permission is a capability checked before any project operation.
type Permission string

const (
	PermissionView          Permission = "view"
	PermissionEdit          Permission = "edit"
	PermissionManageMembers Permission = "manage_members"
)

// Authorizer answers "may user U perform action A on project P". It is
// consulted exactly once per operation, before any storage mutation.
type Authorizer interface {
	HasPermission(ctx context.Context, project *models.Project, userID string, perm Permission) (bool, error)
}
