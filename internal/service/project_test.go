package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/services"
	serviceauth "folio/internal/service/auth"
)

func newProjectFixture() (*fakeProjectRepo, services.ProjectService) {
	projects := newFakeProjectRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authorizer := serviceauth.NewProjectAuthorizer(projects, logger)
	return projects, NewProjectService(projects, authorizer, logger)
}

func TestCreateProject(t *testing.T) {
	_, svc := newProjectFixture()

	project, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		Slug: "my-docs",
		Name: "My Docs",
	}, ownerID)
	require.NoError(t, err)

	assert.NotEmpty(t, project.ID)
	assert.Equal(t, ownerID, project.OwnerID)
	assert.Equal(t, models.VisibilityPrivate, project.Visibility, "visibility defaults to private")
}

func TestCreateProjectValidation(t *testing.T) {
	_, svc := newProjectFixture()

	tests := []struct {
		name string
		req  *services.CreateProjectRequest
	}{
		{"missing slug", &services.CreateProjectRequest{Name: "Docs"}},
		{"missing name", &services.CreateProjectRequest{Slug: "docs"}},
		{"uppercase slug", &services.CreateProjectRequest{Slug: "My-Docs", Name: "Docs"}},
		{"slug with spaces", &services.CreateProjectRequest{Slug: "my docs", Name: "Docs"}},
		{"bad visibility", &services.CreateProjectRequest{Slug: "docs", Name: "Docs", Visibility: "hidden"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProject(context.Background(), tt.req, ownerID)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateProjectDuplicateSlug(t *testing.T) {
	_, svc := newProjectFixture()

	_, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{Slug: "docs", Name: "Docs"}, ownerID)
	require.NoError(t, err)

	_, err = svc.CreateProject(context.Background(), &services.CreateProjectRequest{Slug: "docs", Name: "Other"}, "someone-else")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetProjectVisibility(t *testing.T) {
	projects, svc := newProjectFixture()

	_, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		Slug: "secret", Name: "Secret",
	}, ownerID)
	require.NoError(t, err)
	_, err = svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		Slug: "open", Name: "Open", Visibility: "public",
	}, ownerID)
	require.NoError(t, err)

	_, err = svc.GetProject(context.Background(), "secret", "stranger")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.GetProject(context.Background(), "open", "stranger")
	require.NoError(t, err)
	assert.Equal(t, "open", got.Slug)

	// Members see private projects.
	secret := projects.projects["secret"]
	projects.members[secret.ID+"/member"] = models.RoleViewer
	got, err = svc.GetProject(context.Background(), "secret", "member")
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Slug)
}

func TestGetProjectNotFound(t *testing.T) {
	_, svc := newProjectFixture()

	_, err := svc.GetProject(context.Background(), "missing", ownerID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
