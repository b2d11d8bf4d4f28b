// Package seed loads a small demo project so a fresh environment has
// something to browse. Content lives in embedded markdown files with a
// frontmatter block naming each document's path.
package seed

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
	"folio/internal/markdown"
)

//go:embed data/*.md
var dataFS embed.FS

const (
	// Fixed UUID so reruns upsert the same row; the users.id column is uuid.
	demoUserID      = "00000000-0000-4000-8000-000000000001"
	demoUserEmail   = "demo@folio.local"
	demoUserName    = "Demo Author"
	demoProjectSlug = "getting-started"
	demoProjectName = "Getting Started"
)

// Seeder creates the demo user, project and documents.
type Seeder struct {
	users     repositories.UserRepository
	projects  services.ProjectService
	documents services.DocumentService
	logger    *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(users repositories.UserRepository, projects services.ProjectService, documents services.DocumentService, logger *slog.Logger) *Seeder {
	return &Seeder{
		users:     users,
		projects:  projects,
		documents: documents,
		logger:    logger,
	}
}

// Run seeds the demo project. Safe to run repeatedly; an existing project
// is reused and document puts are upserts.
func (s *Seeder) Run(ctx context.Context) error {
	user := &models.User{
		ID:    demoUserID,
		Email: demoUserEmail,
		Name:  demoUserName,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	description := "A sample project showing the document tree and revision history."
	_, err := s.projects.CreateProject(ctx, &services.CreateProjectRequest{
		Slug:        demoProjectSlug,
		Name:        demoProjectName,
		Description: &description,
		Visibility:  "public",
	}, demoUserID)
	if err != nil && !errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("seed project: %w", err)
	}

	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return fmt.Errorf("read seed data: %w", err)
	}
	// Filenames are numbered so parents sort before their children.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		raw, err := dataFS.ReadFile("data/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		meta, body, err := markdown.ParseFrontmatter(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", entry.Name(), err)
		}

		req := &services.PutDocumentRequest{
			Title:    meta.Title,
			IsFolder: meta.IsFolder,
		}
		if meta.Message != "" {
			msg := meta.Message
			req.Message = &msg
		}
		if !meta.IsFolder {
			content := body
			req.Content = &content
		}

		if _, err := s.documents.PutDocument(ctx, demoProjectSlug, meta.Path, req, demoUserID); err != nil {
			return fmt.Errorf("seed document %q: %w", meta.Path, err)
		}
		s.logger.Info("seeded document", "path", meta.Path)
	}

	return nil
}
