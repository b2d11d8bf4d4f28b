package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"folio/internal/docpath"
	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
	"folio/internal/markdown"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// documentService implements the DocumentService interface. It is the only
// component with cross-entity invariants: path/parent consistency, sibling
// ordering, and the one-batch-per-mutation ledger contract.
type documentService struct {
	docRepo      repositories.DocumentRepository
	revisionRepo repositories.RevisionRepository
	projectRepo  repositories.ProjectRepository
	txManager    repositories.TransactionManager
	authorizer   services.Authorizer
	analyzer     *markdown.Analyzer
	logger       *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	revisionRepo repositories.RevisionRepository,
	projectRepo repositories.ProjectRepository,
	txManager repositories.TransactionManager,
	authorizer services.Authorizer,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:      docRepo,
		revisionRepo: revisionRepo,
		projectRepo:  projectRepo,
		txManager:    txManager,
		authorizer:   authorizer,
		analyzer:     markdown.NewAnalyzer(),
		logger:       logger,
	}
}

// PutDocument creates or updates the document at path. The row mutation and
// its batch+revision commit in one transaction or not at all.
func (s *documentService) PutDocument(ctx context.Context, projectSlug, path string, req *services.PutDocumentRequest, userID string) (*models.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.resolveAccess(ctx, projectSlug, userID, services.PermissionEdit)
	if err != nil {
		return nil, err
	}

	path = docpath.Normalize(path)
	if err := docpath.Validate(path); err != nil {
		return nil, err
	}
	parentPath, slug, err := docpath.Split(path)
	if err != nil {
		return nil, err
	}

	wordCount := 0
	if req.Content != nil {
		wordCount = s.analyzer.CountWords(*req.Content)
	}

	var doc *models.Document
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var parentID *string
		if parentPath != nil {
			parent, err := s.docRepo.GetByPath(txCtx, project.ID, *parentPath)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("parent %q: %w", *parentPath, domain.ErrParentNotFound)
				}
				return err
			}
			if !parent.IsFolder {
				return fmt.Errorf("parent %q is not a folder: %w", *parentPath, domain.ErrInvalidPath)
			}
			parentID = &parent.ID
		}

		existing, err := s.docRepo.GetByPath(txCtx, project.ID, path)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		batch := &models.RevisionBatch{
			ProjectID: project.ID,
			UserID:    &userID,
			Message:   req.Message,
		}
		if err := s.revisionRepo.CreateBatch(txCtx, batch); err != nil {
			return err
		}

		var changeType models.ChangeType
		if existing != nil {
			changeType = classifyChange(existing, req.Title, req.Content)
			existing.Title = req.Title
			existing.Content = req.Content
			existing.WordCount = wordCount
			if err := s.docRepo.Update(txCtx, existing); err != nil {
				return err
			}
			doc = existing
		} else {
			changeType = models.ChangeCreate
			maxIndex, err := s.docRepo.MaxIndex(txCtx, project.ID, parentID)
			if err != nil {
				return err
			}
			doc = &models.Document{
				ProjectID: project.ID,
				ParentID:  parentID,
				Slug:      slug,
				Path:      path,
				SortIndex: maxIndex + 1,
				IsFolder:  req.IsFolder,
				Title:     req.Title,
				Content:   req.Content,
				WordCount: wordCount,
			}
			if err := s.docRepo.Create(txCtx, doc); err != nil {
				return err
			}
		}

		return s.revisionRepo.CreateRevision(txCtx, &models.DocumentRevision{
			BatchID:    batch.ID,
			DocumentID: doc.ID,
			ChangeType: changeType,
			Title:      doc.Title,
			Content:    doc.Content,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document upserted",
		"project", project.Slug,
		"path", path,
		"doc_id", doc.ID,
		"user_id", userID,
	)
	return doc, nil
}

// GetDocument retrieves one document by path. Leaf documents carry a
// heading outline derived from their content; folders carry their direct
// children in display order.
func (s *documentService) GetDocument(ctx context.Context, projectSlug, path, userID string) (*models.Document, error) {
	project, err := s.resolveAccess(ctx, projectSlug, userID, services.PermissionView)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByPath(ctx, project.ID, docpath.Normalize(path))
	if err != nil {
		return nil, err
	}
	if doc.Content != nil {
		doc.Outline = s.analyzer.Outline(*doc.Content)
	}
	if doc.IsFolder {
		doc.Children, err = s.docRepo.GetChildren(ctx, project.ID, &doc.ID)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// DeleteDocument removes the document at path and its whole subtree. The
// subtree's history goes with it; the single delete revision written into
// this operation's batch survives as the terminal ledger entry.
func (s *documentService) DeleteDocument(ctx context.Context, projectSlug, path, userID string, message *string) error {
	project, err := s.resolveAccess(ctx, projectSlug, userID, services.PermissionEdit)
	if err != nil {
		return err
	}
	path = docpath.Normalize(path)

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		doc, err := s.docRepo.GetByPath(txCtx, project.ID, path)
		if err != nil {
			return err
		}

		batch := &models.RevisionBatch{
			ProjectID: project.ID,
			UserID:    &userID,
			Message:   message,
		}
		if err := s.revisionRepo.CreateBatch(txCtx, batch); err != nil {
			return err
		}

		subtree, err := s.docRepo.SubtreeIDs(txCtx, project.ID, doc.ID)
		if err != nil {
			return err
		}
		if err := s.revisionRepo.DeleteByDocumentIDs(txCtx, subtree, batch.ID); err != nil {
			return err
		}
		if err := s.docRepo.Delete(txCtx, project.ID, doc.ID); err != nil {
			return err
		}

		return s.revisionRepo.CreateRevision(txCtx, &models.DocumentRevision{
			BatchID:    batch.ID,
			DocumentID: doc.ID,
			ChangeType: models.ChangeDelete,
			Title:      doc.Title,
			Content:    nil,
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("document deleted",
		"project", project.Slug,
		"path", path,
		"user_id", userID,
	)
	return nil
}

// GetDocumentTree materializes the project's nested tree from one flat
// query: an id-to-node map, a second linking pass, then an index sort at
// every level.
func (s *documentService) GetDocumentTree(ctx context.Context, projectSlug, userID string) ([]*models.TreeNode, error) {
	project, err := s.resolveAccess(ctx, projectSlug, userID, services.PermissionView)
	if err != nil {
		return nil, err
	}

	docs, err := s.docRepo.GetAllByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	return buildTree(docs), nil
}

// GetProjectActivity returns the paginated activity feed.
func (s *documentService) GetProjectActivity(ctx context.Context, projectSlug, userID string, skip, limit int) ([]models.ActivityBatch, error) {
	project, err := s.resolveAccess(ctx, projectSlug, userID, services.PermissionView)
	if err != nil {
		return nil, err
	}
	skip, limit = clampPage(skip, limit)
	return s.revisionRepo.ProjectActivity(ctx, project.ID, skip, limit)
}

// GetDocumentHistory returns the paginated revision history of the document
// at path.
func (s *documentService) GetDocumentHistory(ctx context.Context, projectSlug, path, userID string, skip, limit int) ([]models.HistoryEntry, error) {
	project, err := s.resolveAccess(ctx, projectSlug, userID, services.PermissionView)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByPath(ctx, project.ID, docpath.Normalize(path))
	if err != nil {
		return nil, err
	}
	skip, limit = clampPage(skip, limit)
	return s.revisionRepo.DocumentHistory(ctx, doc.ID, skip, limit)
}

// resolveAccess loads the project and consults the authorization gate. A
// denied check happens before any storage mutation.
func (s *documentService) resolveAccess(ctx context.Context, projectSlug, userID string, perm services.Permission) (*models.Project, error) {
	project, err := s.projectRepo.GetBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}

	allowed, err := s.authorizer.HasPermission(ctx, project, userID, perm)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%s on project %q: %w", perm, projectSlug, domain.ErrPermissionDenied)
	}
	return project, nil
}

// classifyChange decides the revision type for an upsert of an existing
// document: a title change with untouched content is a rename, anything
// else is an update. Equality only - no diffing.
func classifyChange(existing *models.Document, newTitle string, newContent *string) models.ChangeType {
	titleChanged := existing.Title != newTitle
	contentChanged := !contentEqual(existing.Content, newContent)

	if titleChanged && !contentChanged {
		return models.ChangeRename
	}
	return models.ChangeUpdate
}

func contentEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// buildTree assembles the nested tree from the flat document list. A node
// whose parent id is unexpectedly missing is dropped rather than failing
// the whole read.
func buildTree(docs []models.Document) []*models.TreeNode {
	nodes := make(map[string]*models.TreeNode, len(docs))
	for _, doc := range docs {
		nodes[doc.ID] = &models.TreeNode{
			ID:       doc.ID,
			Slug:     doc.Slug,
			Path:     doc.Path,
			Title:    doc.Title,
			Index:    doc.SortIndex,
			IsFolder: doc.IsFolder,
			Children: []*models.TreeNode{},
		}
	}

	roots := []*models.TreeNode{}
	for _, doc := range docs {
		node := nodes[doc.ID]
		if doc.ParentID == nil {
			roots = append(roots, node)
		} else if parent, ok := nodes[*doc.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	sortTree(roots)
	return roots
}

func sortTree(nodes []*models.TreeNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Index < nodes[j].Index })
	for _, n := range nodes {
		sortTree(n.Children)
	}
}

func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return skip, limit
}
