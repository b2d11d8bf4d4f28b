package repositories

import (
	"context"

	"folio/internal/domain/models"
)

// DocumentRepository defines data access for the document tree. Lookup
// misses return errors matching domain.ErrNotFound via errors.Is.
type DocumentRepository interface {
	// Create inserts a new document. Returns ErrDuplicatePath or
	// ErrDuplicateSlug when a uniqueness constraint loses a race.
	Create(ctx context.Context, doc *models.Document) error

	// GetByPath retrieves a document by its project-scoped path.
	GetByPath(ctx context.Context, projectID, path string) (*models.Document, error)

	// GetAllByProject returns the project's flat document list ordered
	// (parent_id NULLS FIRST, sort_index) for tree assembly.
	GetAllByProject(ctx context.Context, projectID string) ([]models.Document, error)

	// GetChildren lists direct children ordered by sort_index. A nil
	// parentID selects root-level documents.
	GetChildren(ctx context.Context, projectID string, parentID *string) ([]models.Document, error)

	// MaxIndex returns the highest sibling sort_index, -1 when no siblings
	// exist, so the next index is always MaxIndex+1.
	MaxIndex(ctx context.Context, projectID string, parentID *string) (int, error)

	// Update persists title, content and word count in place. Path, slug
	// and parent are immutable after creation.
	Update(ctx context.Context, doc *models.Document) error

	// SubtreeIDs returns the ids of the document and all its descendants.
	SubtreeIDs(ctx context.Context, projectID, documentID string) ([]string, error)

	// Delete removes a document row; descendants cascade at the storage
	// level. Revision cleanup is the caller's responsibility and must
	// happen in the same transaction.
	Delete(ctx context.Context, projectID, documentID string) error
}
