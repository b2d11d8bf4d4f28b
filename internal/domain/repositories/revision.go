package repositories

import (
	"context"

	"folio/internal/domain/models"
)

// RevisionRepository is the append-only revision ledger. It performs no
// business validation; the document service owns the invariants.
type RevisionRepository interface {
	// CreateBatch opens one batch for a logical operation.
	CreateBatch(ctx context.Context, batch *models.RevisionBatch) error

	// CreateRevision appends one document snapshot to a batch.
	CreateRevision(ctx context.Context, rev *models.DocumentRevision) error

	// ProjectActivity returns batches newest-first, each fully populated
	// with its revisions, the revisions' document paths and the acting
	// user's name. No lazy loading past this boundary.
	ProjectActivity(ctx context.Context, projectID string, skip, limit int) ([]models.ActivityBatch, error)

	// DocumentHistory returns a document's revisions newest-first, each
	// carrying its batch's user and message.
	DocumentHistory(ctx context.Context, documentID string, skip, limit int) ([]models.HistoryEntry, error)

	// DeleteByDocumentIDs drops all revisions belonging to the given
	// documents except those in keepBatchID. Supports the application-level
	// cascade on document deletion while the delete revision survives.
	DeleteByDocumentIDs(ctx context.Context, documentIDs []string, keepBatchID string) error
}
