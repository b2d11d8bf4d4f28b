package services

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"folio/internal/domain/models"
)

// PutDocumentRequest is the payload for the path-addressed upsert.
type PutDocumentRequest struct {
	Title    string  `json:"title"`
	Content  *string `json:"content"`
	IsFolder bool    `json:"is_folder"`
	Message  *string `json:"message"`
}

// Validate checks the request before any storage access.
func (r *PutDocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Message, validation.Length(0, 500)),
	)
}

// DeleteDocumentRequest carries the optional commit message for a delete.
type DeleteDocumentRequest struct {
	Message *string `json:"message"`
}

// DocumentService is the orchestrator over the path resolver, document
// store and revision ledger. Every mutation runs under one transaction and
// writes exactly one revision batch.
type DocumentService interface {
	// PutDocument creates or updates the document at path (upsert).
	PutDocument(ctx context.Context, projectSlug, path string, req *PutDocumentRequest, userID string) (*models.Document, error)

	// GetDocument retrieves one document by path.
	GetDocument(ctx context.Context, projectSlug, path, userID string) (*models.Document, error)

	// DeleteDocument deletes the document at path and its whole subtree.
	DeleteDocument(ctx context.Context, projectSlug, path, userID string, message *string) error

	// GetDocumentTree returns the project's nested tree, children ordered
	// by index.
	GetDocumentTree(ctx context.Context, projectSlug, userID string) ([]*models.TreeNode, error)

	// GetProjectActivity returns the paginated activity feed.
	GetProjectActivity(ctx context.Context, projectSlug, userID string, skip, limit int) ([]models.ActivityBatch, error)

	// GetDocumentHistory returns the paginated revision history of one
	// document.
	GetDocumentHistory(ctx context.Context, projectSlug, path, userID string, skip, limit int) ([]models.HistoryEntry, error)
}
