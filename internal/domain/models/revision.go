package models

import "time"

// ChangeType classifies a revision.
type ChangeType string

const (
	ChangeCreate ChangeType = "create"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
	ChangeRename ChangeType = "rename"
)

// RevisionBatch groups the revisions produced by one logical operation,
// like a commit. Append-only: never updated or deleted in normal operation.
type RevisionBatch struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	UserID    *string   `json:"user_id" db:"user_id"` // NULL once the user is deleted
	Message   *string   `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DocumentRevision is an immutable snapshot of one document at one change
// event. DocumentID is retained after the document row is deleted so the
// ledger keeps its historical linkage.
type DocumentRevision struct {
	ID         string     `json:"id" db:"id"`
	BatchID    string     `json:"batch_id" db:"batch_id"`
	DocumentID string     `json:"document_id" db:"document_id"`
	ChangeType ChangeType `json:"change_type" db:"change_type"`
	Title      string     `json:"title" db:"title"`
	Content    *string    `json:"content" db:"content"` // NULL for deletes and folders
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// ActivityItem summarizes one revision inside an activity batch.
// DocumentPath is NULL when the document no longer exists.
type ActivityItem struct {
	RevisionID    string     `json:"revision_id"`
	DocumentID    string     `json:"document_id"`
	ChangeType    ChangeType `json:"change_type"`
	DocumentTitle string     `json:"document_title"`
	DocumentPath  *string    `json:"document_path"`
}

// ActivityBatch is a fully populated batch for the activity feed. All joins
// happen at the ledger boundary; no lazy loading.
type ActivityBatch struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	UserID    *string        `json:"user_id"`
	UserName  *string        `json:"user_name"`
	Message   *string        `json:"message"`
	CreatedAt time.Time      `json:"created_at"`
	Documents []ActivityItem `json:"documents"`
}

// HistoryEntry is one revision of a document with its batch's attribution
// attached for display.
type HistoryEntry struct {
	ID         string     `json:"id"`
	BatchID    string     `json:"batch_id"`
	DocumentID string     `json:"document_id"`
	ChangeType ChangeType `json:"change_type"`
	Title      string     `json:"title"`
	Content    *string    `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UserID     *string    `json:"user_id"`
	UserName   *string    `json:"user_name"`
	Message    *string    `json:"message"`
}
