package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
)

// PostgresRevisionRepository implements the RevisionRepository interface.
// The ledger is append-only: batches and revisions are inserted, paged and
// joined, never updated.
type PostgresRevisionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewRevisionRepository creates a new revision repository
func NewRevisionRepository(config *RepositoryConfig) repositories.RevisionRepository {
	return &PostgresRevisionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// CreateBatch opens one batch for a logical operation.
func (r *PostgresRevisionRepository) CreateBatch(ctx context.Context, batch *models.RevisionBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, user_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, r.tables.RevisionBatches)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		batch.ID,
		batch.ProjectID,
		batch.UserID,
		batch.Message,
	).Scan(&batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("create revision batch: %w", err)
	}
	return nil
}

// CreateRevision appends one snapshot to a batch.
func (r *PostgresRevisionRepository) CreateRevision(ctx context.Context, rev *models.DocumentRevision) error {
	if rev.ID == "" {
		rev.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, batch_id, document_id, change_type, title, content)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, r.tables.DocumentRevisions)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		rev.ID,
		rev.BatchID,
		rev.DocumentID,
		rev.ChangeType,
		rev.Title,
		rev.Content,
	).Scan(&rev.CreatedAt)
	if err != nil {
		return fmt.Errorf("create revision: %w", err)
	}
	return nil
}

// ProjectActivity pages batches newest-first and attaches their revisions
// with document paths and user names in one extra query - two round trips
// total, independent of page size.
func (r *PostgresRevisionRepository) ProjectActivity(ctx context.Context, projectID string, skip, limit int) ([]models.ActivityBatch, error) {
	batchQuery := fmt.Sprintf(`
		SELECT b.id, b.project_id, b.user_id, u.name, b.message, b.created_at
		FROM %s b
		LEFT JOIN %s u ON u.id = b.user_id
		WHERE b.project_id = $1
		ORDER BY b.created_at DESC, b.id
		OFFSET $2 LIMIT $3
	`, r.tables.RevisionBatches, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, batchQuery, projectID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity batches: %w", err)
	}
	defer rows.Close()

	var batches []models.ActivityBatch
	var batchIDs []string
	byID := make(map[string]int)
	for rows.Next() {
		var b models.ActivityBatch
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.UserID, &b.UserName, &b.Message, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity batch: %w", err)
		}
		b.Documents = []models.ActivityItem{}
		byID[b.ID] = len(batches)
		batchIDs = append(batchIDs, b.ID)
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activity batches: %w", err)
	}
	rows.Close()

	if len(batches) == 0 {
		return []models.ActivityBatch{}, nil
	}

	// LEFT JOIN keeps revisions whose document row is gone; their path
	// comes back NULL and the snapshot title still displays.
	revisionQuery := fmt.Sprintf(`
		SELECT r.batch_id, r.id, r.document_id, r.change_type, r.title, d.path
		FROM %s r
		LEFT JOIN %s d ON d.id = r.document_id
		WHERE r.batch_id = ANY($1)
		ORDER BY r.created_at
	`, r.tables.DocumentRevisions, r.tables.Documents)

	revRows, err := executor.Query(ctx, revisionQuery, batchIDs)
	if err != nil {
		return nil, fmt.Errorf("list activity revisions: %w", err)
	}
	defer revRows.Close()

	for revRows.Next() {
		var batchID string
		var item models.ActivityItem
		if err := revRows.Scan(&batchID, &item.RevisionID, &item.DocumentID, &item.ChangeType, &item.DocumentTitle, &item.DocumentPath); err != nil {
			return nil, fmt.Errorf("scan activity revision: %w", err)
		}
		if i, ok := byID[batchID]; ok {
			batches[i].Documents = append(batches[i].Documents, item)
		}
	}
	if err := revRows.Err(); err != nil {
		return nil, fmt.Errorf("list activity revisions: %w", err)
	}
	return batches, nil
}

// DocumentHistory pages one document's revisions newest-first, each joined
// with its batch's user and message.
func (r *PostgresRevisionRepository) DocumentHistory(ctx context.Context, documentID string, skip, limit int) ([]models.HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT r.id, r.batch_id, r.document_id, r.change_type, r.title, r.content,
		       b.created_at, b.user_id, u.name, b.message
		FROM %s r
		JOIN %s b ON b.id = r.batch_id
		LEFT JOIN %s u ON u.id = b.user_id
		WHERE r.document_id = $1
		ORDER BY r.created_at DESC, r.id
		OFFSET $2 LIMIT $3
	`, r.tables.DocumentRevisions, r.tables.RevisionBatches, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list document history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.BatchID, &e.DocumentID, &e.ChangeType, &e.Title, &e.Content,
			&e.CreatedAt, &e.UserID, &e.UserName, &e.Message); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list document history: %w", err)
	}
	return entries, nil
}

// DeleteByDocumentIDs drops the revisions of the given documents except
// those in keepBatchID, so a just-written delete revision survives the
// cascade it triggers.
func (r *PostgresRevisionRepository) DeleteByDocumentIDs(ctx context.Context, documentIDs []string, keepBatchID string) error {
	if len(documentIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = ANY($1) AND batch_id <> $2
	`, r.tables.DocumentRevisions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentIDs, keepBatchID); err != nil {
		return fmt.Errorf("delete subtree revisions: %w", err)
	}
	return nil
}
