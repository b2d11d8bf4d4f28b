package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = `id, project_id, parent_id, slug, path, sort_index, is_folder, title, content, word_count, created_at, updated_at`

func scanDocument(row interface{ Scan(...interface{}) error }, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.ProjectID,
		&doc.ParentID,
		&doc.Slug,
		&doc.Path,
		&doc.SortIndex,
		&doc.IsFolder,
		&doc.Title,
		&doc.Content,
		&doc.WordCount,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
}

// Create inserts a new document. The unique constraints on (project_id, path)
// and (project_id, parent_id, slug) are the backstop for concurrent creates;
// the violated constraint decides which conflict the caller sees.
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, parent_id, slug, path, sort_index, is_folder, title, content, word_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ID,
		doc.ProjectID,
		doc.ParentID,
		doc.Slug,
		doc.Path,
		doc.SortIndex,
		doc.IsFolder,
		doc.Title,
		doc.Content,
		doc.WordCount,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if constraint := DuplicateConstraint(err); constraint != "" {
			if strings.HasSuffix(constraint, "parent_slug_key") {
				return fmt.Errorf("slug %q taken among siblings: %w", doc.Slug, domain.ErrDuplicateSlug)
			}
			return fmt.Errorf("path %q taken in project: %w", doc.Path, domain.ErrDuplicatePath)
		}
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetByPath retrieves a document by its project-scoped path.
func (r *PostgresDocumentRepository) GetByPath(ctx context.Context, projectID, path string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1 AND path = $2
	`, documentColumns, r.tables.Documents)

	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	if err := scanDocument(executor.QueryRow(ctx, query, projectID, path), &doc); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document at path %q: %w", path, domain.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("get document by path: %w", err)
	}
	return &doc, nil
}

// GetAllByProject returns the flat list ordered (parent_id NULLS FIRST,
// sort_index) so tree assembly sees parents before children.
func (r *PostgresDocumentRepository) GetAllByProject(ctx context.Context, projectID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1
		ORDER BY parent_id NULLS FIRST, sort_index
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list project documents: %w", err)
	}
	return docs, nil
}

// GetChildren lists direct children ordered by sort_index.
func (r *PostgresDocumentRepository) GetChildren(ctx context.Context, projectID string, parentID *string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		ORDER BY sort_index
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return docs, nil
}

// MaxIndex returns the highest sibling sort_index, -1 when the parent has
// no children yet.
func (r *PostgresDocumentRepository) MaxIndex(ctx context.Context, projectID string, parentID *string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(sort_index), -1)
		FROM %s
		WHERE project_id = $1 AND parent_id IS NOT DISTINCT FROM $2
	`, r.tables.Documents)

	var maxIndex int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, projectID, parentID).Scan(&maxIndex); err != nil {
		return 0, fmt.Errorf("max sibling index: %w", err)
	}
	return maxIndex, nil
}

// Update persists title, content and word count. Path, slug and parent are
// immutable post-creation.
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content = $2, word_count = $3, updated_at = now()
		WHERE id = $4 AND project_id = $5
		RETURNING updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.Title,
		doc.Content,
		doc.WordCount,
		doc.ID,
		doc.ProjectID,
	).Scan(&doc.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrDocumentNotFound)
		}
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

// SubtreeIDs walks the parent_id chain downward and returns the document
// and every descendant.
func (r *PostgresDocumentRepository) SubtreeIDs(ctx context.Context, projectID, documentID string) ([]string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %[1]s WHERE id = $1 AND project_id = $2
			UNION ALL
			SELECT d.id FROM %[1]s d
			JOIN subtree s ON d.parent_id = s.id
		)
		SELECT id FROM subtree
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID, projectID)
	if err != nil {
		return nil, fmt.Errorf("collect subtree: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subtree id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collect subtree: %w", err)
	}
	return ids, nil
}

// Delete removes the document row; the self-referential cascade takes the
// descendants with it.
func (r *PostgresDocumentRepository) Delete(ctx context.Context, projectID, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND project_id = $2`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, documentID, projectID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrDocumentNotFound)
	}
	return nil
}
