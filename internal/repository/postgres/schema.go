package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema for the given table prefix. Statements are
// idempotent so the command can run on every deploy.
//
// Referential topology:
//   - documents.parent_id cascades, so deleting a folder row removes the
//     whole subtree at the storage level.
//   - document_revisions.document_id has NO foreign key: a delete revision
//     outlives its document row. Revision cleanup for deleted subtrees is
//     application-level, inside the same transaction.
//   - revision_batches.user_id is SET NULL: deleting a user never erases
//     the ledger.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id uuid PRIMARY KEY,
				email varchar(320) NOT NULL UNIQUE,
				name varchar(200) NOT NULL,
				avatar_url varchar(500),
				created_at timestamptz NOT NULL DEFAULT now()
			)`, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id uuid PRIMARY KEY,
				slug varchar(100) NOT NULL UNIQUE,
				name varchar(200) NOT NULL,
				description text,
				visibility varchar(10) NOT NULL DEFAULT 'private',
				owner_id uuid NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			)`, tables.Projects, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				project_id uuid NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
				user_id uuid NOT NULL REFERENCES %[3]s(id) ON DELETE CASCADE,
				role varchar(10) NOT NULL,
				created_at timestamptz NOT NULL DEFAULT now(),
				PRIMARY KEY (project_id, user_id)
			)`, tables.ProjectMembers, tables.Projects, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id uuid PRIMARY KEY,
				project_id uuid NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
				parent_id uuid REFERENCES %[1]s(id) ON DELETE CASCADE,
				slug varchar(200) NOT NULL,
				path varchar(500) NOT NULL,
				sort_index integer NOT NULL DEFAULT 0,
				is_folder boolean NOT NULL DEFAULT false,
				title varchar(200) NOT NULL,
				content text,
				word_count integer NOT NULL DEFAULT 0,
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now(),
				CONSTRAINT %[1]s_project_path_key UNIQUE NULLS NOT DISTINCT (project_id, path),
				CONSTRAINT %[1]s_parent_slug_key UNIQUE NULLS NOT DISTINCT (project_id, parent_id, slug)
			)`, tables.Documents, tables.Projects),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %[1]s_project_parent_idx
			ON %[1]s (project_id, parent_id, sort_index)`, tables.Documents),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id uuid PRIMARY KEY,
				project_id uuid NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
				user_id uuid REFERENCES %[3]s(id) ON DELETE SET NULL,
				message varchar(500),
				created_at timestamptz NOT NULL DEFAULT now()
			)`, tables.RevisionBatches, tables.Projects, tables.Users),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %[1]s_project_idx
			ON %[1]s (project_id, created_at DESC)`, tables.RevisionBatches),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id uuid PRIMARY KEY,
				batch_id uuid NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
				document_id uuid NOT NULL,
				change_type varchar(10) NOT NULL,
				title varchar(200) NOT NULL,
				content text,
				created_at timestamptz NOT NULL DEFAULT now()
			)`, tables.DocumentRevisions, tables.RevisionBatches),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %[1]s_document_idx
			ON %[1]s (document_id, created_at DESC)`, tables.DocumentRevisions),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %[1]s_batch_idx
			ON %[1]s (batch_id)`, tables.DocumentRevisions),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Drop removes every table for the given prefix. Destructive; only the
// reset command calls this.
func Drop(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	names := []string{
		tables.DocumentRevisions,
		tables.RevisionBatches,
		tables.Documents,
		tables.ProjectMembers,
		tables.Projects,
		tables.Users,
	}
	for _, name := range names {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", name)); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}
