package models

import "time"

// Document is a node in a project's content tree. Folders and leaf documents
// share the table; folders carry no content and may hold children.
type Document struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Slug      string    `json:"slug" db:"slug"`           // leaf segment, unique among siblings
	Path      string    `json:"path" db:"path"`           // full slash-joined address, unique per project
	SortIndex int       `json:"index" db:"sort_index"`    // sibling display order
	IsFolder  bool      `json:"is_folder" db:"is_folder"`
	Title     string    `json:"title" db:"title"`
	Content   *string   `json:"content" db:"content"` // markdown, NULL for folders
	WordCount int       `json:"word_count" db:"word_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Outline and Children are derived on read, never stored. Children is
	// populated only when reading a folder.
	Outline  []Heading  `json:"outline,omitempty" db:"-"`
	Children []Document `json:"children,omitempty" db:"-"`
}

// Heading is one entry of a document's outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// TreeNode is the nested representation served by the tree endpoint.
// Metadata only - content is fetched per document.
type TreeNode struct {
	ID       string      `json:"id"`
	Slug     string      `json:"slug"`
	Path     string      `json:"path"`
	Title    string      `json:"title"`
	Index    int         `json:"index"`
	IsFolder bool        `json:"is_folder"`
	Children []*TreeNode `json:"children"`
}
