package postgres

import "fmt"

// TableNames holds environment-prefixed table names. The SQL strings are
// interpolated before reaching the database, so each environment gets its
// own statements.
type TableNames struct {
	Users             string
	Projects          string
	ProjectMembers    string
	Documents         string
	RevisionBatches   string
	DocumentRevisions string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:             fmt.Sprintf("%susers", prefix),
		Projects:          fmt.Sprintf("%sprojects", prefix),
		ProjectMembers:    fmt.Sprintf("%sproject_members", prefix),
		Documents:         fmt.Sprintf("%sdocuments", prefix),
		RevisionBatches:   fmt.Sprintf("%srevision_batches", prefix),
		DocumentRevisions: fmt.Sprintf("%sdocument_revisions", prefix),
	}
}
