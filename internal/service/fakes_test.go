package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
)

// In-memory repository fakes. They mirror the storage contracts closely
// enough to exercise the service's invariants, including transactional
// rollback via snapshot/restore in fakeTxManager.

type fakeDocumentRepo struct {
	docs map[string]*models.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*models.Document)}
}

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	for _, d := range r.docs {
		if d.ProjectID == doc.ProjectID && d.Path == doc.Path {
			return fmt.Errorf("path %q: %w", doc.Path, domain.ErrDuplicatePath)
		}
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetByPath(ctx context.Context, projectID, path string) (*models.Document, error) {
	for _, d := range r.docs {
		if d.ProjectID == projectID && d.Path == path {
			copied := *d
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("path %q: %w", path, domain.ErrDocumentNotFound)
}

func (r *fakeDocumentRepo) GetAllByProject(ctx context.Context, projectID string) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.docs {
		if d.ProjectID == projectID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (r *fakeDocumentRepo) GetChildren(ctx context.Context, projectID string, parentID *string) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.docs {
		if d.ProjectID == projectID && ptrEqual(d.ParentID, parentID) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortIndex < out[j].SortIndex })
	return out, nil
}

func (r *fakeDocumentRepo) MaxIndex(ctx context.Context, projectID string, parentID *string) (int, error) {
	maxIndex := -1
	for _, d := range r.docs {
		if d.ProjectID == projectID && ptrEqual(d.ParentID, parentID) && d.SortIndex > maxIndex {
			maxIndex = d.SortIndex
		}
	}
	return maxIndex, nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, doc *models.Document) error {
	stored, ok := r.docs[doc.ID]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	stored.Title = doc.Title
	stored.Content = doc.Content
	stored.WordCount = doc.WordCount
	stored.UpdatedAt = time.Now()
	doc.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakeDocumentRepo) SubtreeIDs(ctx context.Context, projectID, documentID string) ([]string, error) {
	ids := []string{documentID}
	frontier := []string{documentID}
	for len(frontier) > 0 {
		var next []string
		for _, d := range r.docs {
			if d.ParentID == nil {
				continue
			}
			for _, p := range frontier {
				if *d.ParentID == p {
					ids = append(ids, d.ID)
					next = append(next, d.ID)
				}
			}
		}
		frontier = next
	}
	return ids, nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, projectID, documentID string) error {
	if _, ok := r.docs[documentID]; !ok {
		return domain.ErrDocumentNotFound
	}
	ids, _ := r.SubtreeIDs(ctx, projectID, documentID)
	for _, id := range ids {
		delete(r.docs, id)
	}
	return nil
}

func (r *fakeDocumentRepo) snapshot() map[string]*models.Document {
	snap := make(map[string]*models.Document, len(r.docs))
	for id, d := range r.docs {
		copied := *d
		snap[id] = &copied
	}
	return snap
}

type fakeRevisionRepo struct {
	docRepo   *fakeDocumentRepo
	userNames map[string]string

	batches   []models.RevisionBatch
	revisions []models.DocumentRevision

	// Monotonic fake clock so newest-first ordering is deterministic.
	clock time.Time

	failCreateRevision error
}

func newFakeRevisionRepo(docRepo *fakeDocumentRepo) *fakeRevisionRepo {
	return &fakeRevisionRepo{
		docRepo:   docRepo,
		userNames: make(map[string]string),
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRevisionRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Millisecond)
	return r.clock
}

func (r *fakeRevisionRepo) CreateBatch(ctx context.Context, batch *models.RevisionBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	batch.CreatedAt = r.tick()
	r.batches = append(r.batches, *batch)
	return nil
}

func (r *fakeRevisionRepo) CreateRevision(ctx context.Context, rev *models.DocumentRevision) error {
	if r.failCreateRevision != nil {
		return r.failCreateRevision
	}
	if rev.ID == "" {
		rev.ID = uuid.New().String()
	}
	rev.CreatedAt = r.tick()
	r.revisions = append(r.revisions, *rev)
	return nil
}

func (r *fakeRevisionRepo) ProjectActivity(ctx context.Context, projectID string, skip, limit int) ([]models.ActivityBatch, error) {
	ordered := append([]models.RevisionBatch(nil), r.batches...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	var out []models.ActivityBatch
	for _, b := range ordered {
		if b.ProjectID != projectID {
			continue
		}
		ab := models.ActivityBatch{
			ID:        b.ID,
			ProjectID: b.ProjectID,
			UserID:    b.UserID,
			Message:   b.Message,
			CreatedAt: b.CreatedAt,
			Documents: []models.ActivityItem{},
		}
		if b.UserID != nil {
			if name, ok := r.userNames[*b.UserID]; ok {
				ab.UserName = &name
			}
		}
		for _, rev := range r.revisions {
			if rev.BatchID != b.ID {
				continue
			}
			item := models.ActivityItem{
				RevisionID:    rev.ID,
				DocumentID:    rev.DocumentID,
				ChangeType:    rev.ChangeType,
				DocumentTitle: rev.Title,
			}
			if d, ok := r.docRepo.docs[rev.DocumentID]; ok {
				path := d.Path
				item.DocumentPath = &path
			}
			ab.Documents = append(ab.Documents, item)
		}
		out = append(out, ab)
	}
	return page(out, skip, limit), nil
}

func (r *fakeRevisionRepo) DocumentHistory(ctx context.Context, documentID string, skip, limit int) ([]models.HistoryEntry, error) {
	ordered := append([]models.DocumentRevision(nil), r.revisions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	var out []models.HistoryEntry
	for _, rev := range ordered {
		if rev.DocumentID != documentID {
			continue
		}
		entry := models.HistoryEntry{
			ID:         rev.ID,
			BatchID:    rev.BatchID,
			DocumentID: rev.DocumentID,
			ChangeType: rev.ChangeType,
			Title:      rev.Title,
			Content:    rev.Content,
			CreatedAt:  rev.CreatedAt,
		}
		for _, b := range r.batches {
			if b.ID == rev.BatchID {
				entry.UserID = b.UserID
				entry.Message = b.Message
				if b.UserID != nil {
					if name, ok := r.userNames[*b.UserID]; ok {
						entry.UserName = &name
					}
				}
				break
			}
		}
		out = append(out, entry)
	}
	return page(out, skip, limit), nil
}

func (r *fakeRevisionRepo) DeleteByDocumentIDs(ctx context.Context, documentIDs []string, keepBatchID string) error {
	doomed := make(map[string]bool, len(documentIDs))
	for _, id := range documentIDs {
		doomed[id] = true
	}
	kept := r.revisions[:0]
	for _, rev := range r.revisions {
		if doomed[rev.DocumentID] && rev.BatchID != keepBatchID {
			continue
		}
		kept = append(kept, rev)
	}
	r.revisions = kept
	return nil
}

func page[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

type fakeProjectRepo struct {
	projects map[string]*models.Project
	members  map[string]models.MemberRole // projectID + "/" + userID
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[string]*models.Project),
		members:  make(map[string]models.MemberRole),
	}
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if _, ok := r.projects[project.Slug]; ok {
		return fmt.Errorf("slug %q: %w", project.Slug, domain.ErrDuplicateProject)
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	copied := *project
	r.projects[project.Slug] = &copied
	return nil
}

func (r *fakeProjectRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	p, ok := r.projects[slug]
	if !ok {
		return nil, fmt.Errorf("slug %q: %w", slug, domain.ErrProjectNotFound)
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProjectRepo) ListForUser(ctx context.Context, userID string) ([]models.Project, error) {
	var out []models.Project
	for _, p := range r.projects {
		if p.OwnerID == userID || p.Visibility == models.VisibilityPublic {
			out = append(out, *p)
			continue
		}
		if _, ok := r.members[p.ID+"/"+userID]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) GetMemberRole(ctx context.Context, projectID, userID string) (*models.MemberRole, error) {
	role, ok := r.members[projectID+"/"+userID]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

// fakeTxManager snapshots mutable state before the unit of work and restores
// it when the function fails, matching real rollback semantics.
type fakeTxManager struct {
	docs *fakeDocumentRepo
	revs *fakeRevisionRepo
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	docSnap := m.docs.snapshot()
	batchSnap := append([]models.RevisionBatch(nil), m.revs.batches...)
	revSnap := append([]models.DocumentRevision(nil), m.revs.revisions...)

	if err := fn(ctx); err != nil {
		m.docs.docs = docSnap
		m.revs.batches = batchSnap
		m.revs.revisions = revSnap
		return err
	}
	return nil
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
