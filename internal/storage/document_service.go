package storage

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/maruel/notedb/internal/models"
)

// DocumentService implements the document lifecycle. It mirrors NoteService
// except that documents carry no view counter and no editor tracking.
type DocumentService struct {
	meta  *Store
	files *FileStore
}

// NewDocumentService creates a document service.
func NewDocumentService(meta *Store, files *FileStore) *DocumentService {
	return &DocumentService{meta: meta, files: files}
}

// Create allocates the next document ID, writes the content file and appends
// the metadata record. An empty category becomes "general".
func (s *DocumentService) Create(title, content, category string, ownerID *string) (*models.Document, error) {
	if category == "" {
		category = "general"
	}
	var rec models.DocRecord
	_, err := s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		id := idx.NextDocID()
		filename := ContentFileName(id)
		if err := s.files.WriteContent(KindDoc, filename, content); err != nil {
			return false, err
		}
		now := time.Now().UTC()
		rec = models.DocRecord{
			Record: models.Record{
				ID:          id,
				Title:       title,
				Filename:    filename,
				Category:    category,
				OwnerID:     ownerID,
				Attachments: []models.Attachment{},
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		idx.Docs = append(idx.Docs, rec)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return docFromRecord(&rec, content), nil
}

// Get returns the document with the given ID.
func (s *DocumentService) Get(id int) (*models.Document, error) {
	idx := s.meta.Load()
	i := slices.IndexFunc(idx.Docs, func(r models.DocRecord) bool { return r.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	content, err := s.files.ReadContent(KindDoc, idx.Docs[i].Filename)
	if err != nil {
		return nil, err
	}
	return docFromRecord(&idx.Docs[i], content), nil
}

// List returns documents newest first by update time, filtered like
// NoteService.List.
func (s *DocumentService) List(category, query string) ([]*models.Document, error) {
	idx := s.meta.Load()
	query = strings.ToLower(query)
	docs := []*models.Document{}
	for i := range idx.Docs {
		rec := &idx.Docs[i]
		if category != "" && category != "all" && rec.Category != category {
			continue
		}
		content, err := s.files.ReadContent(KindDoc, rec.Filename)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(rec.Title), query) &&
			!strings.Contains(strings.ToLower(content), query) {
			continue
		}
		docs = append(docs, docFromRecord(rec, content))
	}
	slices.SortStableFunc(docs, func(a, b *models.Document) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return docs, nil
}

// Update applies the provided fields and stamps UpdatedAt, like
// NoteService.Update without editor tracking.
func (s *DocumentService) Update(id int, title, content, category *string) (bool, error) {
	return s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		i := slices.IndexFunc(idx.Docs, func(r models.DocRecord) bool { return r.ID == id })
		if i < 0 {
			return false, nil
		}
		rec := &idx.Docs[i]
		changed := false
		if title != nil {
			rec.Title = *title
			changed = true
		}
		if category != nil {
			rec.Category = *category
			changed = true
		}
		if content != nil {
			if err := s.files.WriteContent(KindDoc, rec.Filename, *content); err != nil {
				return false, err
			}
			changed = true
		}
		if changed {
			rec.UpdatedAt = time.Now().UTC()
		}
		return changed, nil
	})
}

// Delete removes the document's files and metadata record.
func (s *DocumentService) Delete(id int) (bool, error) {
	return s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		i := slices.IndexFunc(idx.Docs, func(r models.DocRecord) bool { return r.ID == id })
		if i < 0 {
			return false, nil
		}
		rec := &idx.Docs[i]
		s.files.DeleteContent(KindDoc, rec.Filename)
		for _, att := range rec.Attachments {
			s.files.DeleteAttachmentFile(KindDoc, att.StoredName)
		}
		idx.Docs = slices.Delete(idx.Docs, i, i+1)
		return true, nil
	})
}

// Categories returns the distinct document categories in ascending order.
func (s *DocumentService) Categories() []string {
	idx := s.meta.Load()
	seen := map[string]struct{}{}
	for i := range idx.Docs {
		cat := idx.Docs[i].Category
		if cat == "" {
			cat = "general"
		}
		seen[cat] = struct{}{}
	}
	cats := make([]string, 0, len(seen))
	for cat := range seen {
		cats = append(cats, cat)
	}
	slices.Sort(cats)
	return cats
}

// AddAttachment stores uploaded bytes for the document, checking the quota
// first.
func (s *DocumentService) AddAttachment(id int, originalName string, data []byte) (att models.Attachment, found bool, err error) {
	if err := s.files.CheckQuota(int64(len(data))); err != nil {
		return models.Attachment{}, false, err
	}
	_, err = s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		i := slices.IndexFunc(idx.Docs, func(r models.DocRecord) bool { return r.ID == id })
		if i < 0 {
			return false, nil
		}
		name := SanitizeFilename(originalName)
		if name == "" {
			return false, &ValidationError{Field: "filename", Reason: "empty after sanitization"}
		}
		a, err := s.files.SaveAttachment(KindDoc, id, name, data)
		if err != nil {
			return false, err
		}
		rec := &idx.Docs[i]
		rec.Attachments = append(rec.Attachments, a)
		rec.UpdatedAt = time.Now().UTC()
		att = a
		found = true
		return true, nil
	})
	return att, found, err
}

// RemoveAttachment deletes the stored file and drops the metadata entry.
func (s *DocumentService) RemoveAttachment(id int, storedName string) (bool, error) {
	return s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		i := slices.IndexFunc(idx.Docs, func(r models.DocRecord) bool { return r.ID == id })
		if i < 0 {
			return false, nil
		}
		rec := &idx.Docs[i]
		j := slices.IndexFunc(rec.Attachments, func(a models.Attachment) bool { return a.StoredName == storedName })
		if j < 0 {
			return false, nil
		}
		s.files.DeleteAttachmentFile(KindDoc, storedName)
		rec.Attachments = slices.Delete(rec.Attachments, j, j+1)
		rec.UpdatedAt = time.Now().UTC()
		return true, nil
	})
}

// FindAttachment returns the attachment entry with the given stored name.
func (s *DocumentService) FindAttachment(id int, storedName string) (models.Attachment, error) {
	idx := s.meta.Load()
	i := slices.IndexFunc(idx.Docs, func(r models.DocRecord) bool { return r.ID == id })
	if i < 0 {
		return models.Attachment{}, ErrNotFound
	}
	j := slices.IndexFunc(idx.Docs[i].Attachments, func(a models.Attachment) bool { return a.StoredName == storedName })
	if j < 0 {
		return models.Attachment{}, ErrNotFound
	}
	return idx.Docs[i].Attachments[j], nil
}

func docFromRecord(rec *models.DocRecord, content string) *models.Document {
	category := rec.Category
	if category == "" {
		category = "general"
	}
	attachments := rec.Attachments
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = rec.CreatedAt
	}
	return &models.Document{
		ID:          rec.ID,
		Title:       rec.Title,
		Content:     content,
		Category:    category,
		OwnerID:     rec.OwnerID,
		Attachments: attachments,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
