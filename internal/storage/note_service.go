package storage

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/maruel/notedb/internal/models"
)

// NoteService implements the note lifecycle over the metadata store and the
// file store. All mutations run inside a single Store.Update cycle so the
// index on disk always reflects a completed operation.
type NoteService struct {
	meta  *Store
	files *FileStore
}

// NewNoteService creates a note service.
func NewNoteService(meta *Store, files *FileStore) *NoteService {
	return &NoteService{meta: meta, files: files}
}

// Create allocates the next note ID, writes the content file and appends the
// metadata record. An empty category becomes "general".
func (s *NoteService) Create(title, content, category string, ownerID *string) (*models.Note, error) {
	if category == "" {
		category = "general"
	}
	var rec models.NoteRecord
	_, err := s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		id := idx.NextNoteID()
		filename := ContentFileName(id)
		if err := s.files.WriteContent(KindNote, filename, content); err != nil {
			return false, err
		}
		now := time.Now().UTC()
		rec = models.NoteRecord{
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
		idx.Notes = append(idx.Notes, rec)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return noteFromRecord(&rec, content), nil
}

// Get returns the note with the given ID. ErrNotFound when no record matches
// or its content file is gone.
func (s *NoteService) Get(id int) (*models.Note, error) {
	idx := s.meta.Load()
	i := slices.IndexFunc(idx.Notes, func(r models.NoteRecord) bool { return r.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	content, err := s.files.ReadContent(KindNote, idx.Notes[i].Filename)
	if err != nil {
		return nil, err
	}
	return noteFromRecord(&idx.Notes[i], content), nil
}

// List returns notes newest first by update time. Category "" or "all"
// disables the category filter; query matches title or content
// case-insensitively. Records whose content file has gone missing are
// skipped rather than failing the whole listing.
func (s *NoteService) List(category, query string) ([]*models.Note, error) {
	idx := s.meta.Load()
	query = strings.ToLower(query)
	notes := []*models.Note{}
	for i := range idx.Notes {
		rec := &idx.Notes[i]
		if category != "" && category != "all" && rec.Category != category {
			continue
		}
		content, err := s.files.ReadContent(KindNote, rec.Filename)
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
		notes = append(notes, noteFromRecord(rec, content))
	}
	slices.SortStableFunc(notes, func(a, b *models.Note) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return notes, nil
}

// Update applies the provided fields and stamps UpdatedAt. A nil field is
// left alone; a non-nil field is applied even when equal to the current
// value. Content rewrites the content file in place. editorID is recorded as
// UpdatedBy only when something was applied. Returns false with no error
// when the ID is unknown.
func (s *NoteService) Update(id int, title, content, category, editorID *string) (bool, error) {
	return s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		i := slices.IndexFunc(idx.Notes, func(r models.NoteRecord) bool { return r.ID == id })
		if i < 0 {
			return false, nil
		}
		rec := &idx.Notes[i]
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
			if err := s.files.WriteContent(KindNote, rec.Filename, *content); err != nil {
				return false, err
			}
			changed = true
		}
		if changed {
			rec.UpdatedAt = time.Now().UTC()
			if editorID != nil {
				rec.UpdatedBy = editorID
			}
		}
		return changed, nil
	})
}

// Delete removes the note's content file, its attachment files and the
// metadata record. File removals are best effort; the record removal is what
// counts. Returns false when the ID is unknown.
func (s *NoteService) Delete(id int) (bool, error) {
	return s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		i := slices.IndexFunc(idx.Notes, func(r models.NoteRecord) bool { return r.ID == id })
		if i < 0 {
			return false, nil
		}
		rec := &idx.Notes[i]
		s.files.DeleteContent(KindNote, rec.Filename)
		for _, att := range rec.Attachments {
			s.files.DeleteAttachmentFile(KindNote, att.StoredName)
		}
		idx.Notes = slices.Delete(idx.Notes, i, i+1)
		return true, nil
	})
}

// IncrementViewCount bumps the note's view counter without touching
// UpdatedAt. Returns false when the ID is unknown.
func (s *NoteService) IncrementViewCount(id int) (bool, error) {
	return s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		i := slices.IndexFunc(idx.Notes, func(r models.NoteRecord) bool { return r.ID == id })
		if i < 0 {
			return false, nil
		}
		idx.Notes[i].ViewCount++
		return true, nil
	})
}

// Categories returns the distinct note categories in ascending order, with
// records missing a category counted as "general".
func (s *NoteService) Categories() []string {
	idx := s.meta.Load()
	seen := map[string]struct{}{}
	for i := range idx.Notes {
		cat := idx.Notes[i].Category
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

// AddAttachment stores uploaded bytes for the note and records them in its
// attachment list, stamping UpdatedAt. The storage quota is checked before
// anything is written. found is false when the ID is unknown.
func (s *NoteService) AddAttachment(id int, originalName string, data []byte) (att models.Attachment, found bool, err error) {
	if err := s.files.CheckQuota(int64(len(data))); err != nil {
		return models.Attachment{}, false, err
	}
	_, err = s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		i := slices.IndexFunc(idx.Notes, func(r models.NoteRecord) bool { return r.ID == id })
		if i < 0 {
			return false, nil
		}
		name := SanitizeFilename(originalName)
		if name == "" {
			return false, &ValidationError{Field: "filename", Reason: "empty after sanitization"}
		}
		a, err := s.files.SaveAttachment(KindNote, id, name, data)
		if err != nil {
			return false, err
		}
		rec := &idx.Notes[i]
		rec.Attachments = append(rec.Attachments, a)
		rec.UpdatedAt = time.Now().UTC()
		att = a
		found = true
		return true, nil
	})
	return att, found, err
}

// RemoveAttachment deletes the stored file and drops the metadata entry. The
// entry is dropped even when the file was already gone. Returns false when
// the note or the entry is unknown.
func (s *NoteService) RemoveAttachment(id int, storedName string) (bool, error) {
	return s.meta.Update(func(idx *models.MetadataIndex) (bool, error) {
		i := slices.IndexFunc(idx.Notes, func(r models.NoteRecord) bool { return r.ID == id })
		if i < 0 {
			return false, nil
		}
		rec := &idx.Notes[i]
		j := slices.IndexFunc(rec.Attachments, func(a models.Attachment) bool { return a.StoredName == storedName })
		if j < 0 {
			return false, nil
		}
		s.files.DeleteAttachmentFile(KindNote, storedName)
		rec.Attachments = slices.Delete(rec.Attachments, j, j+1)
		rec.UpdatedAt = time.Now().UTC()
		return true, nil
	})
}

// FindAttachment returns the attachment entry with the given stored name.
// ErrNotFound when the note or the entry is missing.
func (s *NoteService) FindAttachment(id int, storedName string) (models.Attachment, error) {
	idx := s.meta.Load()
	i := slices.IndexFunc(idx.Notes, func(r models.NoteRecord) bool { return r.ID == id })
	if i < 0 {
		return models.Attachment{}, ErrNotFound
	}
	j := slices.IndexFunc(idx.Notes[i].Attachments, func(a models.Attachment) bool { return a.StoredName == storedName })
	if j < 0 {
		return models.Attachment{}, ErrNotFound
	}
	return idx.Notes[i].Attachments[j], nil
}

// noteFromRecord joins a record with its content into the read model. A
// missing category reads as "general" and a zero UpdatedAt falls back to
// CreatedAt, so records written by older versions still come back complete.
func noteFromRecord(rec *models.NoteRecord, content string) *models.Note {
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
	return &models.Note{
		ID:          rec.ID,
		Title:       rec.Title,
		Content:     content,
		Category:    category,
		OwnerID:     rec.OwnerID,
		Attachments: attachments,
		ViewCount:   rec.ViewCount,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   updatedAt,
		UpdatedBy:   rec.UpdatedBy,
	}
}
