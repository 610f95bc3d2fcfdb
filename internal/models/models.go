// Package models defines the persisted records and the read models shared by
// the storage engine and the HTTP layer.
//
// Records are what metadata.json holds: everything about an entity except its
// body, which lives in a per-entity content file. The read models (Note,
// Document) are records joined with their body, assembled on demand and never
// persisted.
package models

import "time"

// Attachment is one uploaded file tracked inside its owning record.
type Attachment struct {
	// StoredName is the unique on-disk name, "<entity id>_<random hex><ext>".
	StoredName string `json:"filename" jsonschema:"description=Unique stored file name"`
	// OriginalName is the sanitized client-supplied name kept for display.
	OriginalName string    `json:"original_filename" jsonschema:"description=Sanitized client-supplied file name"`
	UploadedAt   time.Time `json:"uploaded_at" jsonschema:"description=Upload time in UTC"`
}

// Record carries the index fields common to notes and documents.
type Record struct {
	ID       int    `json:"id" jsonschema:"description=Positive integer identifier unique within the kind"`
	Title    string `json:"title" jsonschema:"description=Display title"`
	Filename string `json:"filename" jsonschema:"description=Content file name derived from the ID"`
	Category string `json:"category" jsonschema:"description=Free-form grouping label"`
	// OwnerID is the creating user, or nil when created anonymously.
	OwnerID     *string      `json:"user_id" jsonschema:"description=Creating user or null"`
	Attachments []Attachment `json:"attachments" jsonschema:"description=Uploaded files owned by this entity"`
}

// NoteRecord is the persisted metadata for one note.
type NoteRecord struct {
	Record
	ViewCount int       `json:"view_count" jsonschema:"description=Number of recorded views"`
	CreatedAt time.Time `json:"created_at" jsonschema:"description=Creation time in UTC"`
	UpdatedAt time.Time `json:"updated_at" jsonschema:"description=Last modification time in UTC"`
	// UpdatedBy is the last editor. Only written when an update both changed
	// something and named a user, so it can lag UpdatedAt.
	UpdatedBy *string `json:"updated_by,omitempty" jsonschema:"description=Last editing user"`
}

// DocRecord is the persisted metadata for one document. Documents carry no
// view counter and no editor tracking.
type DocRecord struct {
	Record
	CreatedAt time.Time `json:"created_at" jsonschema:"description=Creation time in UTC"`
	UpdatedAt time.Time `json:"updated_at" jsonschema:"description=Last modification time in UTC"`
}

// MetadataIndex is the root structure persisted in metadata.json.
type MetadataIndex struct {
	Notes []NoteRecord `json:"notes"`
	Docs  []DocRecord  `json:"docs"`
}

// Normalize replaces nil slices with empty ones so the persisted JSON always
// carries [] rather than null.
func (m *MetadataIndex) Normalize() {
	if m.Notes == nil {
		m.Notes = []NoteRecord{}
	}
	if m.Docs == nil {
		m.Docs = []DocRecord{}
	}
	for i := range m.Notes {
		if m.Notes[i].Attachments == nil {
			m.Notes[i].Attachments = []Attachment{}
		}
	}
	for i := range m.Docs {
		if m.Docs[i].Attachments == nil {
			m.Docs[i].Attachments = []Attachment{}
		}
	}
}

// NextNoteID returns one past the highest existing note ID, or 1 when there
// are no notes. Deleted IDs are never reused unless they were the highest.
func (m *MetadataIndex) NextNoteID() int {
	next := 1
	for i := range m.Notes {
		if m.Notes[i].ID >= next {
			next = m.Notes[i].ID + 1
		}
	}
	return next
}

// NextDocID returns one past the highest existing document ID, or 1.
func (m *MetadataIndex) NextDocID() int {
	next := 1
	for i := range m.Docs {
		if m.Docs[i].ID >= next {
			next = m.Docs[i].ID + 1
		}
	}
	return next
}

// Note is the read model for a note: its record fields plus the body loaded
// from the content file.
type Note struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Category    string       `json:"category"`
	OwnerID     *string      `json:"user_id"`
	Attachments []Attachment `json:"attachments"`
	ViewCount   int          `json:"view_count"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	UpdatedBy   *string      `json:"updated_by,omitempty"`
}

// Document is the read model for a document.
type Document struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Category    string       `json:"category"`
	OwnerID     *string      `json:"user_id"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
