package dto

import "github.com/maruel/notedb/internal/models"

// --- Common Responses ---

// OkResponse is a simple success response.
type OkResponse struct {
	Ok bool `json:"ok"`
}

// --- Note Responses ---

// ListNotesResponse is a response containing a list of notes, newest first.
type ListNotesResponse struct {
	Notes []*models.Note `json:"notes"`
}

// DeleteNoteResponse is a response from deleting a note.
type DeleteNoteResponse = OkResponse

// IncrementViewsResponse is a response from recording a view.
type IncrementViewsResponse = OkResponse

// CategoriesResponse lists the distinct categories in use, sorted.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// --- Document Responses ---

// ListDocumentsResponse is a response containing a list of documents, newest
// first.
type ListDocumentsResponse struct {
	Documents []*models.Document `json:"documents"`
}

// DeleteDocumentResponse is a response from deleting a document.
type DeleteDocumentResponse = OkResponse

// --- Attachment Responses ---

// UploadAttachmentResponse describes the stored attachment. The stored
// filename, not the original one, addresses the attachment from then on.
type UploadAttachmentResponse struct {
	Attachment models.Attachment `json:"attachment"`
}

// DeleteAttachmentResponse is a response from deleting an attachment.
type DeleteAttachmentResponse = OkResponse

// --- System Responses ---

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// StatsResponse reports storage usage and entity counts.
type StatsResponse struct {
	UsedBytes  int64 `json:"used_bytes"`
	LimitBytes int64 `json:"limit_bytes"`
	NoteCount  int   `json:"note_count"`
	DocCount   int   `json:"doc_count"`
}
