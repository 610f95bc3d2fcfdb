package dto

// --- Notes ---

// ListNotesRequest is a request to list notes, optionally filtered.
type ListNotesRequest struct {
	Category string `query:"category"`
	Query    string `query:"q"`
}

// Validate is a no-op; both filters are optional.
func (r *ListNotesRequest) Validate() error {
	return nil
}

// GetNoteRequest is a request to fetch one note with its content.
type GetNoteRequest struct {
	ID int `path:"id"`
}

// Validate validates the get note request fields.
func (r *GetNoteRequest) Validate() error {
	if r.ID <= 0 {
		return InvalidFormat("id must be a positive integer")
	}
	return nil
}

// CreateNoteRequest is a request to create a note.
type CreateNoteRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category string  `json:"category"`
	UserID   *string `json:"user_id"`
}

// Validate validates the create note request fields.
func (r *CreateNoteRequest) Validate() error {
	if r.Title == "" {
		return MissingField("title")
	}
	return nil
}

// UpdateNoteRequest is a request to update a note. A nil field is left
// unchanged; a present field is applied even when empty. UserID names the
// editor and is recorded only when something else changed.
type UpdateNoteRequest struct {
	ID       int     `path:"id" json:"-"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	UserID   *string `json:"user_id"`
}

// Validate validates the update note request fields.
func (r *UpdateNoteRequest) Validate() error {
	if r.ID <= 0 {
		return InvalidFormat("id must be a positive integer")
	}
	if r.Title == nil && r.Content == nil && r.Category == nil {
		return BadRequest("at least one of title, content or category must be provided")
	}
	return nil
}

// DeleteNoteRequest is a request to delete a note.
type DeleteNoteRequest struct {
	ID int `path:"id"`
}

// Validate validates the delete note request fields.
func (r *DeleteNoteRequest) Validate() error {
	if r.ID <= 0 {
		return InvalidFormat("id must be a positive integer")
	}
	return nil
}

// IncrementViewsRequest is a request to record one view of a note.
type IncrementViewsRequest struct {
	ID int `path:"id"`
}

// Validate validates the increment views request fields.
func (r *IncrementViewsRequest) Validate() error {
	if r.ID <= 0 {
		return InvalidFormat("id must be a positive integer")
	}
	return nil
}

// ListCategoriesRequest is a request to list the categories in use.
type ListCategoriesRequest struct{}

// Validate is a no-op for ListCategoriesRequest.
func (r *ListCategoriesRequest) Validate() error {
	return nil
}

// --- Documents ---

// ListDocumentsRequest is a request to list documents, optionally filtered.
type ListDocumentsRequest struct {
	Category string `query:"category"`
	Query    string `query:"q"`
}

// Validate is a no-op; both filters are optional.
func (r *ListDocumentsRequest) Validate() error {
	return nil
}

// GetDocumentRequest is a request to fetch one document with its content.
type GetDocumentRequest struct {
	ID int `path:"id"`
}

// Validate validates the get document request fields.
func (r *GetDocumentRequest) Validate() error {
	if r.ID <= 0 {
		return InvalidFormat("id must be a positive integer")
	}
	return nil
}

// CreateDocumentRequest is a request to create a document.
type CreateDocumentRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category string  `json:"category"`
	UserID   *string `json:"user_id"`
}

// Validate validates the create document request fields.
func (r *CreateDocumentRequest) Validate() error {
	if r.Title == "" {
		return MissingField("title")
	}
	return nil
}

// UpdateDocumentRequest is a request to update a document. Documents do not
// track editors, so there is no user field.
type UpdateDocumentRequest struct {
	ID       int     `path:"id" json:"-"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

// Validate validates the update document request fields.
func (r *UpdateDocumentRequest) Validate() error {
	if r.ID <= 0 {
		return InvalidFormat("id must be a positive integer")
	}
	if r.Title == nil && r.Content == nil && r.Category == nil {
		return BadRequest("at least one of title, content or category must be provided")
	}
	return nil
}

// DeleteDocumentRequest is a request to delete a document.
type DeleteDocumentRequest struct {
	ID int `path:"id"`
}

// Validate validates the delete document request fields.
func (r *DeleteDocumentRequest) Validate() error {
	if r.ID <= 0 {
		return InvalidFormat("id must be a positive integer")
	}
	return nil
}

// --- Attachments ---

// DeleteAttachmentRequest is a request to delete an attachment by its stored
// filename. Shared by the note and document attachment endpoints.
type DeleteAttachmentRequest struct {
	ID       int    `path:"id"`
	Filename string `path:"filename"`
}

// Validate validates the delete attachment request fields.
func (r *DeleteAttachmentRequest) Validate() error {
	if r.ID <= 0 {
		return InvalidFormat("id must be a positive integer")
	}
	if r.Filename == "" {
		return MissingField("filename")
	}
	return nil
}

// --- System ---

// HealthRequest is a request for a health check.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}

// GetSchemaRequest is a request for the record schema.
type GetSchemaRequest struct{}

// Validate is a no-op for GetSchemaRequest.
func (r *GetSchemaRequest) Validate() error {
	return nil
}

// GetStatsRequest is a request for storage statistics.
type GetStatsRequest struct{}

// Validate is a no-op for GetStatsRequest.
func (r *GetStatsRequest) Validate() error {
	return nil
}

// RecalculateStatsRequest is a request to re-scan the data directory and
// correct the tracked usage total.
type RecalculateStatsRequest struct{}

// Validate is a no-op for RecalculateStatsRequest.
func (r *RecalculateStatsRequest) Validate() error {
	return nil
}
