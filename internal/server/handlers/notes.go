// Handles note CRUD, view counting and category listing.

package handlers

import (
	"context"
	"errors"

	"github.com/maruel/notedb/internal/models"
	"github.com/maruel/notedb/internal/server/dto"
	"github.com/maruel/notedb/internal/storage"
)

// NoteHandler handles note requests.
type NoteHandler struct {
	Svc *Services
}

// List returns notes with their content, newest first. Both filters are
// optional; category matches exactly, q searches title and content
// case-insensitively.
func (h *NoteHandler) List(ctx context.Context, req *dto.ListNotesRequest) (*dto.ListNotesResponse, error) {
	notes, err := h.Svc.Notes.List(req.Category, req.Query)
	if err != nil {
		return nil, storageError(err)
	}
	return &dto.ListNotesResponse{Notes: notes}, nil
}

// Get retrieves a single note with its content.
func (h *NoteHandler) Get(ctx context.Context, req *dto.GetNoteRequest) (*models.Note, error) {
	note, err := h.Svc.Notes.Get(req.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, dto.NotFound("note")
		}
		return nil, storageError(err)
	}
	return note, nil
}

// Create creates a new note and returns it.
func (h *NoteHandler) Create(ctx context.Context, req *dto.CreateNoteRequest) (*models.Note, error) {
	note, err := h.Svc.Notes.Create(req.Title, req.Content, req.Category, req.UserID)
	if err != nil {
		return nil, storageError(err)
	}
	return note, nil
}

// Update applies the provided fields and returns the updated note.
func (h *NoteHandler) Update(ctx context.Context, req *dto.UpdateNoteRequest) (*models.Note, error) {
	ok, err := h.Svc.Notes.Update(req.ID, req.Title, req.Content, req.Category, req.UserID)
	if err != nil {
		return nil, storageError(err)
	}
	if !ok {
		return nil, dto.NotFound("note")
	}
	note, err := h.Svc.Notes.Get(req.ID)
	if err != nil {
		return nil, storageError(err)
	}
	return note, nil
}

// Delete removes a note, its content file and its attachments.
func (h *NoteHandler) Delete(ctx context.Context, req *dto.DeleteNoteRequest) (*dto.DeleteNoteResponse, error) {
	ok, err := h.Svc.Notes.Delete(req.ID)
	if err != nil {
		return nil, storageError(err)
	}
	if !ok {
		return nil, dto.NotFound("note")
	}
	return &dto.DeleteNoteResponse{Ok: true}, nil
}

// IncrementViews records one view of the note.
func (h *NoteHandler) IncrementViews(ctx context.Context, req *dto.IncrementViewsRequest) (*dto.IncrementViewsResponse, error) {
	ok, err := h.Svc.Notes.IncrementViewCount(req.ID)
	if err != nil {
		return nil, storageError(err)
	}
	if !ok {
		return nil, dto.NotFound("note")
	}
	return &dto.IncrementViewsResponse{Ok: true}, nil
}

// ListCategories returns the distinct note categories in use.
func (h *NoteHandler) ListCategories(ctx context.Context, req *dto.ListCategoriesRequest) (*dto.CategoriesResponse, error) {
	return &dto.CategoriesResponse{Categories: h.Svc.Notes.Categories()}, nil
}
