// Handles document CRUD and category listing.

package handlers

import (
	"context"
	"errors"

	"github.com/maruel/notedb/internal/models"
	"github.com/maruel/notedb/internal/server/dto"
	"github.com/maruel/notedb/internal/storage"
)

// DocumentHandler handles document requests. Documents share the note
// lifecycle except for view counting and editor tracking.
type DocumentHandler struct {
	Svc *Services
}

// List returns documents with their content, newest first.
func (h *DocumentHandler) List(ctx context.Context, req *dto.ListDocumentsRequest) (*dto.ListDocumentsResponse, error) {
	docs, err := h.Svc.Docs.List(req.Category, req.Query)
	if err != nil {
		return nil, storageError(err)
	}
	return &dto.ListDocumentsResponse{Documents: docs}, nil
}

// Get retrieves a single document with its content.
func (h *DocumentHandler) Get(ctx context.Context, req *dto.GetDocumentRequest) (*models.Document, error) {
	doc, err := h.Svc.Docs.Get(req.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, dto.NotFound("document")
		}
		return nil, storageError(err)
	}
	return doc, nil
}

// Create creates a new document and returns it.
func (h *DocumentHandler) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*models.Document, error) {
	doc, err := h.Svc.Docs.Create(req.Title, req.Content, req.Category, req.UserID)
	if err != nil {
		return nil, storageError(err)
	}
	return doc, nil
}

// Update applies the provided fields and returns the updated document.
func (h *DocumentHandler) Update(ctx context.Context, req *dto.UpdateDocumentRequest) (*models.Document, error) {
	ok, err := h.Svc.Docs.Update(req.ID, req.Title, req.Content, req.Category)
	if err != nil {
		return nil, storageError(err)
	}
	if !ok {
		return nil, dto.NotFound("document")
	}
	doc, err := h.Svc.Docs.Get(req.ID)
	if err != nil {
		return nil, storageError(err)
	}
	return doc, nil
}

// Delete removes a document, its content file and its attachments.
func (h *DocumentHandler) Delete(ctx context.Context, req *dto.DeleteDocumentRequest) (*dto.DeleteDocumentResponse, error) {
	ok, err := h.Svc.Docs.Delete(req.ID)
	if err != nil {
		return nil, storageError(err)
	}
	if !ok {
		return nil, dto.NotFound("document")
	}
	return &dto.DeleteDocumentResponse{Ok: true}, nil
}

// ListCategories returns the distinct document categories in use.
func (h *DocumentHandler) ListCategories(ctx context.Context, req *dto.ListCategoriesRequest) (*dto.CategoriesResponse, error) {
	return &dto.CategoriesResponse{Categories: h.Svc.Docs.Categories()}, nil
}
