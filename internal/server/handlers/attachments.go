// Handles file upload and retrieval for note and document attachments.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/maruel/notedb/internal/models"
	"github.com/maruel/notedb/internal/server/dto"
	"github.com/maruel/notedb/internal/storage"
)

func init() {
	// Register MIME types not in the standard library.
	for _, pair := range [][2]string{
		{".doc", "application/msword"},
		{".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{".md", "text/markdown"},
		{".xls", "application/vnd.ms-excel"},
		{".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	} {
		if err := mime.AddExtensionType(pair[0], pair[1]); err != nil {
			panic(err)
		}
	}
}

// attachmentService is the slice of NoteService and DocumentService the
// attachment endpoints need.
type attachmentService interface {
	AddAttachment(id int, originalName string, data []byte) (models.Attachment, bool, error)
	RemoveAttachment(id int, storedName string) (bool, error)
	FindAttachment(id int, storedName string) (models.Attachment, error)
}

// AttachmentHandler handles attachment HTTP requests for one entity kind.
type AttachmentHandler struct {
	svc      attachmentService
	files    *storage.FileStore
	cfg      *Config
	kind     storage.Kind
	resource string
}

// NewNoteAttachmentHandler creates the attachment handler for notes.
func NewNoteAttachmentHandler(svc *Services, cfg *Config) *AttachmentHandler {
	return &AttachmentHandler{
		svc:      svc.Notes,
		files:    svc.Files,
		cfg:      cfg,
		kind:     storage.KindNote,
		resource: "note",
	}
}

// NewDocumentAttachmentHandler creates the attachment handler for documents.
func NewDocumentAttachmentHandler(svc *Services, cfg *Config) *AttachmentHandler {
	return &AttachmentHandler{
		svc:      svc.Docs,
		files:    svc.Files,
		cfg:      cfg,
		kind:     storage.KindDoc,
		resource: "document",
	}
}

// Upload stores an uploaded file (multipart/form-data, field "file") as an
// attachment. This is a raw http.HandlerFunc because it handles multipart
// forms.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10 MB in memory
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeErrorResponse(w, dto.PayloadTooLarge(maxBytesErr.Limit))
			return
		}
		writeErrorResponse(w, dto.BadRequest("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, dto.MissingField("file"))
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("Failed to close uploaded file", "error", err)
		}
	}()

	if !h.cfg.Quotas.AllowsExtension(header.Filename) {
		writeErrorResponse(w, dto.InvalidFormat("file type not allowed"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeErrorResponse(w, dto.InternalWithError("failed to read uploaded file", err))
		return
	}

	att, found, err := h.svc.AddAttachment(id, header.Filename, data)
	if err != nil {
		writeErrorResponse(w, storageError(err))
		return
	}
	if !found {
		writeErrorResponse(w, dto.NotFound(h.resource))
		return
	}

	writeJSONResponse(w, http.StatusCreated, dto.UploadAttachmentResponse{Attachment: att})
}

// Download serves the attachment bytes with the original filename. This is a
// raw http.HandlerFunc for direct file serving.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	att, err := h.svc.FindAttachment(id, r.PathValue("filename"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeErrorResponse(w, dto.NotFound("attachment"))
			return
		}
		writeErrorResponse(w, storageError(err))
		return
	}

	path, err := h.files.AttachmentPath(h.kind, att.StoredName)
	if err != nil {
		writeErrorResponse(w, storageError(err))
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeErrorResponse(w, dto.NotFound("attachment"))
			return
		}
		writeErrorResponse(w, dto.InternalWithError("failed to read attachment", err))
		return
	}

	mimeType := mime.TypeByExtension(filepath.Ext(att.StoredName))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.OriginalName))
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write attachment data", "error", err, "filename", att.StoredName)
	}
}

// Delete removes an attachment record and its file.
func (h *AttachmentHandler) Delete(ctx context.Context, req *dto.DeleteAttachmentRequest) (*dto.DeleteAttachmentResponse, error) {
	ok, err := h.svc.RemoveAttachment(req.ID, req.Filename)
	if err != nil {
		return nil, storageError(err)
	}
	if !ok {
		return nil, dto.NotFound("attachment")
	}
	return &dto.DeleteAttachmentResponse{Ok: true}, nil
}
