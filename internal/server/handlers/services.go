// Defines shared service dependencies for handlers.

package handlers

import (
	"github.com/maruel/notedb/internal/storage"
)

// Services holds all service dependencies for handlers.
type Services struct {
	Notes *storage.NoteService
	Docs  *storage.DocumentService
	Files *storage.FileStore
	Meta  *storage.Store
}

// Config holds configuration values needed by handlers.
type Config struct {
	Version string
	Quotas  storage.UploadQuotas
}
