// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/maruel/notedb/internal/server/handlers"
	"github.com/maruel/notedb/internal/server/ratelimit"
)

// NewRouter creates and configures the HTTP router. Everything lives under
// /api and speaks JSON, except attachment downloads which serve raw bytes.
func NewRouter(svc *handlers.Services, cfg *handlers.Config, limits *ratelimit.Config) http.Handler {
	mux := &http.ServeMux{}

	nh := &handlers.NoteHandler{Svc: svc}
	dh := &handlers.DocumentHandler{Svc: svc}
	nah := handlers.NewNoteAttachmentHandler(svc, cfg)
	dah := handlers.NewDocumentAttachmentHandler(svc, cfg)
	adh := &handlers.AdminHandler{Svc: svc}

	// Health check
	hh := handlers.NewHealthHandler(cfg.Version)
	mux.Handle("/api/health", Wrap(hh.Health, cfg, limits))

	// Notes endpoints
	mux.Handle("GET /api/notes", Wrap(nh.List, cfg, limits))
	mux.Handle("POST /api/notes", Wrap(nh.Create, cfg, limits))
	mux.Handle("GET /api/notes/categories", Wrap(nh.ListCategories, cfg, limits))
	mux.Handle("GET /api/notes/{id}", Wrap(nh.Get, cfg, limits))
	mux.Handle("PUT /api/notes/{id}", Wrap(nh.Update, cfg, limits))
	mux.Handle("DELETE /api/notes/{id}", Wrap(nh.Delete, cfg, limits))
	mux.Handle("POST /api/notes/{id}/views", Wrap(nh.IncrementViews, cfg, limits))

	// Note attachment endpoints
	mux.Handle("POST /api/notes/{id}/attachments", WrapRaw(nah.Upload, cfg, limits))
	mux.Handle("GET /api/notes/{id}/attachments/{filename}", WrapRaw(nah.Download, cfg, limits))
	mux.Handle("DELETE /api/notes/{id}/attachments/{filename}", Wrap(nah.Delete, cfg, limits))

	// Documents endpoints
	mux.Handle("GET /api/docs", Wrap(dh.List, cfg, limits))
	mux.Handle("POST /api/docs", Wrap(dh.Create, cfg, limits))
	mux.Handle("GET /api/docs/categories", Wrap(dh.ListCategories, cfg, limits))
	mux.Handle("GET /api/docs/{id}", Wrap(dh.Get, cfg, limits))
	mux.Handle("PUT /api/docs/{id}", Wrap(dh.Update, cfg, limits))
	mux.Handle("DELETE /api/docs/{id}", Wrap(dh.Delete, cfg, limits))

	// Document attachment endpoints
	mux.Handle("POST /api/docs/{id}/attachments", WrapRaw(dah.Upload, cfg, limits))
	mux.Handle("GET /api/docs/{id}/attachments/{filename}", WrapRaw(dah.Download, cfg, limits))
	mux.Handle("DELETE /api/docs/{id}/attachments/{filename}", Wrap(dah.Delete, cfg, limits))

	// Operational endpoints
	mux.Handle("GET /api/schema", Wrap(adh.Schema, cfg, limits))
	mux.Handle("GET /api/stats", Wrap(adh.Stats, cfg, limits))
	mux.Handle("POST /api/stats/recalculate", Wrap(adh.RecalculateStats, cfg, limits))

	return RequestLogger(mux)
}
