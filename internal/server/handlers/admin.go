// Handles storage statistics and schema introspection endpoints.

package handlers

import (
	"context"

	"github.com/maruel/notedb/internal/server/dto"
	"github.com/maruel/notedb/internal/storage"
)

// AdminHandler handles operational endpoints.
type AdminHandler struct {
	Svc *Services
}

// Stats returns the tracked storage usage and entity counts.
func (h *AdminHandler) Stats(ctx context.Context, req *dto.GetStatsRequest) (*dto.StatsResponse, error) {
	idx := h.Svc.Meta.Load()
	return &dto.StatsResponse{
		UsedBytes:  h.Svc.Files.Usage(),
		LimitBytes: h.Svc.Files.MaxStorage(),
		NoteCount:  len(idx.Notes),
		DocCount:   len(idx.Docs),
	}, nil
}

// RecalculateStats re-scans the data directory, corrects the tracked usage
// total and returns the fresh statistics. The tracked total can drift when
// files are removed behind the server's back.
func (h *AdminHandler) RecalculateStats(ctx context.Context, req *dto.RecalculateStatsRequest) (*dto.StatsResponse, error) {
	used, err := h.Svc.Files.Recalculate()
	if err != nil {
		return nil, dto.InternalWithError("failed to recalculate storage usage", err)
	}
	idx := h.Svc.Meta.Load()
	return &dto.StatsResponse{
		UsedBytes:  used,
		LimitBytes: h.Svc.Files.MaxStorage(),
		NoteCount:  len(idx.Notes),
		DocCount:   len(idx.Docs),
	}, nil
}

// Schema returns the column layout of note, document and attachment records.
func (h *AdminHandler) Schema(ctx context.Context, req *dto.GetSchemaRequest) (*storage.Schema, error) {
	schema, err := storage.RecordSchema()
	if err != nil {
		return nil, dto.InternalWithError("failed to reflect record schema", err)
	}
	return schema, nil
}
