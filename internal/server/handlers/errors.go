// Provides helper functions for writing JSON and error responses.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/maruel/notedb/internal/server/dto"
	"github.com/maruel/notedb/internal/storage"
)

// writeErrorResponse writes an APIError as a JSON response.
func writeErrorResponse(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorCode := dto.ErrorCodeInternal
	message := "internal error"
	var details map[string]any

	var ewsErr dto.ErrorWithStatus
	if errors.As(err, &ewsErr) {
		statusCode = ewsErr.StatusCode()
		errorCode = ewsErr.Code()
		message = ewsErr.Error()
		details = ewsErr.Details()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := dto.ErrorResponse{
		Error: dto.ErrorDetails{
			Code:    errorCode,
			Message: message,
		},
		Details: details,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// writeJSONResponse writes v as a JSON response with the given status code.
func writeJSONResponse(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// storageError maps storage layer failures onto API errors. Not-found flows
// are usually handled at the call site with a resource name; this covers the
// rest.
func storageError(err error) error {
	var qe *storage.QuotaError
	var ve *storage.ValidationError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return dto.NotFound("resource")
	case errors.As(err, &qe):
		return dto.QuotaExceeded(qe.Used, qe.Limit)
	case errors.As(err, &ve):
		return dto.BadRequest(ve.Error())
	default:
		return dto.StorageError(err)
	}
}

// pathID parses the {id} path segment as a positive integer.
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, dto.InvalidFormat("id must be a positive integer")
	}
	return id, nil
}
