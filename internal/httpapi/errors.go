package httpapi

import (
	"encoding/json"
	"net/http"

	"docexd/internal/engine"
	"docexd/internal/lifecycle"
	"docexd/internal/pipeline"
	"docexd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusForError maps well-known extraction error kinds to HTTP status
// codes. Unparseable pipeline parameters are the caller's fault (422);
// everything else surfaces as a server-side failure with the original
// message intact.
func statusForError(err error) int {
	switch {
	case pipeline.IsConfigError(err):
		return http.StatusUnprocessableEntity
	case lifecycle.IsInsufficientResource(err), engine.IsConversion(err), lifecycle.IsModelLoad(err):
		return http.StatusInternalServerError
	default:
		if he, ok := err.(HTTPError); ok {
			return he.StatusCode()
		}
		return http.StatusInternalServerError
	}
}

// writeExtractionError writes err with its mapped status.
func writeExtractionError(w http.ResponseWriter, err error) int {
	status := statusForError(err)
	writeJSONError(w, status, err.Error())
	return status
}
