// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskledger/taskledger/internal/handler/dto"
)

// Handler serves the routes that do not touch the store.
type Handler struct {
	index   []byte
	openAPI []byte
}

// New creates a new Handler. index is the HTML page served at GET /
// and openAPI the document served at GET /openapi.yaml.
func New(index, openAPI []byte) *Handler {
	return &Handler{index: index, openAPI: openAPI}
}

// Index serves the static API overview page.
// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.index)
}

// OpenAPI serves the OpenAPI description of the API.
// GET /openapi.yaml
func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.openAPI)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; an encode failure means the client left.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes the {"error": message} body used by every failure.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}

// decodeBody decodes a JSON request body into dst and writes the error
// response itself when that fails. It reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}

	writeError(w, http.StatusBadRequest, "invalid JSON body")
	return false
}
