package source

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/c360studio/semrecipe/export"
	"github.com/c360studio/semrecipe/source/weburl"
	"github.com/c360studio/semrecipe/storage"
)

// OwnerHeader carries the user an import or draft listing is for.
// Authentication happens in front of this handler.
const OwnerHeader = "X-Semrecipe-Owner"

const maxImportBody = 64 << 10

// HTTPHandler serves recipe extraction, import and draft endpoints.
type HTTPHandler struct {
	importer *Importer
	source   DocumentSource
	drafts   *storage.DraftStore
	logger   *slog.Logger
}

// NewHTTPHandler creates a new HTTP handler. drafts may be nil, in which
// case the draft endpoints answer 503.
func NewHTTPHandler(importer *Importer, drafts *storage.DraftStore, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &HTTPHandler{importer: importer, drafts: drafts, logger: logger}
	if importer != nil {
		h.source = importer.source
	}
	return h
}

// RegisterHTTPHandlers registers the recipe endpoints.
// The prefix should include the trailing slash (e.g., "/api/").
func (h *HTTPHandler) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	mux.HandleFunc("GET "+prefix+"extract-recipe", h.handleExtract)
	mux.HandleFunc("POST "+prefix+"import", h.handleImport)
	mux.HandleFunc("GET "+prefix+"drafts", h.handleListDrafts)
	mux.HandleFunc("GET "+prefix+"drafts/{id}", h.handleGetDraft)
	mux.HandleFunc("DELETE "+prefix+"drafts/{id}", h.handleDeleteDraft)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// handleExtract handles GET /api/extract-recipe?url=...&accept=...
// A Turtle, N-Triples, N-Quads or JSON-LD accept value returns the page's
// graph; anything else returns the extracted recipes as JSON.
func (h *HTTPHandler) handleExtract(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		writeJSONError(w, http.StatusBadRequest, "url_required", "Missing ?url parameter.")
		return
	}
	if err := weburl.ValidateURL(pageURL); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_url", err.Error())
		return
	}
	if h.source == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Extraction is not configured")
		return
	}

	doc, err := h.source.Dereference(r.Context(), pageURL)
	if err != nil {
		h.logger.Warn("Extraction failed", "url", pageURL, "error", err)
		writeJSONError(w, http.StatusBadGateway, "dereference_failed", "Failed to parse a recipe from "+pageURL)
		return
	}

	if format, ok := graphFormat(acceptValue(r)); ok {
		info, _ := export.GetFormatInfo(format)
		w.Header().Set("Content-Type", info.MIMEType+"; charset=utf-8")
		if err := export.WriteStore(w, doc.Store, format); err != nil {
			h.logger.Error("Failed to write graph", "url", pageURL, "format", format, "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, doc.Recipes())
}

// handleImport handles POST /api/import. The URL comes from the "source"
// form field or a JSON ImportRequest body.
func (h *HTTPHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Import is not configured")
		return
	}

	req, err := decodeImportRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if owner := r.Header.Get(OwnerHeader); owner != "" {
		req.Owner = owner
	}
	if err := req.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_url", err.Error())
		return
	}

	result, err := h.importer.Import(r.Context(), req)
	if err != nil {
		h.logger.Warn("Import failed", "url", req.URL, "error", err)
		writeJSON(w, http.StatusBadGateway, &ImportResult{
			RequestID: req.RequestID,
			URL:       req.URL,
			Status:    StatusFailed,
			DraftIDs:  []string{},
			EntityIDs: []string{},
			Error:     err.Error(),
		})
		return
	}

	status := http.StatusCreated
	if result.Status == StatusEmpty {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

func decodeImportRequest(r *http.Request) (ImportRequest, error) {
	var req ImportRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxImportBody)).Decode(&req); err != nil {
			return req, errors.New("request body is not a valid import request")
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return req, errors.New("failed to parse form")
	}
	req.URL = strings.TrimSpace(r.PostForm.Get("source"))
	req.Owner = r.PostForm.Get("owner")
	return req, nil
}

// handleListDrafts handles GET /api/drafts. The owner header narrows the
// list to one user.
func (h *HTTPHandler) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	if h.drafts == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Draft storage is not configured")
		return
	}
	drafts, err := h.drafts.List(r.Context(), r.Header.Get(OwnerHeader))
	if err != nil {
		h.logger.Error("Failed to list drafts", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "storage_error", "Failed to list drafts")
		return
	}
	if drafts == nil {
		drafts = []*storage.Draft{}
	}
	writeJSON(w, http.StatusOK, drafts)
}

// handleGetDraft handles GET /api/drafts/{id}.
func (h *HTTPHandler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	if h.drafts == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Draft storage is not configured")
		return
	}
	draft, err := h.drafts.Get(r.Context(), r.PathValue("id"), r.Header.Get(OwnerHeader))
	if err != nil {
		h.writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// handleDeleteDraft handles DELETE /api/drafts/{id}.
func (h *HTTPHandler) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if h.drafts == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Draft storage is not configured")
		return
	}
	if err := h.drafts.Delete(r.Context(), r.PathValue("id"), r.Header.Get(OwnerHeader)); err != nil {
		h.writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		writeJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", "Draft not found")
	default:
		h.logger.Error("Draft storage failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "storage_error", "Draft storage failed")
	}
}

// acceptValue prefers the accept query parameter over the Accept header.
func acceptValue(r *http.Request) string {
	if v := r.URL.Query().Get("accept"); v != "" {
		return v
	}
	return r.Header.Get("Accept")
}

// graphFormat picks the first RDF format named in an accept value.
func graphFormat(accept string) (export.Format, bool) {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, _ := strings.Cut(part, ";")
		if f, ok := export.ParseFormat(strings.TrimSpace(mediaType)); ok {
			return f, true
		}
	}
	return "", false
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, errorCode, message string) {
	writeJSON(w, status, ErrorResponse{Error: errorCode, Message: message})
}
