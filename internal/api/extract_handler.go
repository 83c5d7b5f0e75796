package api

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/studyforge/studyforge/internal/api/shared"
	"github.com/studyforge/studyforge/internal/domain"
)

// ContentExtractor is the slice of the extract package the handler needs.
type ContentExtractor interface {
	FromURL(ctx context.Context, rawURL string) (*domain.Article, error)
	FromPDF(data []byte, filename string) (*domain.Article, error)
}

// ExtractRequest represents the request body for URL extraction
type ExtractRequest struct {
	URL string `json:"url" validate:"required"`
}

// UploadRequest represents the request body for a PDF upload. File carries
// the document as base64.
type UploadRequest struct {
	File     string `json:"file" validate:"required"`
	Filename string `json:"filename"`
}

// ExtractHandler handles content acquisition HTTP requests
type ExtractHandler struct {
	extractor ContentExtractor
}

// NewExtractHandler creates a new ExtractHandler
func NewExtractHandler(extractor ContentExtractor) *ExtractHandler {
	return &ExtractHandler{extractor: extractor}
}

// ExtractFromURL handles POST /api/extract requests
func (h *ExtractHandler) ExtractFromURL(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "URL is required")
		return
	}

	article, err := h.extractor.FromURL(r.Context(), req.URL)
	if err != nil {
		slog.Error("failed to extract content", "error", err, "url", req.URL)
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, article)
}

// UploadPDF handles POST /api/upload requests
func (h *ExtractHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No file provided")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.File)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "File must be base64 encoded")
		return
	}

	article, err := h.extractor.FromPDF(data, req.Filename)
	if err != nil {
		slog.Error("failed to process PDF", "error", err, "filename", req.Filename)
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, article)
}
