package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/studyforge/studyforge/internal/api/shared"
	"github.com/studyforge/studyforge/internal/domain"
)

// StudyService is the slice of the service layer the handler needs.
type StudyService interface {
	GenerateMaterials(ctx context.Context, content, title string) (*domain.StudyMaterials, error)
	BuildDeck(ctx context.Context, cards []domain.Flashcard, deckName string) ([]byte, string, error)
}

// ProcessRequest represents the request body for study material generation
type ProcessRequest struct {
	Content string `json:"content" validate:"required"`
	Title   string `json:"title"`
}

// DeckRequest represents the request body for deck generation
type DeckRequest struct {
	Flashcards []domain.Flashcard `json:"flashcards" validate:"required"`
	DeckName   string             `json:"deckName"`
}

// StudyHandler handles study material and deck HTTP requests
type StudyHandler struct {
	service StudyService
}

// NewStudyHandler creates a new StudyHandler
func NewStudyHandler(service StudyService) *StudyHandler {
	return &StudyHandler{service: service}
}

// Process handles POST /api/process requests
func (h *StudyHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Content is required")
		return
	}

	materials, err := h.service.GenerateMaterials(r.Context(), req.Content, req.Title)
	if err != nil {
		slog.Error("failed to generate study materials", "error", err, "title", req.Title)
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, materials)
}

// GenerateDeck handles POST /api/anki requests. The response body is the
// raw .apkg buffer, served as a download.
func (h *StudyHandler) GenerateDeck(w http.ResponseWriter, r *http.Request) {
	var req DeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Flashcards array is required")
		return
	}

	buf, filename, err := h.service.BuildDeck(r.Context(), req.Flashcards, req.DeckName)
	if err != nil {
		slog.Error("failed to build deck", "error", err, "deck_name", req.DeckName)
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	if _, err := w.Write(buf); err != nil {
		slog.Error("failed to write deck response", "error", err)
	}
}
