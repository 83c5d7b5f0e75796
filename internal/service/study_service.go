package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studyforge/studyforge/internal/anki"
	"github.com/studyforge/studyforge/internal/domain"
	"github.com/studyforge/studyforge/internal/generation"
)

// StudyService coordinates study material generation and deck packaging.
type StudyService struct {
	generator generation.Generator
	decks     *anki.Builder
	logger    *slog.Logger
}

// NewStudyService creates a new StudyService with the given dependencies.
// Returns an error if any dependency is nil.
func NewStudyService(
	generator generation.Generator,
	decks *anki.Builder,
	logger *slog.Logger,
) (*StudyService, error) {
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if decks == nil {
		return nil, errors.New("deck builder cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &StudyService{
		generator: generator,
		decks:     decks,
		logger:    logger,
	}, nil
}

// GenerateMaterials produces study materials for the given content.
func (s *StudyService) GenerateMaterials(ctx context.Context, content, title string) (*domain.StudyMaterials, error) {
	materials, err := s.generator.GenerateMaterials(ctx, content, title)
	if err != nil {
		return nil, fmt.Errorf("failed to generate study materials: %w", err)
	}
	return materials, nil
}

// BuildDeck packages the flashcards into an .apkg buffer and returns it
// together with the download file name derived from the deck name.
func (s *StudyService) BuildDeck(ctx context.Context, cards []domain.Flashcard, deckName string) ([]byte, string, error) {
	buf, err := s.decks.Build(cards, deckName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build deck: %w", err)
	}

	s.logger.InfoContext(ctx, "built deck package",
		"deck_name", deckName,
		"cards", len(cards),
		"bytes", len(buf))
	return buf, deckFileName(deckName), nil
}

// deckFileName derives the attachment file name from the deck name,
// dropping characters that would break the Content-Disposition header.
func deckFileName(deckName string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '/', '\n', '\r':
			return -1
		default:
			return r
		}
	}, deckName)
	name = strings.TrimSpace(name)
	if name == "" {
		name = "deck"
	}
	return name + ".apkg"
}
