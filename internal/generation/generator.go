package generation

import (
	"context"

	"github.com/studyforge/studyforge/internal/domain"
)

// Generator defines the interface for generating study materials from text.
// Implementations wrap a concrete language-model backend; callers depend
// only on this interface.
type Generator interface {
	// GenerateMaterials produces condensed notes, flashcards, and key
	// questions for the given content. title gives the model context about
	// the source and may be empty.
	//
	// Returns the complete set of materials or an error (see errors.go for
	// the specific types).
	GenerateMaterials(ctx context.Context, content, title string) (*domain.StudyMaterials, error)
}
