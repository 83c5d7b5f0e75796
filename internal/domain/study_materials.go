package domain

import "errors"

// Common validation errors for StudyMaterials
var (
	ErrMissingNotes      = errors.New("study materials must include notes")
	ErrMissingFlashcards = errors.New("study materials must include flashcards")
	ErrMissingQuestions  = errors.New("study materials must include questions")
)

// StudyQuestion is an elaborative "why/how" question with an optional hint
// for self-testing.
type StudyQuestion struct {
	Question string `json:"question"`
	Hint     string `json:"hint,omitempty"`
}

// StudyMaterials is the full set of learning artifacts generated from one
// piece of content: condensed hierarchical notes, flashcards for spaced
// repetition, and key questions for elaborative interrogation.
type StudyMaterials struct {
	Notes      string          `json:"notes"`
	Flashcards []Flashcard     `json:"flashcards"`
	Questions  []StudyQuestion `json:"questions"`
}

// Validate checks that all three sections are present. A generation result
// missing any section is treated as malformed rather than partially usable.
func (m *StudyMaterials) Validate() error {
	if m.Notes == "" {
		return ErrMissingNotes
	}
	if len(m.Flashcards) == 0 {
		return ErrMissingFlashcards
	}
	if len(m.Questions) == 0 {
		return ErrMissingQuestions
	}
	return nil
}
