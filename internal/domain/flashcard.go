package domain

// Flashcard is a single question/answer pair. Empty sides are legal input
// for deck export; they produce a degenerate but usable card, so no
// validation is applied here.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}
