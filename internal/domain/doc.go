// Package domain contains the core value types exchanged between the
// extraction, generation, and packaging layers: articles pulled from the
// web or PDFs, the study materials produced from them, and the flashcards
// that end up in an exported deck.
package domain
