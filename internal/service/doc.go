// Package service orchestrates the application's use cases: generating
// study materials from extracted content and packaging flashcards into
// downloadable decks. Handlers stay thin by delegating here.
package service
