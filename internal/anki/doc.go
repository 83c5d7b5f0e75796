// Package anki builds importable Anki packages (.apkg files) from
// flashcards, entirely in memory.
//
// An .apkg is an uncompressed zip archive holding a SQLite database
// (collection.anki2) and a media manifest. The database carries one
// collection row whose configuration, note-type, deck, and deck-options
// documents are JSON text columns, plus one note row and one card row per
// flashcard. The package reproduces Anki's schema and byte layout exactly;
// a single wrong offset or checksum makes the file unreadable by the
// importer.
package anki
