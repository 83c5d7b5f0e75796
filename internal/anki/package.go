package anki

import (
	"fmt"
	"time"

	"github.com/studyforge/studyforge/internal/domain"
)

// DefaultDeckName is used when a package is built without an explicit deck
// name.
const DefaultDeckName = "Study Optimizer Deck"

// Fixed entry names inside the package archive.
const (
	collectionFileName = "collection.anki2"
	mediaFileName      = "media"
)

// emptyMediaManifest is the media entry for a package that ships no media
// files.
const emptyMediaManifest = "{}"

// Builder assembles .apkg packages. The zero configuration produced by
// NewBuilder uses wall-clock timestamps and time-derived ids; tests inject
// a fixed clock and a SequenceIDSource for reproducible output.
//
// A Builder holds no state between calls, but its IDSource may; use one
// Builder per concurrent caller.
type Builder struct {
	ids IDSource
	now func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithIDSource replaces the identifier source used for deck, model, note,
// and card ids.
func WithIDSource(ids IDSource) Option {
	return func(b *Builder) { b.ids = ids }
}

// WithClock replaces the time source used for creation and modification
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a package Builder with the given options applied.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		ids: NewTimeIDSource(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build packs the flashcards into a complete .apkg buffer: one new deck
// holding one note and one card per flashcard, alongside the fixed Default
// deck. An empty card list yields a valid package with deck and note-type
// metadata only. deckName falls back to DefaultDeckName when blank.
//
// The call either returns the full buffer or an error; no partial output is
// produced.
func (b *Builder) Build(cards []domain.Flashcard, deckName string) ([]byte, error) {
	if deckName == "" {
		deckName = DefaultDeckName
	}

	now := b.now().Unix()
	deckID := b.ids.NextID()
	modelID := b.ids.NextID()

	conf, err := encodeConfig(newCollectionConfig(deckID, modelID))
	if err != nil {
		return nil, err
	}
	models, err := encodeByID(map[int64]Model{
		modelID: newBasicModel(modelID, deckID, now),
	})
	if err != nil {
		return nil, err
	}
	decks, err := encodeByID(map[int64]Deck{
		DefaultDeckID: newDeck(DefaultDeckID, "Default", now),
		deckID:        newDeck(deckID, deckName, now),
	})
	if err != nil {
		return nil, err
	}
	dconf, err := encodeByID(map[int64]DeckOptions{
		DefaultDeckID: defaultDeckOptions(),
	})
	if err != nil {
		return nil, err
	}

	notes := make([]noteRow, 0, len(cards))
	cardRows := make([]cardRow, 0, len(cards))
	for i, card := range cards {
		n, c := encodeCard(card, i, b.ids, modelID, deckID, now)
		notes = append(notes, n)
		cardRows = append(cardRows, c)
	}

	col := colRow{
		crt:    now,
		mod:    now * 1000,
		scm:    now * 1000,
		conf:   conf,
		models: models,
		decks:  decks,
		dconf:  dconf,
	}

	image, err := buildCollectionDB(col, notes, cardRows)
	if err != nil {
		return nil, fmt.Errorf("failed to build collection image: %w", err)
	}

	return buildArchive([]archiveEntry{
		{name: collectionFileName, data: image},
		{name: mediaFileName, data: []byte(emptyMediaManifest)},
	}), nil
}
