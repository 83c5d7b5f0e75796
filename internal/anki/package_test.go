package anki

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/internal/domain"
)

func fixedClock() func() time.Time {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func testBuilder() *Builder {
	return NewBuilder(WithIDSource(NewSequenceIDSource(1000)), WithClock(fixedClock()))
}

// readEntries opens the buffer as a zip archive and returns its entries in
// order.
func readEntries(t *testing.T, buf []byte) map[string][]byte {
	t.Helper()

	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	require.NoError(t, err)

	entries := make(map[string][]byte, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = data
	}
	return entries
}

// openCollection writes the collection image to disk and opens it with an
// independent sqlite connection.
func openCollection(t *testing.T, image []byte) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "collection.anki2")
	require.NoError(t, os.WriteFile(path, image, 0o600))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestBuildTwoCardScenario(t *testing.T) {
	t.Parallel()

	cards := []domain.Flashcard{
		{Front: "Q1", Back: "A1"},
		{Front: "Q2", Back: "A2"},
	}

	buf, err := testBuilder().Build(cards, "Demo")
	require.NoError(t, err)

	entries := readEntries(t, buf)
	require.Len(t, entries, 2)
	require.Contains(t, entries, "collection.anki2")
	require.Contains(t, entries, "media")
	assert.Equal(t, []byte("{}"), entries["media"])

	db := openCollection(t, entries["collection.anki2"])

	assert.Equal(t, 1, countRows(t, db, "col"))
	assert.Equal(t, 2, countRows(t, db, "notes"))
	assert.Equal(t, 2, countRows(t, db, "cards"))
	assert.Equal(t, 0, countRows(t, db, "revlog"))
	assert.Equal(t, 0, countRows(t, db, "graves"))

	// Every card joins back to exactly one note.
	var orphans int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM cards WHERE nid NOT IN (SELECT id FROM notes)`,
	).Scan(&orphans))
	assert.Zero(t, orphans)

	// One model named Basic, the Default deck plus the named deck.
	var modelsDoc, decksDoc string
	require.NoError(t, db.QueryRow(`SELECT models, decks FROM col`).Scan(&modelsDoc, &decksDoc))

	var models map[string]Model
	require.NoError(t, json.Unmarshal([]byte(modelsDoc), &models))
	require.Len(t, models, 1)
	for _, m := range models {
		assert.Equal(t, "Basic", m.Name)
	}

	var decks map[string]Deck
	require.NoError(t, json.Unmarshal([]byte(decksDoc), &decks))
	require.Len(t, decks, 2)
	assert.Equal(t, "Default", decks["1"].Name)

	names := make([]string, 0, 2)
	for _, d := range decks {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "Demo")
}

func TestBuildFieldContentAndOrder(t *testing.T) {
	t.Parallel()

	cards := []domain.Flashcard{
		{Front: "first front", Back: "first back"},
		{Front: "second front", Back: "second back"},
		{Front: "third front", Back: "third back"},
	}

	buf, err := testBuilder().Build(cards, "Ordered")
	require.NoError(t, err)

	db := openCollection(t, readEntries(t, buf)["collection.anki2"])

	rows, err := db.Query(`
		SELECT n.flds, n.sfld, n.csum, c.due
		FROM cards c JOIN notes n ON n.id = c.nid
		ORDER BY c.due
	`)
	require.NoError(t, err)
	defer func() { require.NoError(t, rows.Close()) }()

	i := 0
	for rows.Next() {
		var flds, sfld string
		var csum, due int64
		require.NoError(t, rows.Scan(&flds, &sfld, &csum, &due))

		assert.Equal(t, cards[i].Front+"\x1f"+cards[i].Back, flds)
		assert.Equal(t, cards[i].Front, sfld)
		assert.Equal(t, fieldChecksum(cards[i].Front), csum)
		assert.Equal(t, int64(i)+1, due, "due follows input order")
		i++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, len(cards), i)
}

func TestBuildEmptyInput(t *testing.T) {
	t.Parallel()

	buf, err := testBuilder().Build(nil, "Empty Deck")
	require.NoError(t, err)

	entries := readEntries(t, buf)
	require.Len(t, entries, 2)

	db := openCollection(t, entries["collection.anki2"])
	assert.Equal(t, 1, countRows(t, db, "col"))
	assert.Equal(t, 0, countRows(t, db, "notes"))
	assert.Equal(t, 0, countRows(t, db, "cards"))

	// Deck and model metadata are present regardless.
	var modelsDoc, decksDoc string
	require.NoError(t, db.QueryRow(`SELECT models, decks FROM col`).Scan(&modelsDoc, &decksDoc))
	var decks map[string]Deck
	require.NoError(t, json.Unmarshal([]byte(decksDoc), &decks))
	assert.Len(t, decks, 2)
}

func TestBuildDefaultDeckName(t *testing.T) {
	t.Parallel()

	buf, err := testBuilder().Build(nil, "")
	require.NoError(t, err)

	db := openCollection(t, readEntries(t, buf)["collection.anki2"])

	var decksDoc string
	require.NoError(t, db.QueryRow(`SELECT decks FROM col`).Scan(&decksDoc))
	assert.Contains(t, decksDoc, DefaultDeckName)
}

func TestBuildReproducibleIDs(t *testing.T) {
	t.Parallel()

	cards := []domain.Flashcard{{Front: "Q", Back: "A"}}

	buf, err := testBuilder().Build(cards, "Deterministic")
	require.NoError(t, err)

	db := openCollection(t, readEntries(t, buf)["collection.anki2"])

	// Sequence source: 1000 deck, 1001 model, 1002 first note; the card sits
	// cardIDOffset above its note.
	var noteID, mid int64
	require.NoError(t, db.QueryRow(`SELECT id, mid FROM notes`).Scan(&noteID, &mid))
	assert.Equal(t, int64(1002), noteID)
	assert.Equal(t, int64(1001), mid)

	var cardID, did int64
	require.NoError(t, db.QueryRow(`SELECT id, did FROM cards`).Scan(&cardID, &did))
	assert.Equal(t, noteID+cardIDOffset, cardID)
	assert.Equal(t, int64(1000), did)
}

func TestBuildStructurallyIdempotent(t *testing.T) {
	t.Parallel()

	cards := []domain.Flashcard{
		{Front: "Q1", Back: "A1"},
		{Front: "Q2", Back: "A2"},
	}

	type snapshot struct {
		flds []string
		due  []int64
	}

	capture := func(buf []byte) snapshot {
		db := openCollection(t, readEntries(t, buf)["collection.anki2"])
		rows, err := db.Query(`
			SELECT n.flds, c.due FROM cards c JOIN notes n ON n.id = c.nid ORDER BY c.due
		`)
		require.NoError(t, err)
		defer func() { require.NoError(t, rows.Close()) }()

		var s snapshot
		for rows.Next() {
			var flds string
			var due int64
			require.NoError(t, rows.Scan(&flds, &due))
			s.flds = append(s.flds, flds)
			s.due = append(s.due, due)
		}
		require.NoError(t, rows.Err())
		return s
	}

	// Two builds with different id sources agree on everything but the ids.
	first, err := NewBuilder(WithIDSource(NewSequenceIDSource(1000)), WithClock(fixedClock())).Build(cards, "Twice")
	require.NoError(t, err)
	second, err := NewBuilder(WithIDSource(NewSequenceIDSource(77000)), WithClock(fixedClock())).Build(cards, "Twice")
	require.NoError(t, err)

	assert.Equal(t, capture(first), capture(second))
}

func TestBuildCollectionRow(t *testing.T) {
	t.Parallel()

	buf, err := testBuilder().Build(nil, "Meta")
	require.NoError(t, err)

	db := openCollection(t, readEntries(t, buf)["collection.anki2"])

	var id, crt, mod, scm, ver int64
	var tags string
	require.NoError(t, db.QueryRow(`SELECT id, crt, mod, scm, ver, tags FROM col`).Scan(
		&id, &crt, &mod, &scm, &ver, &tags))

	now := fixedClock()().Unix()
	assert.Equal(t, int64(1), id)
	assert.Equal(t, now, crt)
	assert.Equal(t, now*1000, mod)
	assert.Equal(t, now*1000, scm)
	assert.Equal(t, int64(collectionVersion), ver)
	assert.Equal(t, "{}", tags)
}

func TestBuildConcurrentBuilders(t *testing.T) {
	t.Parallel()

	// Builders share no mutable state; concurrent builds must not interfere.
	cards := []domain.Flashcard{{Front: "Q", Back: "A"}}
	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := NewBuilder().Build(cards, "Concurrent")
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, <-done)
	}
}
