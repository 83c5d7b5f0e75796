package anki

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// collectionSchema is the subset of Anki's collection database the importer
// requires: the singleton col row, notes and cards, and the revlog and
// graves tables, which ship empty.
const collectionSchema = `
CREATE TABLE col (
    id INTEGER PRIMARY KEY,
    crt INTEGER NOT NULL,
    mod INTEGER NOT NULL,
    scm INTEGER NOT NULL,
    ver INTEGER NOT NULL,
    dty INTEGER NOT NULL,
    usn INTEGER NOT NULL,
    ls INTEGER NOT NULL,
    conf TEXT NOT NULL,
    models TEXT NOT NULL,
    decks TEXT NOT NULL,
    dconf TEXT NOT NULL,
    tags TEXT NOT NULL
);

CREATE TABLE notes (
    id INTEGER PRIMARY KEY,
    guid TEXT NOT NULL,
    mid INTEGER NOT NULL,
    mod INTEGER NOT NULL,
    usn INTEGER NOT NULL,
    tags TEXT NOT NULL,
    flds TEXT NOT NULL,
    sfld TEXT NOT NULL,
    csum INTEGER NOT NULL,
    flags INTEGER NOT NULL,
    data TEXT NOT NULL
);

CREATE TABLE cards (
    id INTEGER PRIMARY KEY,
    nid INTEGER NOT NULL,
    did INTEGER NOT NULL,
    ord INTEGER NOT NULL,
    mod INTEGER NOT NULL,
    usn INTEGER NOT NULL,
    type INTEGER NOT NULL,
    queue INTEGER NOT NULL,
    due INTEGER NOT NULL,
    ivl INTEGER NOT NULL,
    factor INTEGER NOT NULL,
    reps INTEGER NOT NULL,
    lapses INTEGER NOT NULL,
    left INTEGER NOT NULL,
    odue INTEGER NOT NULL,
    odid INTEGER NOT NULL,
    flags INTEGER NOT NULL,
    data TEXT NOT NULL
);

CREATE TABLE revlog (
    id INTEGER PRIMARY KEY,
    cid INTEGER,
    usn INTEGER,
    ease INTEGER,
    ivl INTEGER,
    lastIvl INTEGER,
    factor INTEGER,
    time INTEGER,
    type INTEGER
);

CREATE TABLE graves (usn INTEGER, oid INTEGER, type INTEGER);
`

// collectionVersion is the schema version marker the importer expects.
const collectionVersion = 11

// colRow holds the singleton collection row: timestamps, the version
// marker, and the four serialized configuration documents.
type colRow struct {
	crt    int64
	mod    int64
	scm    int64
	conf   string
	models string
	decks  string
	dconf  string
}

// buildCollectionDB renders the five-table relational image to SQLite file
// bytes. The database is written through the sqlite driver to a temp file
// that is read back and removed before returning; nothing persists between
// calls.
func buildCollectionDB(col colRow, notes []noteRow, cards []cardRow) ([]byte, error) {
	dir, err := os.MkdirTemp("", "studyforge-apkg-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "collection.anki2")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection database: %w", err)
	}

	if err := writeCollection(db, col, notes, cards); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Close flushes everything to the file before it is read back.
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("failed to close collection database: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection database image: %w", err)
	}
	return data, nil
}

func writeCollection(db *sql.DB, col colRow, notes []noteRow, cards []cardRow) error {
	// Rollback journaling keeps the image to a single file; WAL would leave
	// sidecar files outside the bytes read back.
	if _, err := db.Exec(`PRAGMA journal_mode = DELETE`); err != nil {
		return fmt.Errorf("failed to set journal mode: %w", err)
	}

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("failed to apply collection schema: %w", err)
	}

	_, err := db.Exec(
		`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1, col.crt, col.mod, col.scm, collectionVersion, 0, 0, 0,
		col.conf, col.models, col.decks, col.dconf, "{}",
	)
	if err != nil {
		return fmt.Errorf("failed to insert collection row: %w", err)
	}

	for _, n := range notes {
		_, err := db.Exec(
			`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.id, n.guid, n.mid, n.mod, n.usn, n.tags, n.flds, n.sfld, n.csum, n.flags, n.data,
		)
		if err != nil {
			return fmt.Errorf("failed to insert note %d: %w", n.id, err)
		}
	}

	for _, c := range cards {
		_, err := db.Exec(
			`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.id, c.nid, c.did, c.ord, c.mod, c.usn, c.typ, c.queue, c.due,
			c.ivl, c.factor, c.reps, c.lapses, c.left, c.odue, c.odid, c.flags, c.data,
		)
		if err != nil {
			return fmt.Errorf("failed to insert card %d: %w", c.id, err)
		}
	}

	return nil
}
