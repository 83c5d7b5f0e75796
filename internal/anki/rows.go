package anki

import (
	"encoding/base64"
	"strconv"

	"github.com/studyforge/studyforge/internal/domain"
)

const (
	// fieldSeparator joins a note's field values inside the flds column.
	// Anki reserves U+001F for this; user text containing it is not escaped
	// and will corrupt field splitting on import.
	fieldSeparator = "\x1f"

	// cardIDOffset keeps a card's id clear of its note's id when both are
	// minted in the same timestamp tick.
	cardIDOffset = 1000

	// maxFieldChecksum bounds note checksums to the positive range of
	// Anki's csum column.
	maxFieldChecksum = 1<<31 - 1

	// guidLength is the length of a note's globally-unique string id.
	guidLength = 10
)

// noteRow mirrors the notes table column order.
type noteRow struct {
	id    int64
	guid  string
	mid   int64
	mod   int64
	usn   int
	tags  string
	flds  string
	sfld  string
	csum  int64
	flags int
	data  string
}

// cardRow mirrors the cards table column order.
type cardRow struct {
	id     int64
	nid    int64
	did    int64
	ord    int
	mod    int64
	usn    int
	typ    int
	queue  int
	due    int64
	ivl    int
	factor int
	reps   int
	lapses int
	left   int
	odue   int
	odid   int
	flags  int
	data   string
}

// noteGUID derives a note's guid from its id: a fixed-length prefix of the
// base64 form of the decimal id. Collisions are accepted as negligible at
// normal package sizes.
func noteGUID(id int64) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
	if len(encoded) > guidLength {
		return encoded[:guidLength]
	}
	return encoded
}

// fieldChecksum reduces the front field to the checksum Anki uses for
// duplicate hints: the sum of its character codes, kept within the csum
// column's positive range. The value is advisory, not an integrity check.
func fieldChecksum(front string) int64 {
	var sum int64
	for _, r := range front {
		sum += int64(r)
	}
	return sum % maxFieldChecksum
}

// encodeCard turns one flashcard into its note and card rows. index is the
// card's zero-based position in the input; it becomes due = index+1 so the
// importer presents new cards in input order. The card's id is offset from
// the note's so the two never collide.
func encodeCard(card domain.Flashcard, index int, ids IDSource, modelID, deckID, now int64) (noteRow, cardRow) {
	noteID := ids.NextID()
	cardID := noteID + cardIDOffset

	note := noteRow{
		id:   noteID,
		guid: noteGUID(noteID),
		mid:  modelID,
		mod:  now,
		usn:  -1,
		flds: card.Front + fieldSeparator + card.Back,
		sfld: card.Front,
		csum: fieldChecksum(card.Front),
	}

	// Scheduling state stays zeroed: type 0 and queue 0 mark a new, unseen
	// card.
	cr := cardRow{
		id:  cardID,
		nid: noteID,
		did: deckID,
		mod: now,
		usn: -1,
		due: int64(index) + 1,
	}

	return note, cr
}
