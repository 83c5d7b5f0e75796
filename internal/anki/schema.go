package anki

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// The typed records below are the source of truth for the four JSON
// documents stored in the collection row's text columns. Field names and
// JSON keys mirror Anki's own schema; the importer reads these documents
// verbatim.

// DefaultDeckID is the id of the fixed "Default" deck every collection
// carries.
const DefaultDeckID = 1

// CollectionConfig is the top-level collection configuration document.
type CollectionConfig struct {
	NextPos       int     `json:"nextPos"`
	EstTimes      bool    `json:"estTimes"`
	ActiveDecks   []int64 `json:"activeDecks"`
	SortType      string  `json:"sortType"`
	TimeLim       int     `json:"timeLim"`
	SortBackwards bool    `json:"sortBackwards"`
	AddToCur      bool    `json:"addToCur"`
	CurDeck       int64   `json:"curDeck"`
	NewSpread     int     `json:"newSpread"`
	DueCounts     bool    `json:"dueCounts"`
	CurModel      int64   `json:"curModel"`
	CollapseTime  int     `json:"collapseTime"`
}

// Template is one card template of a note type: the question and answer
// format strings plus browser display attributes.
type Template struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Qfmt  string `json:"qfmt"`
	Afmt  string `json:"afmt"`
	Bqfmt string `json:"bqfmt"`
	Bafmt string `json:"bafmt"`
	Did   *int64 `json:"did"`
	Bfont string `json:"bfont"`
	Bsize int    `json:"bsize"`
}

// Field is one field of a note type.
type Field struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

// Requirement tells the importer which fields must be non-empty for a
// template to generate a card. Anki encodes it as the heterogeneous array
// [templateOrd, kind, fieldOrds].
type Requirement struct {
	TemplateOrd int
	Kind        string
	FieldOrds   []int
}

func (r Requirement) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.TemplateOrd, r.Kind, r.FieldOrds})
}

func (r *Requirement) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("requirement must have 3 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &r.TemplateOrd); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[1], &r.Kind); err != nil {
		return err
	}
	return json.Unmarshal(parts[2], &r.FieldOrds)
}

// Model is a note type: its ordered fields, card templates, styling, and
// card-generation requirements.
type Model struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Type      int           `json:"type"`
	Mod       int64         `json:"mod"`
	USN       int           `json:"usn"`
	SortF     int           `json:"sortf"`
	Did       int64         `json:"did"`
	Tmpls     []Template    `json:"tmpls"`
	Flds      []Field       `json:"flds"`
	CSS       string        `json:"css"`
	LatexPre  string        `json:"latexPre"`
	LatexPost string        `json:"latexPost"`
	LatexSVG  bool          `json:"latexsvg"`
	Req       []Requirement `json:"req"`
	Tags      []string      `json:"tags"`
	Vers      []string      `json:"vers"`
}

// Deck is one deck entry with its daily counters. Counters are [dayCutoff,
// count] pairs and stay zeroed for freshly exported decks.
type Deck struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Mod       int64  `json:"mod"`
	USN       int    `json:"usn"`
	LrnToday  [2]int `json:"lrnToday"`
	RevToday  [2]int `json:"revToday"`
	NewToday  [2]int `json:"newToday"`
	TimeToday [2]int `json:"timeToday"`
	Collapsed bool   `json:"collapsed"`
	Desc      string `json:"desc"`
}

// NewCardOptions holds scheduling parameters for cards in the new queue.
type NewCardOptions struct {
	Delays        []float64 `json:"delays"`
	Ints          []int     `json:"ints"`
	InitialFactor int       `json:"initialFactor"`
	Order         int       `json:"order"`
	PerDay        int       `json:"perDay"`
}

// ReviewOptions holds scheduling parameters for cards in the review queue.
type ReviewOptions struct {
	PerDay   int     `json:"perDay"`
	Ease4    float64 `json:"ease4"`
	Fuzz     float64 `json:"fuzz"`
	MinSpace int     `json:"minSpace"`
	IvlFct   float64 `json:"ivlFct"`
	MaxIvl   int     `json:"maxIvl"`
}

// LapseOptions holds scheduling parameters for lapsed cards.
type LapseOptions struct {
	Delays      []float64 `json:"delays"`
	Mult        float64   `json:"mult"`
	MinInt      int       `json:"minInt"`
	LeechFails  int       `json:"leechFails"`
	LeechAction int       `json:"leechAction"`
}

// DeckOptions is one deck-options group.
type DeckOptions struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	New      NewCardOptions `json:"new"`
	Rev      ReviewOptions  `json:"rev"`
	Lapse    LapseOptions   `json:"lapse"`
	MaxTaken int            `json:"maxTaken"`
	Timer    int            `json:"timer"`
	Autoplay bool           `json:"autoplay"`
	ReplayQ  bool           `json:"replayq"`
	Mod      int64          `json:"mod"`
	USN      int            `json:"usn"`
}

// newCollectionConfig builds the configuration document pointing at the
// freshly created deck and model.
func newCollectionConfig(deckID, modelID int64) CollectionConfig {
	return CollectionConfig{
		NextPos:      1,
		EstTimes:     true,
		ActiveDecks:  []int64{DefaultDeckID},
		SortType:     "noteFld",
		AddToCur:     true,
		CurDeck:      deckID,
		DueCounts:    true,
		CurModel:     modelID,
		CollapseTime: 1200,
	}
}

// newBasicModel builds the single two-field "Basic" note type used for all
// exported cards: one template whose question shows the front and whose
// answer appends the back below a rule.
func newBasicModel(id, deckID, now int64) Model {
	return Model{
		ID:    id,
		Name:  "Basic",
		Mod:   now,
		USN:   -1,
		Did:   deckID,
		Tmpls: []Template{{
			Name: "Card 1",
			Qfmt: "{{Front}}",
			Afmt: "{{FrontSide}}<hr id=\"answer\">{{Back}}",
		}},
		Flds: []Field{
			{Name: "Front", Ord: 0, Font: "Arial", Size: 20, Media: []string{}},
			{Name: "Back", Ord: 1, Font: "Arial", Size: 20, Media: []string{}},
		},
		CSS:  ".card { font-family: arial; font-size: 20px; text-align: center; color: black; background-color: white; }",
		Req:  []Requirement{{TemplateOrd: 0, Kind: "all", FieldOrds: []int{0}}},
		Tags: []string{},
		Vers: []string{},
	}
}

// newDeck builds a deck entry with zeroed daily counters.
func newDeck(id int64, name string, now int64) Deck {
	return Deck{ID: id, Name: name, Mod: now, USN: -1}
}

// defaultDeckOptions builds the single "Default" options group, matching
// Anki's own scheduling defaults.
func defaultDeckOptions() DeckOptions {
	return DeckOptions{
		ID:   DefaultDeckID,
		Name: "Default",
		New: NewCardOptions{
			Delays:        []float64{1, 10},
			Ints:          []int{1, 4, 7},
			InitialFactor: 2500,
			Order:         1,
			PerDay:        20,
		},
		Rev: ReviewOptions{
			PerDay:   200,
			Ease4:    1.3,
			Fuzz:     0.05,
			MinSpace: 1,
			IvlFct:   1,
			MaxIvl:   36500,
		},
		Lapse: LapseOptions{
			Delays:     []float64{10},
			MinInt:     1,
			LeechFails: 8,
		},
		MaxTaken: 60,
		Autoplay: true,
		ReplayQ:  true,
	}
}

// encodeByID serializes a set of records as a JSON object keyed by the
// decimal form of each record's id, the shape Anki stores in the collection
// row.
func encodeByID[T any](byID map[int64]T) (string, error) {
	doc := make(map[string]T, len(byID))
	for id, v := range byID {
		doc[strconv.FormatInt(id, 10)] = v
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode collection document: %w", err)
	}
	return string(out), nil
}

// encodeConfig serializes the collection configuration document.
func encodeConfig(conf CollectionConfig) (string, error) {
	out, err := json.Marshal(conf)
	if err != nil {
		return "", fmt.Errorf("failed to encode collection config: %w", err)
	}
	return string(out), nil
}
