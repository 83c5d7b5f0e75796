package anki

import (
	"math/rand"
	"time"
)

// IDSource yields identifiers for the rows of one generated package. Every
// call within a single package build must return a distinct value; nothing
// is promised across builds.
type IDSource interface {
	NextID() int64
}

// timeIDSource issues identifiers from the current millisecond timestamp
// plus a bounded random perturbation, the scheme Anki itself uses for row
// ids. Values are forced strictly upward so calls landing in the same
// millisecond tick still get distinct ids.
type timeIDSource struct {
	rng  *rand.Rand
	last int64
}

// NewTimeIDSource returns the production IDSource. It is not safe for
// concurrent use; each package build owns its own source.
func NewTimeIDSource() IDSource {
	return &timeIDSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *timeIDSource) NextID() int64 {
	id := time.Now().UnixMilli() + s.rng.Int63n(1000)
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// SequenceIDSource hands out consecutive identifiers from a fixed start.
// It exists so tests can assert exact ids instead of mere uniqueness.
type SequenceIDSource struct {
	next int64
}

// NewSequenceIDSource returns a SequenceIDSource whose first NextID call
// returns start.
func NewSequenceIDSource(start int64) *SequenceIDSource {
	return &SequenceIDSource{next: start}
}

func (s *SequenceIDSource) NextID() int64 {
	id := s.next
	s.next++
	return id
}
