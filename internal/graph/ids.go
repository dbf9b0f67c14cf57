package graph

import (
	"sync"

	"github.com/google/uuid"
)

// IDSource hands out identifiers for new nodes and edges.
type IDSource interface {
	NewID() string
}

// UUIDv7Source generates time-sortable UUIDv7 identifiers.
//
// UUIDv7 embeds a millisecond timestamp in the high bits plus random bits,
// so ids stay unique across saved documents merged from different sessions.
//
// Thread-safety: UUIDv7Source is stateless and safe for concurrent use.
type UUIDv7Source struct{}

// NewID returns a new hyphenated UUIDv7.
// Panics if the random source fails (should never happen in practice).
func (UUIDv7Source) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedSource returns predetermined ids in order, for tests.
//
// Thread-safety: FixedSource is safe for concurrent use via internal mutex.
type FixedSource struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedSource creates a source that returns ids in order.
func NewFixedSource(ids ...string) *FixedSource {
	return &FixedSource{ids: ids}
}

// NewID returns the next predetermined id.
// Panics once every id has been handed out, to catch a test that creates
// more nodes or edges than it planned for.
func (s *FixedSource) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.ids) {
		panic("FixedSource: all ids exhausted")
	}
	id := s.ids[s.idx]
	s.idx++
	return id
}
