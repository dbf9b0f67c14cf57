package testutil

import "fmt"

// SequenceSource hands out readable ids "<prefix>-1", "<prefix>-2", ...
//
// Scenarios use it so node and edge ids in golden documents are stable.
// It never runs out, unlike graph.FixedSource.
//
// Thread-safety: safe for concurrent use.
type SequenceSource struct {
	prefix string
	clock  *DeterministicClock
}

// NewSequenceSource creates a source for the given prefix.
// An empty prefix defaults to "id".
func NewSequenceSource(prefix string) *SequenceSource {
	if prefix == "" {
		prefix = "id"
	}
	return &SequenceSource{prefix: prefix, clock: NewDeterministicClock()}
}

// NewID returns the next id in the sequence.
func (s *SequenceSource) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.clock.Next())
}

// Issued returns how many ids have been handed out.
func (s *SequenceSource) Issued() int64 {
	return s.clock.Current()
}

// Reset restarts the sequence at 1.
func (s *SequenceSource) Reset() {
	s.clock.Reset()
}
