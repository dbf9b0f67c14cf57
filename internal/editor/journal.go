package editor

import (
	"context"
	"fmt"

	"github.com/roach88/nodeweave/internal/store"
)

// StoreJournal appends intents to one session of a store.
type StoreJournal struct {
	Store   *store.Store
	Session string
}

// Append writes in as the next intent of the session.
func (j StoreJournal) Append(ctx context.Context, in Intent) error {
	payload, err := MarshalIntent(in)
	if err != nil {
		return err
	}
	if _, err := j.Store.AppendIntent(ctx, j.Session, string(in.Kind), payload); err != nil {
		return fmt.Errorf("journal %s: %w", in.Kind, err)
	}
	return nil
}

// MemoryJournal keeps intents in memory. Used by tests and the scenario
// harness to compare a live session with its replay.
type MemoryJournal struct {
	Intents []Intent
}

// Append records in.
func (j *MemoryJournal) Append(_ context.Context, in Intent) error {
	j.Intents = append(j.Intents, in)
	return nil
}
