package editor

import (
	"context"
	"fmt"

	"github.com/roach88/nodeweave/internal/store"
)

// Replay rebuilds an editor by applying a recorded session from the store.
//
// Journaled intents carry their resolved ids, so the rebuilt editor ends in
// the same state as the recorded one, undo and redo stacks included.
// opts.Journal is ignored so replaying never extends the journal.
func Replay(ctx context.Context, s *store.Store, session string, opts Options) (*Editor, error) {
	records, err := s.ReadIntents(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("replay %q: %w", session, err)
	}

	intents := make([]Intent, 0, len(records))
	for _, rec := range records {
		in, err := UnmarshalIntent(rec.Payload)
		if err != nil {
			return nil, fmt.Errorf("replay %q seq %d: %w", session, rec.Seq, err)
		}
		intents = append(intents, in)
	}
	return ReplayIntents(ctx, intents, opts)
}

// ReplayIntents applies intents to a fresh editor in order.
func ReplayIntents(ctx context.Context, intents []Intent, opts Options) (*Editor, error) {
	opts.Journal = nil
	e := New(opts)
	for i, in := range intents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := e.Apply(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("replay intent %d (%s): %w", i+1, in.Kind, err)
		}
		if !res.Changed {
			return nil, fmt.Errorf("replay intent %d (%s): no effect", i+1, in.Kind)
		}
	}
	return e, nil
}
