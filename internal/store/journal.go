package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// IntentRecord is one journaled intent.
// Payload is the intent's canonical JSON; the store does not interpret it.
type IntentRecord struct {
	Session string
	Seq     int64
	Kind    string
	Payload []byte
}

// AppendIntent adds an intent to the end of session's journal and returns
// its seq. Seqs start at 1 and have no gaps.
func (s *Store) AppendIntent(ctx context.Context, session, kind string, payload []byte) (int64, error) {
	if session == "" {
		return 0, errors.New("append intent: session is required")
	}
	var seq int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(seq), 0) + 1 FROM intents WHERE session = ?`, session,
		).Scan(&seq); err != nil {
			return fmt.Errorf("next intent seq: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO intents (session, seq, kind, payload)
			VALUES (?, ?, ?, ?)
		`, session, seq, kind, string(payload)); err != nil {
			return fmt.Errorf("write intent: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("append intent to %q: %w", session, err)
	}
	return seq, nil
}

// ReadIntents returns session's journal in seq order.
// Returns ErrNotFound if the session has no intents.
func (s *Store) ReadIntents(ctx context.Context, session string) ([]IntentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session, seq, kind, payload
		FROM intents
		WHERE session = ?
		ORDER BY seq ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query intents: %w", err)
	}
	defer rows.Close()

	var records []IntentRecord
	for rows.Next() {
		var (
			rec     IntentRecord
			payload string
		)
		if err := rows.Scan(&rec.Session, &rec.Seq, &rec.Kind, &payload); err != nil {
			return nil, fmt.Errorf("scan intent: %w", err)
		}
		rec.Payload = []byte(payload)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intents: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("session %q: %w", session, ErrNotFound)
	}
	return records, nil
}

// Sessions lists every session with at least one intent, sorted.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT session FROM intents ORDER BY session COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var session string
		if err := rows.Scan(&session); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
