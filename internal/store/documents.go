package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/nodeweave/internal/codec"
	"github.com/roach88/nodeweave/internal/graph"
)

// DocumentRecord is one saved document row.
type DocumentRecord struct {
	ID        int64
	Name      string
	Digest    string
	Body      []byte
	NodeCount int
	EdgeCount int
	Seq       int64
}

// SaveDocument stores doc under name as canonical JSON.
//
// Saving a document identical to one already stored under name does not
// add a row; it marks the existing row as the latest save.
func (s *Store) SaveDocument(ctx context.Context, name string, doc graph.Document) (DocumentRecord, error) {
	if name == "" {
		return DocumentRecord{}, errors.New("save document: name is required")
	}
	body, err := codec.Encode(doc)
	if err != nil {
		return DocumentRecord{}, fmt.Errorf("save document: %w", err)
	}
	digest := graph.Digest(graph.DomainDocument, body)

	var rec DocumentRecord
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		var seq int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(seq), 0) + 1 FROM documents`,
		).Scan(&seq); err != nil {
			return fmt.Errorf("next document seq: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (name, digest, body, node_count, edge_count, seq)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(name, digest) DO UPDATE SET seq = excluded.seq
		`, name, digest, string(body), len(doc.Nodes), len(doc.Edges), seq); err != nil {
			return fmt.Errorf("write document: %w", err)
		}

		row := tx.QueryRowContext(ctx, `
			SELECT id, name, digest, body, node_count, edge_count, seq
			FROM documents
			WHERE name = ? AND digest = ?
		`, name, digest)
		r, err := scanDocument(row)
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return DocumentRecord{}, fmt.Errorf("save document %q: %w", name, err)
	}
	return rec, nil
}

// LatestDocument returns the most recent save of name.
// Returns ErrNotFound if nothing was saved under name.
func (s *Store) LatestDocument(ctx context.Context, name string) (DocumentRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, digest, body, node_count, edge_count, seq
		FROM documents
		WHERE name = ?
		ORDER BY seq DESC
		LIMIT 1
	`, name)
	rec, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DocumentRecord{}, fmt.Errorf("document %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return DocumentRecord{}, fmt.Errorf("read document %q: %w", name, err)
	}
	return rec, nil
}

// LoadDocument decodes the most recent save of name.
func (s *Store) LoadDocument(ctx context.Context, name string) (graph.Document, error) {
	rec, err := s.LatestDocument(ctx, name)
	if err != nil {
		return graph.Document{}, err
	}
	doc, err := codec.Decode(rec.Body)
	if err != nil {
		return graph.Document{}, fmt.Errorf("decode document %q: %w", name, err)
	}
	return doc, nil
}

// ListDocuments returns the latest save of every name, ordered by name.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) ListDocuments(ctx context.Context) ([]DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.digest, d.body, d.node_count, d.edge_count, d.seq
		FROM documents d
		WHERE d.seq = (SELECT MAX(seq) FROM documents WHERE name = d.name)
		ORDER BY d.name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	records := []DocumentRecord{}
	for rows.Next() {
		rec, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (DocumentRecord, error) {
	var (
		rec  DocumentRecord
		body string
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Digest, &body, &rec.NodeCount, &rec.EdgeCount, &rec.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return DocumentRecord{}, err
	}
	if err != nil {
		return DocumentRecord{}, fmt.Errorf("scan document: %w", err)
	}
	rec.Body = []byte(body)
	return rec, nil
}
