package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/nodeweave/internal/graph"
)

// DefaultFileName is the name a saved document is offered under.
const DefaultFileName = "diagram.json"

// ParseError reports text that could not be decoded as a document.
type ParseError struct {
	// Offset is the byte offset of a syntax error, or -1 if unknown.
	Offset int64

	Err error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid document at byte %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is (or wraps) a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Encode serializes doc as canonical JSON.
func Encode(doc graph.Document) ([]byte, error) {
	data, err := graph.MarshalCanonical(toWire(doc))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// EncodeIndent serializes doc as canonical JSON indented with two spaces.
func EncodeIndent(doc graph.Document) ([]byte, error) {
	data, err := Encode(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("indent document: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// errNotObject rejects a top-level null, which json.Unmarshal accepts as
// a no-op on a struct.
var errNotObject = errors.New("document must be a JSON object")

// Decode parses text into a document.
// Missing "nodes" or "edges" keys decode as empty lists. The top level
// must be an object.
func Decode(text []byte) (graph.Document, error) {
	var w wireDocument
	if err := json.Unmarshal(text, &w); err != nil {
		return graph.Document{}, newParseError(err)
	}
	body := bytes.TrimLeft(text, " \t\r\n")
	if bytes.HasPrefix(body, []byte("null")) {
		return graph.Document{}, &ParseError{Offset: int64(len(text) - len(body)), Err: errNotObject}
	}
	return fromWire(w), nil
}

// Digest returns the content digest of doc's canonical encoding.
func Digest(doc graph.Document) (string, error) {
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}
	return graph.Digest(graph.DomainDocument, data), nil
}

func newParseError(err error) *ParseError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Offset: syntaxErr.Offset, Err: err}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ParseError{Offset: typeErr.Offset, Err: err}
	}
	return &ParseError{Offset: -1, Err: err}
}
