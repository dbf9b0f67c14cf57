package codec

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaSource string

// SchemaError reports a document that parses but does not satisfy the
// schema. Details holds one line per violation.
type SchemaError struct {
	Details []string
}

func (e *SchemaError) Error() string {
	if len(e.Details) == 1 {
		return "document does not match schema: " + e.Details[0]
	}
	return fmt.Sprintf("document does not match schema: %d violations", len(e.Details))
}

var (
	schemaOnce  sync.Once
	schemaCtx   *cue.Context
	schemaValue cue.Value
	schemaErr   error

	// cue.Context is not safe for concurrent use
	schemaMu sync.Mutex
)

func loadSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		schemaValue = v.LookupPath(cue.ParsePath("#Document"))
		if err := schemaValue.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Document: %w", err)
		}
	})
	return schemaCtx, schemaValue, schemaErr
}

// CheckSchema validates raw document text against the embedded schema.
// Returns *ParseError for text that is not JSON and *SchemaError for JSON
// that violates the schema.
func CheckSchema(text []byte) error {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	ctx, schema, err := loadSchema()
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract("document.json", text)
	if err != nil {
		return &ParseError{Offset: -1, Err: err}
	}
	data := ctx.BuildExpr(expr)
	if err := data.Err(); err != nil {
		return &ParseError{Offset: -1, Err: err}
	}

	unified := schema.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var details []string
		for _, e := range cueerrors.Errors(err) {
			details = append(details, e.Error())
		}
		return &SchemaError{Details: details}
	}
	return nil
}
