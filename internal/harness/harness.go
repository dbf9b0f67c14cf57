package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/nodeweave/internal/codec"
	"github.com/roach88/nodeweave/internal/editor"
	"github.com/roach88/nodeweave/internal/store"
	"github.com/roach88/nodeweave/internal/testutil"
)

// Harness holds the per-run collaborators of one scenario.
type Harness struct {
	store   *store.Store
	editor  *editor.Editor
	session string
	clock   *testutil.DeterministicClock
	logger  *slog.Logger
	notices []string
}

// Run executes a scenario in a fresh in-memory store and returns the
// result. A non-nil error means the run itself could not be set up;
// failed expectations and assertions are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:   st,
		session: scenario.Name,
		clock:   testutil.NewDeterministicClock(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	h.editor = editor.New(h.editorOptions(editor.StoreJournal{Store: st, Session: h.session}))

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h.executeStep(ctx, i, step, result)
	}

	view := h.editor.View()
	result.Document = view.Document()
	result.CanUndo = view.CanUndo
	result.CanRedo = view.CanRedo
	result.Notices = append(result.Notices, h.notices...)

	actx := &AssertionContext{
		Ctx:     ctx,
		Editor:  h.editor,
		Store:   st,
		Session: h.session,
		Options: h.editorOptions(nil),
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) editorOptions(journal editor.Journal) editor.Options {
	return editor.Options{
		Logger:  h.logger,
		NodeIDs: testutil.NewSequenceSource("node"),
		EdgeIDs: testutil.NewSequenceSource("edge"),
		Journal: journal,
		Notifier: editor.NotifierFunc(func(n editor.Notice) {
			h.notices = append(h.notices, n.Message)
		}),
	}
}

func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) {
	res, err := h.editor.Apply(ctx, step.Intent)

	event := TraceEvent{
		Seq:     h.clock.Next(),
		Kind:    string(step.Kind),
		NodeID:  firstNonEmpty(res.NodeID, step.NodeID),
		EdgeID:  firstNonEmpty(res.EdgeID, step.EdgeID),
		Changed: res.Changed,
	}
	code := errorCode(err)
	event.Error = code
	result.Trace = append(result.Trace, event)

	if msg := step.Outcome(index, res, err, false); msg != "" {
		result.AddError(msg)
	}
}

// Outcome checks an applied step against its expect_error and expect_noop
// declarations. It returns a failure message, or "" if the step behaved as
// declared. With strict set, a step without either declaration must also
// change state.
func (s Step) Outcome(index int, res editor.Result, err error, strict bool) string {
	code := errorCode(err)
	switch {
	case s.ExpectError != "":
		if code != s.ExpectError {
			return fmt.Sprintf("steps[%d] %s: expected error %s, got %s", index, s.Kind, s.ExpectError, describe(code))
		}
	case err != nil:
		return fmt.Sprintf("steps[%d] %s: unexpected error: %v", index, s.Kind, err)
	case s.ExpectNoop && res.Changed:
		return fmt.Sprintf("steps[%d] %s: expected no-op, state changed", index, s.Kind)
	case strict && !s.ExpectNoop && !res.Changed:
		return fmt.Sprintf("steps[%d] %s: unexpected no-op", index, s.Kind)
	}
	return ""
}

// errorCode maps an Apply error to the code scenarios match on.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	if code := editor.IntentErrorCodeOf(err); code != "" {
		return string(code)
	}
	var pe *codec.ParseError
	if errors.As(err, &pe) {
		return ExpectParseError
	}
	return "ERROR"
}

func describe(code string) string {
	if code == "" {
		return "no error"
	}
	return code
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
