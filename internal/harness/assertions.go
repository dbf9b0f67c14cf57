package harness

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/nodeweave/internal/editor"
	"github.com/roach88/nodeweave/internal/graph"
	"github.com/roach88/nodeweave/internal/store"
)

// AssertionContext gives assertions access to the live run.
type AssertionContext struct {
	Ctx     context.Context
	Editor  *editor.Editor
	Store   *store.Store
	Session string

	// Options builds the editor used for replay_matches.
	Options editor.Options
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

func mismatch(typ string, expected, actual any) error {
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", actual),
	}
}

// EvaluateAssertions checks every assertion and returns the failure
// messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	view := actx.Editor.View()

	switch a.Type {
	case AssertNodeCount:
		if len(view.Nodes) != *a.Count {
			return mismatch(a.Type, *a.Count, len(view.Nodes))
		}
	case AssertEdgeCount:
		if len(view.Edges) != *a.Count {
			return mismatch(a.Type, *a.Count, len(view.Edges))
		}
	case AssertCanUndo:
		return assertBool(a, view.CanUndo)
	case AssertCanRedo:
		return assertBool(a, view.CanRedo)
	case AssertSnapToGrid:
		return assertBool(a, view.SnapToGrid)
	case AssertLineStyle:
		if string(view.LineStyle) != a.Style {
			return mismatch(a.Type, a.Style, view.LineStyle)
		}
	case AssertNoDanglingEdges:
		if problems := view.Document().Check(); len(problems) > 0 {
			return mismatch(a.Type, "no problems", problems)
		}
	case AssertNodeField:
		return assertNodeField(view, a)
	case AssertPortNames:
		return assertPortNames(view, a)
	case AssertEdgeStyle:
		e, ok := view.Edges.Find(a.EdgeID)
		if !ok {
			return mismatch(a.Type, "edge "+a.EdgeID, "not found")
		}
		if string(e.LineStyle) != a.Style {
			return mismatch(a.Type, a.Style, e.LineStyle)
		}
	case AssertJournalKinds:
		return assertJournalKinds(actx, a)
	case AssertReplayMatches:
		return assertReplayMatches(actx, view)
	case AssertNotice:
		for _, n := range result.Notices {
			if n == a.Equals {
				return nil
			}
		}
		return mismatch(a.Type, a.Equals, result.Notices)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func assertBool(a Assertion, actual bool) error {
	if actual != *a.Value {
		return mismatch(a.Type, *a.Value, actual)
	}
	return nil
}

func assertNodeField(view editor.View, a Assertion) error {
	n, ok := view.Nodes.Find(a.NodeID)
	if !ok {
		return mismatch(a.Type, "node "+a.NodeID, "not found")
	}
	var actual string
	switch a.Field {
	case "label":
		actual = n.Label
	case "description":
		actual = n.Description
	case "color":
		actual = n.Color
	}
	if actual != a.Equals {
		return mismatch(a.Type, fmt.Sprintf("%s.%s = %q", a.NodeID, a.Field, a.Equals), fmt.Sprintf("%q", actual))
	}
	return nil
}

func assertPortNames(view editor.View, a Assertion) error {
	n, ok := view.Nodes.Find(a.NodeID)
	if !ok {
		return mismatch(a.Type, "node "+a.NodeID, "not found")
	}
	ports := n.Ports(graph.PortKind(a.PortKind))
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, p.Name)
	}
	want := a.Names
	if want == nil {
		want = []string{}
	}
	if !reflect.DeepEqual(names, want) {
		return mismatch(a.Type, want, names)
	}
	return nil
}

func assertJournalKinds(actx *AssertionContext, a Assertion) error {
	records, err := actx.Store.ReadIntents(actx.Ctx, actx.Session)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	kinds := make([]string, 0, len(records))
	for _, rec := range records {
		kinds = append(kinds, rec.Kind)
	}
	if !reflect.DeepEqual(kinds, a.Kinds) {
		return mismatch(a.Type, a.Kinds, kinds)
	}
	return nil
}

func assertReplayMatches(actx *AssertionContext, live editor.View) error {
	replayed, err := editor.Replay(actx.Ctx, actx.Store, actx.Session, actx.Options)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	got := replayed.View()
	if !reflect.DeepEqual(got, live) {
		return mismatch(AssertReplayMatches, "replayed view equal to live view",
			fmt.Sprintf("%d nodes, %d edges, undo=%t, redo=%t", len(got.Nodes), len(got.Edges), got.CanUndo, got.CanRedo))
	}
	return nil
}
