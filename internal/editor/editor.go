package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/nodeweave/internal/codec"
	"github.com/roach88/nodeweave/internal/graph"
	"github.com/roach88/nodeweave/internal/history"
)

// Journal records every intent that changed editor state.
// Intents arrive with their ids resolved, in application order.
type Journal interface {
	Append(ctx context.Context, in Intent) error
}

// Options configures an Editor. Zero values select defaults.
type Options struct {
	// Logger receives debug output for no-op intents and journal failures.
	// Default: discard.
	Logger *slog.Logger

	// NodeIDs and EdgeIDs draw fresh ids. Default: graph.UUIDv7Source.
	NodeIDs graph.IDSource
	EdgeIDs graph.IDSource

	// Journal, if set, receives every applied intent.
	Journal Journal

	// Notifier receives user-visible notices. Default: log at warn level.
	Notifier Notifier

	// OnChange is called with a fresh View after every applied intent.
	// It runs after the editor lock is released and may call back in.
	// With concurrent callers two views can arrive out of order; a
	// renderer should ignore a view whose Revision is lower than the last
	// one it drew.
	OnChange func(View)

	// HistoryLimit caps the undo depth of each timeline. 0 means unlimited.
	HistoryLimit int
}

// Result describes what an applied intent did.
type Result struct {
	// Changed is false for no-ops (missing target, empty undo stack).
	Changed bool

	// NodeID is the node created or targeted.
	NodeID string

	// EdgeID is the edge created or targeted.
	EdgeID string

	// Port is the port created by add_input or add_output.
	Port graph.Port
}

// Editor owns the node and edge timelines and applies intents to them.
//
// Thread-safety: all methods are safe for concurrent use; intents are
// applied one at a time in call order.
type Editor struct {
	mu sync.Mutex

	nodes *history.Timeline[graph.Nodes]
	edges *history.Timeline[graph.Edges]

	snapToGrid bool
	lineStyle  graph.LineStyle
	revision   uint64

	nodeIDs  graph.IDSource
	edgeIDs  graph.IDSource
	journal  Journal
	notifier Notifier
	onChange func(View)
	logger   *slog.Logger
}

// New creates an empty editor.
func New(opts Options) *Editor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	nodeIDs := opts.NodeIDs
	if nodeIDs == nil {
		nodeIDs = graph.UUIDv7Source{}
	}
	edgeIDs := opts.EdgeIDs
	if edgeIDs == nil {
		edgeIDs = graph.UUIDv7Source{}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = logNotifier{logger: logger}
	}

	var histOpts []history.Option
	if opts.HistoryLimit > 0 {
		histOpts = append(histOpts, history.WithLimit(opts.HistoryLimit))
	}

	return &Editor{
		nodes:     history.New(graph.Nodes{}, histOpts...),
		edges:     history.New(graph.Edges{}, histOpts...),
		lineStyle: graph.DefaultLineStyle,
		nodeIDs:   nodeIDs,
		edgeIDs:   edgeIDs,
		journal:   opts.Journal,
		notifier:  notifier,
		onChange:  opts.OnChange,
		logger:    logger,
	}
}

// View returns the current state.
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Document returns the present nodes and edges.
func (e *Editor) Document() graph.Document {
	return e.View().Document()
}

// CanUndo reports whether either timeline has a past.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nodes.CanUndo() || e.edges.CanUndo()
}

// CanRedo reports whether either timeline has a future.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nodes.CanRedo() || e.edges.CanRedo()
}

func (e *Editor) viewLocked() View {
	return View{
		Nodes:      e.nodes.Present(),
		Edges:      e.edges.Present(),
		CanUndo:    e.nodes.CanUndo() || e.edges.CanUndo(),
		CanRedo:    e.nodes.CanRedo() || e.edges.CanRedo(),
		SnapToGrid: e.snapToGrid,
		LineStyle:  e.lineStyle,
		Revision:   e.revision,
	}
}

// Apply applies one intent.
//
// Returns *IntentError for an unknown kind or unusable fields, and
// *codec.ParseError for a load whose document cannot be decoded. A valid
// intent aimed at a missing target returns a zero Result and nil.
func (e *Editor) Apply(ctx context.Context, in Intent) (Result, error) {
	e.mu.Lock()
	res, resolved, err := e.applyLocked(in)
	if err != nil {
		e.mu.Unlock()
		var pe *codec.ParseError
		if errors.As(err, &pe) {
			e.notifier.Notify(Notice{Level: NoticeError, Message: NoticeInvalidJSON, Err: err})
		}
		return Result{}, err
	}
	if !res.Changed {
		e.mu.Unlock()
		return res, nil
	}
	e.revision++
	if e.journal != nil {
		// Journal inside the lock so entries keep application order.
		if jerr := e.journal.Append(ctx, resolved); jerr != nil {
			e.logger.Error("journal append failed", "kind", resolved.Kind, "error", jerr)
		}
	}
	view := e.viewLocked()
	e.mu.Unlock()

	if e.onChange != nil {
		e.onChange(view)
	}
	return res, nil
}

// applyLocked dispatches in and returns the intent as it should be journaled.
func (e *Editor) applyLocked(in Intent) (Result, Intent, error) {
	in = in.normalizeText()
	switch in.Kind {
	case KindAddNode:
		return e.addNode(in)
	case KindMoveNode:
		pos := in.Position()
		return e.updateNode(in, graph.NodePatch{Position: &pos})
	case KindSetLabel:
		label := in.Label
		return e.updateNode(in, graph.NodePatch{Label: &label})
	case KindSetDescription:
		desc := in.Description
		return e.updateNode(in, graph.NodePatch{Description: &desc})
	case KindSetColor:
		color, err := graph.NormalizeColor(in.Color)
		if err != nil {
			return Result{}, in, invalidIntent(in.Kind, "%v", err)
		}
		in.Color = color
		return e.updateNode(in, graph.NodePatch{Color: &color})
	case KindDeleteNode:
		return e.deleteNode(in)
	case KindAddInput, KindAddOutput:
		return e.addPort(in)
	case KindRemoveInput, KindRemoveOutput:
		return e.removePort(in)
	case KindRenameInput, KindRenameOutput:
		return e.renamePort(in)
	case KindConnect:
		return e.connect(in)
	case KindDisconnect:
		return e.disconnect(in)
	case KindSetLineStyle:
		return e.setLineStyle(in)
	case KindToggleSnapToGrid:
		e.snapToGrid = !e.snapToGrid
		return Result{Changed: true}, in, nil
	case KindUndo:
		moved := e.nodes.Undo()
		moved = e.edges.Undo() || moved
		return Result{Changed: moved}, in, nil
	case KindRedo:
		moved := e.nodes.Redo()
		moved = e.edges.Redo() || moved
		return Result{Changed: moved}, in, nil
	case KindLoad:
		return e.load(in)
	default:
		return Result{}, in, &IntentError{
			Code:    ErrCodeUnknownIntent,
			Kind:    in.Kind,
			Message: "unknown intent kind",
		}
	}
}

func (e *Editor) requireNodeID(in Intent) error {
	if in.NodeID == "" {
		return invalidIntent(in.Kind, "node_id is required")
	}
	return nil
}

func (e *Editor) notFound(in Intent, what string) (Result, Intent, error) {
	e.logger.Debug("intent target not found", "kind", in.Kind, "missing", what,
		"node_id", in.NodeID, "edge_id", in.EdgeID, "index", in.Index)
	return Result{}, in, nil
}

func (e *Editor) addNode(in Intent) (Result, Intent, error) {
	color := in.Color
	if color != "" {
		c, err := graph.NormalizeColor(color)
		if err != nil {
			return Result{}, in, invalidIntent(in.Kind, "%v", err)
		}
		color = c
	}
	present := e.nodes.Present()
	if in.NodeID == "" {
		in.NodeID = e.nodeIDs.NewID()
	} else if _, exists := present.Find(in.NodeID); exists {
		return Result{}, in, invalidIntent(in.Kind, "node %q already exists", in.NodeID)
	}
	in.Color = color

	e.nodes.Set(present.AddNode(in.NodeID, graph.NodeInit{
		Position:    in.Position(),
		Label:       in.Label,
		Description: in.Description,
		Color:       color,
	}))
	return Result{Changed: true, NodeID: in.NodeID}, in, nil
}

func (e *Editor) updateNode(in Intent, patch graph.NodePatch) (Result, Intent, error) {
	if err := e.requireNodeID(in); err != nil {
		return Result{}, in, err
	}
	next, ok := e.nodes.Present().UpdateNode(in.NodeID, patch)
	if !ok {
		return e.notFound(in, "node")
	}
	e.nodes.Set(next)
	return Result{Changed: true, NodeID: in.NodeID}, in, nil
}

func (e *Editor) deleteNode(in Intent) (Result, Intent, error) {
	if err := e.requireNodeID(in); err != nil {
		return Result{}, in, err
	}
	next, _, ok := e.nodes.Present().DeleteNode(in.NodeID)
	if !ok {
		return e.notFound(in, "node")
	}
	e.nodes.Set(next)
	e.edges.Set(e.edges.Present().CascadeRemoveNode(in.NodeID))
	return Result{Changed: true, NodeID: in.NodeID}, in, nil
}

func (e *Editor) addPort(in Intent) (Result, Intent, error) {
	if err := e.requireNodeID(in); err != nil {
		return Result{}, in, err
	}
	present := e.nodes.Present()
	var (
		next graph.Nodes
		port graph.Port
		ok   bool
	)
	if in.Kind == KindAddInput {
		next, port, ok = present.AddInput(in.NodeID)
	} else {
		next, port, ok = present.AddOutput(in.NodeID)
	}
	if !ok {
		return e.notFound(in, "node")
	}
	e.nodes.Set(next)
	return Result{Changed: true, NodeID: in.NodeID, Port: port}, in, nil
}

func (e *Editor) removePort(in Intent) (Result, Intent, error) {
	if err := e.requireNodeID(in); err != nil {
		return Result{}, in, err
	}
	if in.Index < 0 {
		return Result{}, in, invalidIntent(in.Kind, "index must not be negative")
	}
	present := e.nodes.Present()
	var (
		next    graph.Nodes
		removed []string
		ok      bool
	)
	if in.Kind == KindRemoveInput {
		next, removed, ok = present.RemoveInput(in.NodeID, in.Index)
	} else {
		next, removed, ok = present.RemoveOutput(in.NodeID, in.Index)
	}
	if !ok {
		return e.notFound(in, "port")
	}
	e.nodes.Set(next)
	e.edges.Set(e.edges.Present().CascadeRemovePorts(in.NodeID, removed))
	return Result{Changed: true, NodeID: in.NodeID}, in, nil
}

func (e *Editor) renamePort(in Intent) (Result, Intent, error) {
	if err := e.requireNodeID(in); err != nil {
		return Result{}, in, err
	}
	if in.Index < 0 {
		return Result{}, in, invalidIntent(in.Kind, "index must not be negative")
	}
	present := e.nodes.Present()
	var (
		next graph.Nodes
		ok   bool
	)
	if in.Kind == KindRenameInput {
		next, ok = present.RenameInput(in.NodeID, in.Index, in.Name)
	} else {
		next, ok = present.RenameOutput(in.NodeID, in.Index, in.Name)
	}
	if !ok {
		return e.notFound(in, "port")
	}
	e.nodes.Set(next)
	return Result{Changed: true, NodeID: in.NodeID}, in, nil
}

func (e *Editor) connect(in Intent) (Result, Intent, error) {
	c := in.Connection()
	if c.Source == "" || c.SourceHandle == "" || c.Target == "" || c.TargetHandle == "" {
		return Result{}, in, invalidIntent(in.Kind, "source, source_handle, target and target_handle are required")
	}
	style := e.lineStyle
	if in.LineStyle != "" {
		ls, err := graph.ParseLineStyle(in.LineStyle)
		if err != nil {
			return Result{}, in, invalidIntent(in.Kind, "%v", err)
		}
		style = ls
	}

	nodes := e.nodes.Present()
	src, ok := nodes.Find(c.Source)
	if !ok || !graph.HasPort(src.Outputs, c.SourceHandle) {
		return e.notFound(in, "source")
	}
	dst, ok := nodes.Find(c.Target)
	if !ok || !graph.HasPort(dst.Inputs, c.TargetHandle) {
		return e.notFound(in, "target")
	}

	edges := e.edges.Present()
	if in.EdgeID == "" {
		in.EdgeID = e.edgeIDs.NewID()
	} else if _, exists := edges.Find(in.EdgeID); exists {
		return Result{}, in, invalidIntent(in.Kind, "edge %q already exists", in.EdgeID)
	}
	in.LineStyle = string(style)

	e.edges.Set(edges.Connect(in.EdgeID, c, style))
	return Result{Changed: true, EdgeID: in.EdgeID}, in, nil
}

func (e *Editor) disconnect(in Intent) (Result, Intent, error) {
	if in.EdgeID == "" {
		return Result{}, in, invalidIntent(in.Kind, "edge_id is required")
	}
	next, ok := e.edges.Present().Disconnect(in.EdgeID)
	if !ok {
		return e.notFound(in, "edge")
	}
	e.edges.Set(next)
	return Result{Changed: true, EdgeID: in.EdgeID}, in, nil
}

func (e *Editor) setLineStyle(in Intent) (Result, Intent, error) {
	style, err := graph.ParseLineStyle(in.LineStyle)
	if err != nil {
		return Result{}, in, invalidIntent(in.Kind, "%v", err)
	}
	e.lineStyle = style
	e.edges.Set(e.edges.Present().RestyleAll(style))
	return Result{Changed: true}, in, nil
}

func (e *Editor) load(in Intent) (Result, Intent, error) {
	doc, err := codec.Decode([]byte(in.Document))
	if err != nil {
		return Result{}, in, err
	}
	e.nodes.Reset(doc.Nodes)
	e.edges.Reset(doc.Edges)
	return Result{Changed: true}, in, nil
}

// Save encodes the present document for download.
func (e *Editor) Save() ([]byte, error) {
	data, err := codec.EncodeIndent(e.Document())
	if err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	return data, nil
}

// Load replaces both timelines with the decoded document.
// On a parse failure the user is notified and state is left untouched.
func (e *Editor) Load(text []byte) error {
	_, err := e.Apply(context.Background(), Intent{Kind: KindLoad, Document: string(text)})
	return err
}

// LoadFrom reads a whole document from r and loads it.
// A read failure leaves state untouched.
func (e *Editor) LoadFrom(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		e.logger.Warn("document read failed", "error", err)
		return fmt.Errorf("read document: %w", err)
	}
	return e.Load(data)
}
