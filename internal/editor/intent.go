package editor

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/nodeweave/internal/graph"
)

// IntentKind names one user intent.
type IntentKind string

const (
	KindAddNode          IntentKind = "add_node"
	KindMoveNode         IntentKind = "move_node"
	KindSetLabel         IntentKind = "set_label"
	KindSetDescription   IntentKind = "set_description"
	KindSetColor         IntentKind = "set_color"
	KindDeleteNode       IntentKind = "delete_node"
	KindAddInput         IntentKind = "add_input"
	KindAddOutput        IntentKind = "add_output"
	KindRemoveInput      IntentKind = "remove_input"
	KindRemoveOutput     IntentKind = "remove_output"
	KindRenameInput      IntentKind = "rename_input"
	KindRenameOutput     IntentKind = "rename_output"
	KindConnect          IntentKind = "connect"
	KindDisconnect       IntentKind = "disconnect"
	KindSetLineStyle     IntentKind = "set_line_style"
	KindToggleSnapToGrid IntentKind = "toggle_snap_to_grid"
	KindUndo             IntentKind = "undo"
	KindRedo             IntentKind = "redo"
	KindLoad             IntentKind = "load"
)

// IntentKinds lists every kind Apply understands.
var IntentKinds = []IntentKind{
	KindAddNode, KindMoveNode, KindSetLabel, KindSetDescription, KindSetColor,
	KindDeleteNode, KindAddInput, KindAddOutput, KindRemoveInput, KindRemoveOutput,
	KindRenameInput, KindRenameOutput, KindConnect, KindDisconnect,
	KindSetLineStyle, KindToggleSnapToGrid, KindUndo, KindRedo, KindLoad,
}

// Intent is one discrete editor event, as written in scenarios and stored
// in the journal. Fields a kind does not use are ignored.
//
// NodeID on add_node and EdgeID on connect are optional: when empty the
// editor draws a fresh id, and the journaled copy carries the id it drew.
type Intent struct {
	Kind IntentKind `json:"kind" yaml:"kind" validate:"required"`

	NodeID string `json:"node_id,omitempty" yaml:"node_id,omitempty"`
	EdgeID string `json:"edge_id,omitempty" yaml:"edge_id,omitempty"`

	// Index selects a port by position for remove and rename intents.
	Index int    `json:"index,omitempty" yaml:"index,omitempty" validate:"gte=0"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`

	X           float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y           float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Label       string  `json:"label,omitempty" yaml:"label,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string  `json:"color,omitempty" yaml:"color,omitempty"`

	Source       string `json:"source,omitempty" yaml:"source,omitempty"`
	SourceHandle string `json:"source_handle,omitempty" yaml:"source_handle,omitempty"`
	Target       string `json:"target,omitempty" yaml:"target,omitempty"`
	TargetHandle string `json:"target_handle,omitempty" yaml:"target_handle,omitempty"`
	LineStyle    string `json:"line_style,omitempty" yaml:"line_style,omitempty"`

	// Document is the raw text for load.
	Document string `json:"document,omitempty" yaml:"document,omitempty"`
}

// Known reports whether k is a kind Apply understands.
func (k IntentKind) Known() bool {
	for _, known := range IntentKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Position returns the intent's coordinates.
func (in Intent) Position() graph.Position {
	return graph.Position{X: in.X, Y: in.Y}
}

// Connection returns the intent's endpoints.
func (in Intent) Connection() graph.Connection {
	return graph.Connection{
		Source:       in.Source,
		SourceHandle: in.SourceHandle,
		Target:       in.Target,
		TargetHandle: in.TargetHandle,
	}
}

// normalizeText returns in with its typed text (label, description and
// port name) in Unicode NFC, the form the editor stores and journals.
func (in Intent) normalizeText() Intent {
	in.Label = norm.NFC.String(in.Label)
	in.Description = norm.NFC.String(in.Description)
	in.Name = norm.NFC.String(in.Name)
	return in
}

// MarshalIntent encodes in as canonical JSON for the journal.
func MarshalIntent(in Intent) ([]byte, error) {
	data, err := graph.MarshalCanonical(in)
	if err != nil {
		return nil, fmt.Errorf("marshal intent %s: %w", in.Kind, err)
	}
	return data, nil
}

// UnmarshalIntent decodes a journaled intent.
func UnmarshalIntent(data []byte) (Intent, error) {
	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return Intent{}, fmt.Errorf("unmarshal intent: %w", err)
	}
	if !in.Kind.Known() {
		return Intent{}, &IntentError{
			Code:    ErrCodeUnknownIntent,
			Kind:    in.Kind,
			Message: "unknown intent kind",
		}
	}
	return in, nil
}
