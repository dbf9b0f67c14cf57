// Package harness runs YAML conformance scenarios against the editor.
//
// # Scenario Format
//
//	name: wire_and_undo
//	description: "Connect two nodes, undo, redo"
//	steps:
//	  - kind: add_node
//	    label: Source
//	  - kind: add_output
//	    node_id: node-1
//	  - kind: connect
//	    source: node-1
//	    source_handle: output-0
//	    target: node-2
//	    target_handle: input-0
//	  - kind: set_color
//	    node_id: node-1
//	    color: "nope"
//	    expect_error: INVALID_INTENT
//	assertions:
//	  - type: edge_count
//	    count: 1
//	  - type: replay_matches
//
// Steps are editor intents (see editor.Intent for the fields) plus two
// optional expectations: expect_error names the error code the step must
// fail with, and expect_noop requires the step to change nothing.
//
// # Assertion Types
//
//   - node_count, edge_count: exact count (count)
//   - can_undo, can_redo, snap_to_grid: boolean state (value)
//   - line_style: selected line style (style)
//   - no_dangling_edges: every edge joins an existing output to an existing input
//   - node_field: a node's label, description or color (node_id, field, equals)
//   - port_names: a node's input or output names in order (node_id, port_kind, names)
//   - edge_style: an edge's line style (edge_id, style)
//   - journal_kinds: the journaled intent kinds in order (kinds)
//   - replay_matches: replaying the journal reproduces the final state
//   - notice: a user notice was raised (equals)
//
// # Deterministic Testing
//
// Every run gets a fresh in-memory SQLite journal, a silent logger and
// sequence id sources, so node ids are node-1, node-2, ... and edge ids
// edge-1, edge-2, .... The same scenario always yields the same trace and
// document, which is what golden comparison relies on.
package harness
