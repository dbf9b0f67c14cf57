// Package graph provides the authoritative in-memory model of a node graph:
// ports, nodes, edges and the pure operations that mutate them.
//
// Every operation is copy-on-write. A Nodes or Edges value handed out by
// this package is never modified in place, so a snapshot can be shared with
// a renderer or pushed onto a history timeline without cloning.
//
// Key rules:
//   - Port ids are derived from the current port count ("input-0", "output-2")
//     and are never repacked when an earlier port is removed
//   - Node and edge ids come from an IDSource (UUIDv7 by default)
//   - Edges run from an output port (source) to an input port (target)
//   - Operations targeting a missing node, port or edge are no-ops and
//     report false instead of failing
//
// Canonical JSON (RFC 8785 style) and content digests live here too, so
// every package that needs byte-stable output shares one encoder.
package graph
