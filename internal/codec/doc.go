// Package codec converts graph documents to and from their portable JSON
// form.
//
// The wire shape is the one the rendering collaborator consumes:
//
//	{
//	  "nodes": [{"id", "type": "custom", "position": {"x", "y"},
//	             "data": {"label", "description", "color", "inputs", "outputs"}}],
//	  "edges": [{"id", "source", "sourceHandle", "target", "targetHandle",
//	             "type", "selectable"}]
//	}
//
// Encode always writes canonical JSON (sorted keys, no HTML escaping) so a
// document saved twice is byte-identical. Decode is lenient: missing keys
// default to empty values and unknown keys are ignored. Only text that is
// not a JSON object of the right shape fails, with *ParseError.
//
// CheckSchema is the strict counterpart used by tooling. It validates raw
// text against the embedded CUE schema without building a document.
package codec
