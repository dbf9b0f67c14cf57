package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nodeweave/internal/codec"
	"github.com/roach88/nodeweave/internal/graph"
)

// ValidateResult is the JSON payload of a successful validate.
type ValidateResult struct {
	File   string `json:"file"`
	Valid  bool   `json:"valid"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
	Digest string `json:"digest"`

	// Warnings are problems the editor itself can produce, such as a
	// duplicated port id. They do not make the document invalid.
	Warnings []graph.Problem `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a saved document",
		Long: `Validate a saved document against the document schema and check its
integrity: unique node and edge ids and no dangling edges. Duplicate
port ids are reported as warnings because ordinary editing can produce
them.

Exit codes:
  0 - document is valid
  1 - document is malformed, off-schema or inconsistent
  2 - file could not be read`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions, path string) error {
	out := newFormatter(rootOpts, cmd)

	text, err := os.ReadFile(path)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeRead, "failed to read document", err, nil)
	}

	if err := codec.CheckSchema(text); err != nil {
		var schemaErr *codec.SchemaError
		if errors.As(err, &schemaErr) {
			if rootOpts.Format != "json" {
				for _, d := range schemaErr.Details {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", d)
				}
			}
			return out.Fail(ExitFailure, ErrCodeSchema, "document does not match schema", nil, schemaErr.Details)
		}
		return out.Fail(ExitFailure, ErrCodeParse, "document is not valid JSON", err, nil)
	}

	doc, err := codec.Decode(text)
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeParse, "document is not valid JSON", err, nil)
	}
	out.VerboseLog("decoded %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))

	var problems, warnings []graph.Problem
	for _, p := range doc.Check() {
		if p.Warning() {
			warnings = append(warnings, p)
		} else {
			problems = append(problems, p)
		}
	}

	if len(problems) > 0 {
		if rootOpts.Format != "json" {
			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
		}
		return out.Fail(ExitFailure, ErrCodeIntegrity,
			fmt.Sprintf("document has %d integrity problem(s)", len(problems)), nil, problems)
	}

	digest, err := codec.Digest(doc)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeParse, "failed to digest document", err, nil)
	}

	result := ValidateResult{
		File:     path,
		Valid:    true,
		Nodes:    len(doc.Nodes),
		Edges:    len(doc.Edges),
		Digest:   digest,
		Warnings: warnings,
	}
	if rootOpts.Format == "json" {
		return out.Success(result)
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "  warning: %s\n", w)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: valid (%d nodes, %d edges)\n", path, result.Nodes, result.Edges)
	return nil
}
