package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nodeweave/internal/codec"
)

// FmtOptions holds flags for the fmt command.
type FmtOptions struct {
	*RootOptions
	Write bool
	Check bool
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite a document in its stable indented form",
		Long: `Decode a document and print it in the stable indented form the editor
saves. Keys are sorted and defaults filled in, so formatting is
idempotent.

With --write the file is rewritten in place. With --check nothing is
written and the command exits 1 if the file is not already formatted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "rewrite the file in place")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "exit 1 if the file is not formatted")

	return cmd
}

func runFmt(cmd *cobra.Command, opts *FmtOptions, path string) error {
	out := newFormatter(opts.RootOptions, cmd)

	text, err := os.ReadFile(path)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeRead, "failed to read document", err, nil)
	}
	doc, err := codec.Decode(text)
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeParse, "document is not valid JSON", err, nil)
	}
	formatted, err := codec.EncodeIndent(doc)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeParse, "failed to encode document", err, nil)
	}
	formatted = append(formatted, '\n')

	changed := !bytes.Equal(text, formatted)

	switch {
	case opts.Check:
		if changed {
			return out.Fail(ExitFailure, ErrCodeParse, fmt.Sprintf("%s is not formatted", path), nil, nil)
		}
		if opts.Format == "json" {
			return out.Success(map[string]any{"file": path, "formatted": true})
		}
		return nil
	case opts.Write:
		if !changed {
			out.VerboseLog("%s already formatted", path)
		} else if err := os.WriteFile(path, formatted, 0o644); err != nil {
			return out.Fail(ExitCommandError, ErrCodeRead, "failed to write document", err, nil)
		}
		if opts.Format == "json" {
			return out.Success(map[string]any{"file": path, "changed": changed})
		}
		return nil
	}

	_, err = cmd.OutOrStdout().Write(formatted)
	return err
}
