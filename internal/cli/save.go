package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nodeweave/internal/codec"
	"github.com/roach88/nodeweave/internal/store"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	Database string
	Name     string
}

// SaveResult is the JSON payload of a successful save.
type SaveResult struct {
	Name   string `json:"name"`
	Digest string `json:"digest"`
	Seq    int64  `json:"seq"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Store a document in a SQLite database",
		Long: `Decode a document file and store it under a name. Saving identical
content under the same name again only marks it as the latest version.

Examples:
  nodeweave save --db ./nodeweave.db --name pipeline pipeline.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Name, "name", "", "document name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runSave(ctx context.Context, opts *SaveOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)

	text, err := os.ReadFile(path)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeRead, "failed to read document", err, nil)
	}
	doc, err := codec.Decode(text)
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeParse, "document is not valid JSON", err, nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err, nil)
	}
	defer st.Close()

	rec, err := st.SaveDocument(ctx, opts.Name, doc)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to save document", err, nil)
	}
	newLogger(opts.RootOptions, cmd.ErrOrStderr()).Debug("document saved",
		"name", rec.Name, "digest", rec.Digest, "seq", rec.Seq)

	result := SaveResult{
		Name:   rec.Name,
		Digest: rec.Digest,
		Seq:    rec.Seq,
		Nodes:  rec.NodeCount,
		Edges:  rec.EdgeCount,
	}
	if opts.Format == "json" {
		return out.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ saved %s (%d nodes, %d edges) digest %s\n",
		result.Name, result.Nodes, result.Edges, shortDigest(result.Digest))
	return nil
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
