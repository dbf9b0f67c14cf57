package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/nodeweave/internal/editor"
	"github.com/roach88/nodeweave/internal/harness"
	"github.com/roach88/nodeweave/internal/store"
	"github.com/roach88/nodeweave/internal/testutil"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Database string
	Session  string
	SaveAs   string
}

// RecordResult is the JSON payload of a successful record.
type RecordResult struct {
	Session  string   `json:"session"`
	Applied  int      `json:"applied"`
	Skipped  int      `json:"skipped"`
	Nodes    int      `json:"nodes"`
	Edges    int      `json:"edges"`
	SavedAs  string   `json:"saved_as,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <scenario>",
		Short: "Drive a scenario's steps into a journal session",
		Long: `Apply the steps of a scenario file to a fresh editor whose journal is
stored in the database. Node and edge ids are drawn as node-1, edge-1, ...
exactly as "test" does, so steps can refer to them.

Steps declared with expect_error or expect_noop are skipped and leave no
journal entry. Any other step must change state; if one fails or does
nothing the command exits 1 after listing the failures. Assertions are
not evaluated; use "test" for that.

The session defaults to the scenario name and must not exist yet.

Examples:
  nodeweave record --db ./nodeweave.db scenarios/connect_pair.yaml
  nodeweave record --db ./nodeweave.db --session demo --save demo scenario.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "journal session (default: scenario name)")
	cmd.Flags().StringVar(&opts.SaveAs, "save", "", "also store the final document under this name")

	return cmd
}

func runRecord(ctx context.Context, opts *RecordOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeRead, "failed to load scenario", err, nil)
	}
	session := opts.Session
	if session == "" {
		session = scenario.Name
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err, nil)
	}
	defer st.Close()

	_, err = st.ReadIntents(ctx, session)
	switch {
	case err == nil:
		return out.Fail(ExitFailure, ErrCodeStore, fmt.Sprintf("session %q already recorded", session), nil, nil)
	case !errors.Is(err, store.ErrNotFound):
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to read session", err, nil)
	}

	ed := editor.New(editor.Options{
		Logger:  logger,
		NodeIDs: testutil.NewSequenceSource("node"),
		EdgeIDs: testutil.NewSequenceSource("edge"),
		Journal: editor.StoreJournal{Store: st, Session: session},
	})

	result := RecordResult{Session: session}
	for i, step := range scenario.Steps {
		res, err := ed.Apply(ctx, step.Intent)
		if msg := step.Outcome(i, res, err, true); msg != "" {
			result.Failures = append(result.Failures, msg)
			continue
		}
		if !res.Changed {
			result.Skipped++
			logger.Debug("step skipped", "index", i, "kind", step.Kind, "error", err)
			continue
		}
		result.Applied++
	}

	doc := ed.Document()
	result.Nodes = len(doc.Nodes)
	result.Edges = len(doc.Edges)

	if len(result.Failures) > 0 {
		if opts.Format != "json" {
			for _, f := range result.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f)
			}
		}
		return out.Fail(ExitFailure, ErrCodeRecord,
			fmt.Sprintf("%d step(s) did not behave as declared", len(result.Failures)), nil, result.Failures)
	}

	if opts.SaveAs != "" {
		if _, err := st.SaveDocument(ctx, opts.SaveAs, doc); err != nil {
			return out.Fail(ExitCommandError, ErrCodeStore, "failed to save document", err, nil)
		}
		result.SavedAs = opts.SaveAs
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ recorded %s: %d applied, %d skipped (%d nodes, %d edges)\n",
		result.Session, result.Applied, result.Skipped, result.Nodes, result.Edges)
	return nil
}
