package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/roach88/nodeweave/internal/codec"
	"github.com/roach88/nodeweave/internal/editor"
	"github.com/roach88/nodeweave/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
	Out      string // write the replayed document (single session only)
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	Session       string `json:"session"`
	Intents       int    `json:"intents"`
	Nodes         int    `json:"nodes"`
	Edges         int    `json:"edges"`
	CanUndo       bool   `json:"can_undo"`
	CanRedo       bool   `json:"can_redo"`
	Digest        string `json:"digest"`
	Deterministic bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded editor sessions and verify determinism",
		Long: `Rebuild editor state from the intent journal.

Each session is replayed twice into fresh editors; both runs must end in
the same view, undo and redo availability included.

Exit codes:
  0 - All sessions replayed deterministically
  1 - A session could not be replayed or runs differed
  2 - Command error (database not found, etc.)

Examples:
  nodeweave replay --db ./nodeweave.db
  nodeweave replay --db ./nodeweave.db --session demo
  nodeweave replay --db ./nodeweave.db --session demo --out demo.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay specific session only")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the replayed document to a file (requires --session)")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)

	if opts.Out != "" && opts.Session == "" {
		return out.Fail(ExitCommandError, ErrCodeReplay, "--out requires --session", nil, nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err, nil)
	}
	defer st.Close()

	var sessions []string
	if opts.Session != "" {
		sessions = []string{opts.Session}
	} else {
		sessions, err = st.Sessions(ctx)
		if err != nil {
			return out.Fail(ExitCommandError, ErrCodeStore, "failed to list sessions", err, nil)
		}
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(sessions)),
		TotalSessions:    len(sessions),
		AllDeterministic: true,
	}

	if len(sessions) == 0 {
		if opts.Format == "json" {
			return out.Success(result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in database.")
		return nil
	}

	editorOpts := editor.Options{Logger: newLogger(opts.RootOptions, cmd.ErrOrStderr())}
	for _, session := range sessions {
		sr, ed, err := replayAndVerifySession(ctx, st, session, editorOpts)
		if errors.Is(err, store.ErrNotFound) {
			return out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no session named %q", session), nil, nil)
		}
		if err != nil {
			return out.Fail(ExitFailure, ErrCodeReplay, fmt.Sprintf("failed to replay session %s", session), err, nil)
		}
		out.VerboseLog("replayed %s: %d intents", session, sr.Intents)

		result.Sessions = append(result.Sessions, sr)
		if !sr.Deterministic {
			result.AllDeterministic = false
		}

		if opts.Out != "" {
			text, err := ed.Save()
			if err != nil {
				return out.Fail(ExitCommandError, ErrCodeReplay, "failed to encode document", err, nil)
			}
			if err := os.WriteFile(opts.Out, append(text, '\n'), 0o644); err != nil {
				return out.Fail(ExitCommandError, ErrCodeRead, "failed to write document", err, nil)
			}
		}
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.AllDeterministic {
			resp.Status = "error"
		}
		if err := out.encode(resp); err != nil {
			return err
		}
	} else {
		printReplayText(cmd, result)
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay is not deterministic")
	}
	return nil
}

// replayAndVerifySession replays session twice and compares the results.
// The first editor is returned for further use.
func replayAndVerifySession(ctx context.Context, st *store.Store, session string, opts editor.Options) (ReplaySessionResult, *editor.Editor, error) {
	records, err := st.ReadIntents(ctx, session)
	if err != nil {
		return ReplaySessionResult{}, nil, err
	}

	first, err := editor.Replay(ctx, st, session, opts)
	if err != nil {
		return ReplaySessionResult{}, nil, err
	}
	second, err := editor.Replay(ctx, st, session, opts)
	if err != nil {
		return ReplaySessionResult{}, nil, err
	}

	view := first.View()
	digest, err := codec.Digest(view.Document())
	if err != nil {
		return ReplaySessionResult{}, nil, err
	}

	return ReplaySessionResult{
		Session:       session,
		Intents:       len(records),
		Nodes:         len(view.Nodes),
		Edges:         len(view.Edges),
		CanUndo:       view.CanUndo,
		CanRedo:       view.CanRedo,
		Digest:        digest,
		Deterministic: reflect.DeepEqual(view, second.View()),
	}, first, nil
}

func printReplayText(cmd *cobra.Command, result ReplayResult) {
	w := cmd.OutOrStdout()
	for _, s := range result.Sessions {
		mark := "✓"
		if !s.Deterministic {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s: %d intents, %d nodes, %d edges, digest %s\n",
			mark, s.Session, s.Intents, s.Nodes, s.Edges, shortDigest(s.Digest))
	}
	if result.AllDeterministic {
		fmt.Fprintf(w, "\nAll %d session(s) replayed deterministically.\n", result.TotalSessions)
	} else {
		fmt.Fprintln(w, "\nReplay produced differing results.")
	}
}
