// Command nodeweave validates, formats, stores and replays node-graph
// documents and editor sessions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/nodeweave/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
