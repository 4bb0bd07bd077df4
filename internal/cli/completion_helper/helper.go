package completion_helper

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// DefaultFlagComplete prints the flags and subcommands of cmd, one per line,
// for shell completion scripts.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	writeCompletions(os.Stdout, cmd)
}

func writeCompletions(w io.Writer, cmd *cli.Command) {
	for _, sub := range cmd.Commands {
		if !sub.Hidden {
			_, _ = fmt.Fprintln(w, sub.Name)
		}
	}
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				_, _ = fmt.Fprintln(w, "-"+name)
			} else {
				_, _ = fmt.Fprintln(w, "--"+name)
			}
		}
	}
}
