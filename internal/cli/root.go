// Package cli implements the notepager command-line interface.
//
// The paginate command reads an HTML note, splits it into paper-sized pages
// and writes the page sequence as JSON, a PDF text proof or Markdown.
// All commands accept --verbose (-v) for debug logging; the logger travels
// through the command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCommand builds the command tree. Logs go to logOut.
func NewRootCommand(logOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "notepager",
		Short:         "notepager splits rich-text notes into printable pages",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(logOut, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("notepager %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPaginateCmd())

	return root
}

// Execute runs the CLI with ctx and returns the first command error.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stderr).ExecuteContext(ctx)
}
