// Package cli implements the dgref command line: catalog queries, UN lookups,
// manual search, the assistant and the terminal browser.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JonMunkholm/dgref/internal/bootstrap"
	"github.com/JonMunkholm/dgref/internal/config"
	"github.com/JonMunkholm/dgref/internal/core"
	"github.com/JonMunkholm/dgref/internal/logging"
)

// Opener builds the services a command runs against.
type Opener func(ctx context.Context) (*bootstrap.App, error)

type runner struct {
	open Opener
	app  *bootstrap.App
	json bool
}

// NewRootCmd builds the command tree. Services are opened lazily, once, by
// the first command that needs them.
func NewRootCmd(open Opener) *cobra.Command {
	r := &runner{open: open}

	root := &cobra.Command{
		Use:   "dgref",
		Short: "Dangerous goods air transport reference",
		Long: `dgref browses the dangerous goods list, packing instructions, special
provisions, variations and the regulations manual from the terminal.

  Use 'dgref browse' for the interactive browser, or the query commands for
  scripting. Every query command accepts --json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&r.json, "json", false, "print JSON instead of text")

	root.AddCommand(
		r.tablesCmd(),
		r.rowsCmd(),
		r.lookupCmd(),
		r.searchCmd(),
		r.chapterCmd(),
		r.askCmd(),
		r.auditCmd(),
		r.verifyCmd(),
		r.validateCmd(),
		r.browseCmd(),
	)
	return root
}

// Execute runs the command line with services built from the environment.
func Execute() {
	_ = godotenv.Load()

	open := func(ctx context.Context) (*bootstrap.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		return bootstrap.Open(ctx, cfg, bootstrap.Options{})
	}

	if err := NewRootCmd(open).ExecuteContext(context.Background()); err != nil {
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, "Error:", core.FormatUserError(err))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		slog.Debug("command failed", "error", err)
		os.Exit(1)
	}
}

func (r *runner) services(cmd *cobra.Command) (*bootstrap.App, error) {
	if r.app != nil {
		return r.app, nil
	}
	app, err := r.open(cmd.Context())
	if err != nil {
		return nil, err
	}
	r.app = app
	return app, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// markdownStyle picks a colored glamour style for terminals and plain text
// for pipes and files.
func markdownStyle(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}
