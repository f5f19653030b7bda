package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/repsql/repsql/internal/result"
	"github.com/repsql/repsql/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file.sql>",
		Short: "Re-run a query file on every save",
		Long: `Watch a SQL file and submit its statement to the report endpoint on
every save. Each result replaces the previous one and is rendered from
page 0. Runs until interrupted.`,
		Example: `  repsql watch report.sql --connection prod`,
		Args:    cobra.ExactArgs(1),
		RunE:    runWatch,
	}

	cmd.Flags().StringP("format", "f", "", "Output format override: table, csv, json")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	conn, err := cmdCtx.resolveConnection()
	if err != nil {
		return err
	}

	path := args[0]
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cmdCtx.Cfg.OutputFormat
	}

	// One submission at a time; the watcher callback runs on a single
	// goroutine, so each query fully replaces the previous result before
	// the next save is observed.
	submit := func() {
		content, err := os.ReadFile(path)
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: failed to read %s: %v\n", path, err)
			return
		}
		if strings.TrimSpace(string(content)) == "" {
			_, _ = fmt.Fprintf(errOut, "Skipping %s: the file is empty\n", path)
			return
		}

		text, err := cmdCtx.Client.Execute(cmd.Context(), conn, string(content))
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}

		pager := result.NewPager(result.Parse(text), cmdCtx.Cfg.PageSize)
		if err := renderPage(out, pager, format); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(out)
	}

	watcher, err := watch.New(path, submit, cmdCtx.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintf(out, "Watching %s (connection: %s), Ctrl+C to stop\n\n", path, conn.Name)

	// Submit once up front so the first render does not wait for a save.
	submit()

	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
