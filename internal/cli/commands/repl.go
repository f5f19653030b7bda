package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/repsql/repsql/internal/connection"
	"github.com/repsql/repsql/internal/result"
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive query session",
		Long: `Start an interactive session against a report endpoint.

Statements are sent when terminated with a semicolon. The last result stays
live: .next and .prev page through it until the next query replaces it.`,
		RunE: runRepl,
	}
}

// replSession holds the REPL's live state: the selected connection and the
// pager over the most recent result. One table/pager pair is live at a time;
// each successful query replaces both.
type replSession struct {
	cmdCtx *CommandContext
	conn   connection.Connection
	pager  *result.Pager
	out    io.Writer
	errOut io.Writer
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	conn, err := cmdCtx.resolveConnection()
	if err != nil {
		return err
	}

	historyFile := filepath.Join(filepath.Dir(cmdCtx.Cfg.ConnectionsFile), "repl_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "repsql> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	session := &replSession{
		cmdCtx: cmdCtx,
		conn:   conn,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}

	_, _ = fmt.Fprintf(session.out, "repsql REPL (connection: %s)\n", conn.Name)
	_, _ = fmt.Fprintln(session.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(session.out)

	var buffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt("repsql> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := session.handleDotCommand(line); quit {
				break
			}
			continue
		}

		buffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buffer.WriteString(" ")
			rl.SetPrompt("   ...> ")
			continue
		}
		rl.SetPrompt("repsql> ")

		query := strings.TrimSuffix(buffer.String(), ";")
		buffer.Reset()

		if err := session.execute(cmd, query); err != nil {
			_, _ = fmt.Fprintf(session.errOut, "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(session.out)
	}

	return nil
}

// execute runs one statement and installs a fresh table and cursor.
func (s *replSession) execute(cmd *cobra.Command, query string) error {
	text, err := s.cmdCtx.Client.Execute(cmd.Context(), s.conn, query)
	if err != nil {
		return err
	}

	s.pager = result.NewPager(result.Parse(text), s.cmdCtx.Cfg.PageSize)
	return s.renderCurrentPage()
}

func (s *replSession) renderCurrentPage() error {
	if s.pager == nil {
		_, _ = fmt.Fprintln(s.errOut, "No result to page through; run a query first")
		return nil
	}
	return renderPage(s.out, s.pager, "table")
}

// handleDotCommand dispatches a dot-command; it reports whether the REPL
// should exit.
func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		s.printHelp()

	case ".connections":
		for _, c := range s.cmdCtx.Store.List() {
			marker := " "
			if c.Name == s.conn.Name {
				marker = "*"
			}
			_, _ = fmt.Fprintf(s.out, "%s %s\t%s\n", marker, c.Name, c.URL)
		}

	case ".use":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .use <connection>")
			return false
		}
		conn, err := s.cmdCtx.Store.Get(parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return false
		}
		s.conn = conn
		_, _ = fmt.Fprintf(s.out, "Using connection %q\n", conn.Name)

	case ".next":
		if s.pager != nil {
			s.pager.Next()
		}
		_ = s.renderCurrentPage()

	case ".prev":
		if s.pager != nil {
			s.pager.Prev()
		}
		_ = s.renderCurrentPage()

	case ".page":
		_ = s.renderCurrentPage()

	case ".clear":
		_, _ = fmt.Fprint(os.Stdout, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}

	return false
}

func (s *replSession) printHelp() {
	help := `
Commands:
  .help             Show this help message
  .connections      List connections (* marks the active one)
  .use <name>       Switch the active connection
  .next             Advance one page of the last result
  .prev             Go back one page of the last result
  .page             Re-render the current page
  .clear            Clear the screen
  .quit             Exit the REPL

Statements terminated with ; are sent to the endpoint.
Only SELECT statements are accepted.
`
	_, _ = fmt.Fprintln(s.out, help)
}
