package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repsql/repsql/internal/result"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Page        int
	Interactive bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [file.sql]",
		Short: "Execute a SQL query against a report endpoint",
		Long: `Execute a SELECT statement against a report endpoint and render the
result. SQL is read from the file argument, or from stdin when piped.

Only statements starting with SELECT are accepted; the statement is sent
Base64-encoded in a JSON POST body and the response is parsed as CSV.`,
		Example: `  # From a file
  repsql query report.sql --connection prod

  # From stdin
  echo "select * from invoices" | repsql query

  # Jump to the third page as JSON
  repsql query report.sql --page 2 --format json

  # Browse pages interactively
  repsql query report.sql --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 0, "Page index to render (0-based)")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Browse pages interactively")
	cmd.Flags().StringP("format", "f", "", "Output format override: table, csv, json")

	return cmd
}

// readSQL resolves the SQL source: file argument first, then piped stdin.
func readSQL(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(content), nil
	}

	if stdin, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(stdin) {
		return "", fmt.Errorf("no SQL given: pass a file argument or pipe a statement to stdin")
	}

	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(content), nil
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	sqlText, err := readSQL(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(sqlText) == "" {
		return fmt.Errorf("no SQL given: the input is empty")
	}

	conn, err := cmdCtx.resolveConnection()
	if err != nil {
		return err
	}

	text, err := cmdCtx.Client.Execute(cmd.Context(), conn, sqlText)
	if err != nil {
		return err
	}

	pager := result.NewPager(result.Parse(text), cmdCtx.Cfg.PageSize)
	for i := 0; i < opts.Page; i++ {
		pager.Next()
	}

	if opts.Interactive {
		return browsePages(pager)
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cmdCtx.Cfg.OutputFormat
	}
	return renderPage(cmd.OutOrStdout(), pager, format)
}
