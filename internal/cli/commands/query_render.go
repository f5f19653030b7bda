package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/repsql/repsql/internal/result"
)

var footerStyle = lipgloss.NewStyle().Faint(true)

// resolveFormat maps the configured output format to a concrete one.
// "auto" picks table on a TTY and csv otherwise.
func resolveFormat(format string) string {
	if format != "auto" && format != "" {
		return format
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "table"
	}
	return "csv"
}

// renderPage writes the pager's current page. The first row of the page
// slice is rendered as the header, whatever row that happens to be.
func renderPage(w io.Writer, pager *result.Pager, format string) error {
	view := pager.View()

	switch resolveFormat(format) {
	case "json":
		return renderJSON(w, view)
	case "csv":
		return renderCSV(w, view)
	case "table":
		return renderTable(w, pager, view)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func renderTable(w io.Writer, pager *result.Pager, view []result.Row) error {
	if len(view) == 0 {
		_, _ = fmt.Fprintln(w, "(empty page)")
		_, _ = fmt.Fprintln(w, footerStyle.Render(pageFooter(pager)))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(toPrettyRow(view[0]))
	for _, row := range view[1:] {
		t.AppendRow(toPrettyRow(row))
	}
	t.Render()

	_, _ = fmt.Fprintln(w, footerStyle.Render(pageFooter(pager)))
	return nil
}

func toPrettyRow(row result.Row) table.Row {
	out := make(table.Row, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}

// pageFooter summarizes the cursor position, one-based for display.
func pageFooter(pager *result.Pager) string {
	return fmt.Sprintf("Page %d/%d (%d rows total)",
		pager.PageIndex()+1, pager.MaxPage()+1, len(pager.Table()))
}

func renderCSV(w io.Writer, view []result.Row) error {
	for _, row := range view {
		_, _ = fmt.Fprintln(w, strings.Join(row, ","))
	}
	return nil
}

func renderJSON(w io.Writer, view []result.Row) error {
	if len(view) == 0 {
		_, _ = fmt.Fprintln(w, "[]")
		return nil
	}

	header := view[0]
	rows := make([]map[string]string, 0, len(view)-1)
	for _, row := range view[1:] {
		obj := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		rows = append(rows, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
