// Package result models a query result set: CSV text parsed into a header
// plus body rows, and a page cursor over it.
//
// Parsing splits on the literal comma only. There is no quoting or escaping,
// so a comma inside a field is indistinguishable from a separator. That is a
// fidelity limit of the wire format, not something this package tries to fix;
// ragged rows are kept as-is with no column-count reconciliation.
package result

import "strings"

// Row is an ordered sequence of string cells.
type Row []string

// Table is an ordered sequence of rows. Row 0 is the header; the rest are
// data. A table is produced fresh for every query and replaced wholesale by
// the next one.
type Table []Row

// Parse splits text into a Table. Lines are separated by \n or \r\n; a
// single trailing blank line is discarded.
func Parse(text string) Table {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	table := make(Table, 0, len(lines))
	for _, line := range lines {
		table = append(table, strings.Split(line, ","))
	}
	return table
}

// Header returns row 0, or nil for an empty table.
func (t Table) Header() Row {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Body returns the data rows.
func (t Table) Body() []Row {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}
