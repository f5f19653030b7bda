package result

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 10

// Pager is an explicit page cursor over a fixed Table. It is a plain value
// threaded through the caller, not ambient state, so paging behavior is
// deterministic and testable in isolation.
//
// The page bound counts the header as a table row: maxPage is
// len(table)/pageSize. Relative to a data-rows-only reading this is off by
// one, and each page's slice starts with whatever row lands there, which on
// pages past the first is a data row in the header position. Both are
// inherited behaviors of the wire format's consumers and are kept literally;
// see the open questions in DESIGN.md before changing either.
type Pager struct {
	table     Table
	pageSize  int
	pageIndex int
}

// NewPager creates a cursor over table at page 0. A pageSize < 1 falls back
// to DefaultPageSize.
func NewPager(table Table, pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Pager{table: table, pageSize: pageSize}
}

// SetTable installs a new table and resets the cursor to page 0.
func (p *Pager) SetTable(table Table) {
	p.table = table
	p.Reset()
}

// Table returns the table the cursor ranges over.
func (p *Pager) Table() Table { return p.table }

// PageSize returns the fixed page size.
func (p *Pager) PageSize() int { return p.pageSize }

// PageIndex returns the current page, in [0, MaxPage].
func (p *Pager) PageIndex() int { return p.pageIndex }

// MaxPage returns the last reachable page index.
func (p *Pager) MaxPage() int {
	return len(p.table) / p.pageSize
}

// View returns the slice of rows for the current page, clamped to the table
// length. The last page may be shorter than pageSize, or empty when the row
// count is an exact multiple of it.
func (p *Pager) View() []Row {
	start := p.pageIndex * p.pageSize
	if start > len(p.table) {
		start = len(p.table)
	}
	end := start + p.pageSize
	if end > len(p.table) {
		end = len(p.table)
	}
	return p.table[start:end]
}

// Next advances one page, clamping at MaxPage.
func (p *Pager) Next() {
	if p.pageIndex < p.MaxPage() {
		p.pageIndex++
	}
}

// Prev moves back one page, clamping at 0.
func (p *Pager) Prev() {
	if p.pageIndex > 0 {
		p.pageIndex--
	}
}

// Reset moves the cursor back to page 0.
func (p *Pager) Reset() {
	p.pageIndex = 0
}
