package views

// Paginator tracks a cursor over a result list shown one page at a time
type Paginator struct {
	size   int
	offset int
	cursor int
	total  int
}

// NewPaginator creates a paginator showing size rows per page
func NewPaginator(size int) *Paginator {
	if size <= 0 {
		size = 10
	}
	return &Paginator{size: size}
}

// SetTotal sets the number of rows, clamping the cursor
func (p *Paginator) SetTotal(total int) {
	p.total = total
	p.cursor = max(0, min(p.cursor, total-1))
	p.follow()
}

// Cursor returns the absolute index of the selected row
func (p *Paginator) Cursor() int {
	return p.cursor
}

// CursorUp selects the previous row
func (p *Paginator) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
		p.follow()
	}
}

// CursorDown selects the next row
func (p *Paginator) CursorDown() {
	if p.cursor < p.total-1 {
		p.cursor++
		p.follow()
	}
}

// NextPage jumps to the first row of the next page
func (p *Paginator) NextPage() {
	if p.offset+p.size < p.total {
		p.offset += p.size
		p.cursor = p.offset
	}
}

// PrevPage jumps to the first row of the previous page
func (p *Paginator) PrevPage() {
	if p.offset > 0 {
		p.offset = max(0, p.offset-p.size)
		p.cursor = p.offset
	}
}

// VisibleRange returns the [start, end) rows of the current page
func (p *Paginator) VisibleRange() (start, end int) {
	return p.offset, min(p.offset+p.size, p.total)
}

// TotalPages returns the page count, at least 1
func (p *Paginator) TotalPages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total + p.size - 1) / p.size
}

// CurrentPage returns the 1-based page number
func (p *Paginator) CurrentPage() int {
	return p.offset/p.size + 1
}

// Reset empties the paginator
func (p *Paginator) Reset() {
	*p = Paginator{size: p.size}
}

// follow moves the page so it contains the cursor
func (p *Paginator) follow() {
	if p.cursor < p.offset || p.cursor >= p.offset+p.size {
		p.offset = (p.cursor / p.size) * p.size
	}
}
