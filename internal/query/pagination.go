package query

// Pagination owns the page index and size for a list page and derives
// the total from the latest successful result. There is no server-side
// count in this API slice; the owning page calls SyncTotal with the
// result length on every success, which also clamps a page index left
// dangling by a shrinking result set.
type Pagination struct {
	page  int
	size  int
	total int
}

const defaultPageSize = 20

// NewPagination returns a controller on page 0 with the given size.
// A non-positive size falls back to the default.
func NewPagination(size int) Pagination {
	if size <= 0 {
		size = defaultPageSize
	}
	return Pagination{size: size}
}

func (p Pagination) Page() int       { return p.page }
func (p Pagination) PageSize() int   { return p.size }
func (p Pagination) TotalCount() int { return p.total }

// PageCount returns the number of pages for the current total, at least 1.
func (p Pagination) PageCount() int {
	if p.total <= 0 {
		return 1
	}
	return (p.total + p.size - 1) / p.size
}

// SetPage moves to the given page, clamped to the valid range.
func (p *Pagination) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	if max := p.PageCount() - 1; page > max {
		page = max
	}
	p.page = page
}

// NextPage advances one page, clamped.
func (p *Pagination) NextPage() { p.SetPage(p.page + 1) }

// PrevPage moves back one page, clamped.
func (p *Pagination) PrevPage() { p.SetPage(p.page - 1) }

// SetPageSize replaces the page size and re-anchors to page 0.
func (p *Pagination) SetPageSize(size int) {
	if size <= 0 {
		size = defaultPageSize
	}
	p.size = size
	p.page = 0
}

// SyncTotal recomputes the total from a fresh result's item count and
// clamps the page index so it never points past the last valid page.
func (p *Pagination) SyncTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	p.SetPage(p.page)
}

// Window returns the [lo, hi) bounds of the current page within a slice
// of n items, so callers can render items[lo:hi].
func (p Pagination) Window(n int) (int, int) {
	lo := p.page * p.size
	if lo > n {
		lo = n
	}
	hi := lo + p.size
	if hi > n {
		hi = n
	}
	return lo, hi
}
