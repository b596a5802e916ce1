// Package page slices ordered results into fixed-size pages.
package page

// TotalPages returns ceil(n/size). A non-positive size yields 0.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Slice returns page number (1-based) of items: the half-open range
// [(number-1)*size, number*size) clipped to len(items).
func Slice[T any](items []T, size, number int) []T {
	if size <= 0 || number < 1 {
		return nil
	}
	start := (number - 1) * size
	if start >= len(items) {
		return nil
	}
	end := min(start+size, len(items))
	return items[start:end]
}

// Pager tracks the current page of a result set.
type Pager struct {
	current int
	total   int
}

// NewPager starts at page 1 of total pages.
func NewPager(total int) Pager {
	return Pager{current: 1, total: total}
}

// Goto moves to page n when 1 <= n <= total and reports whether it moved.
// Out-of-range requests leave the current page unchanged.
func (p *Pager) Goto(n int) bool {
	if n < 1 || n > p.total {
		return false
	}
	p.current = n
	return true
}

// Current returns the current page number.
func (p *Pager) Current() int { return p.current }

// Total returns the page count.
func (p *Pager) Total() int { return p.total }
