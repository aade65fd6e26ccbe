// Package pagination computes the page strip shown under a job list.
package pagination

const DefaultMaxVisible = 5

type Pager struct {
	CurrentPage  int
	TotalPages   int
	TotalItems   int
	ItemsPerPage int
	Disabled     bool
}

// VisiblePages returns the page numbers to render. With more pages than max
// it shows a window centred on the current page, shifted to stay in range.
func (p Pager) VisiblePages(max int) []int {
	if max <= 0 {
		max = DefaultMaxVisible
	}
	if p.TotalPages <= 0 {
		return nil
	}

	if p.TotalPages <= max {
		pages := make([]int, 0, p.TotalPages)
		for i := 1; i <= p.TotalPages; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	start := maxInt(1, p.CurrentPage-max/2)
	end := minInt(p.TotalPages, start+max-1)
	if end-start < max-1 {
		start = maxInt(1, end-max+1)
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// Target reports whether navigating to page is allowed.
func (p Pager) Target(page int) (int, bool) {
	if p.Disabled || page < 1 || page > p.TotalPages || page == p.CurrentPage {
		return 0, false
	}
	return page, true
}

func (p Pager) Previous() (int, bool) { return p.Target(p.CurrentPage - 1) }
func (p Pager) Next() (int, bool)     { return p.Target(p.CurrentPage + 1) }
func (p Pager) First() (int, bool)    { return p.Target(1) }
func (p Pager) Last() (int, bool)     { return p.Target(p.TotalPages) }

func (p Pager) CanGoPrevious() bool { return p.CurrentPage > 1 && !p.Disabled }
func (p Pager) CanGoNext() bool     { return p.CurrentPage < p.TotalPages && !p.Disabled }

// StartItem is the 1-based index of the first item on the page, 0 when empty.
func (p Pager) StartItem() int {
	if p.TotalItems <= 0 {
		return 0
	}
	return (p.CurrentPage-1)*p.ItemsPerPage + 1
}

func (p Pager) EndItem() int {
	return minInt(p.CurrentPage*p.ItemsPerPage, p.TotalItems)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
