package layout

// PageSpan is the half-open range of entry indexes [Start, End) on a page
type PageSpan struct {
	Index int
	Start int
	End   int
}

// Len is the number of rows on the page.
func (s PageSpan) Len() int {
	return s.End - s.Start
}

// Paginate assigns n entries to pages of perPage rows in input order.
// Zero entries (or a non-positive perPage) yields no pages.
func Paginate(n, perPage int) []PageSpan {
	if n <= 0 || perPage <= 0 {
		return nil
	}

	pages := make([]PageSpan, 0, (n+perPage-1)/perPage)
	for start := 0; start < n; start += perPage {
		pages = append(pages, PageSpan{
			Index: len(pages),
			Start: start,
			End:   min(start+perPage, n),
		})
	}
	return pages
}

// StartsPage reports whether entry i is the first row of a page after the first.
func StartsPage(i, perPage int) bool {
	return i > 0 && i%perPage == 0
}

// HasDivider reports whether a separator is drawn below entry i of n:
// every row except the last on its page and the last overall.
func HasDivider(i, n, perPage int) bool {
	return (i+1)%perPage != 0 && i != n-1
}
