package search

// Ellipsis marks a gap in a PageNumbers list.
const Ellipsis = 0

// CurrentPage returns the 1-based page that starts at offset from.
func CurrentPage(from, size int) int {
	if size <= 0 {
		return 1
	}
	return from/size + 1
}

// TotalPages returns the number of pages needed for total results.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// PageNumbers lists the page buttons to show. Up to seven pages are listed in
// full; beyond that the first and last page stay visible around a window
// near the current page, with Ellipsis for each gap.
func PageNumbers(current, total int) []int {
	if total <= 7 {
		pages := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}
	switch {
	case current <= 4:
		return []int{1, 2, 3, 4, 5, Ellipsis, total}
	case current >= total-3:
		return []int{1, Ellipsis, total - 4, total - 3, total - 2, total - 1, total}
	default:
		return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, total}
	}
}

// Showing returns the 1-based first and last result numbers displayed on the
// page at offset from. Both are zero when there are no results.
func Showing(from, size, total int) (first, last int) {
	if total <= 0 {
		return 0, 0
	}
	return from + 1, min(from+size, total)
}
