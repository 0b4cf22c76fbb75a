package records

// PageSizes are the selectable page sizes, matching the desk pages'
// rows-per-page control.
var PageSizes = []int{5, 10, 25, 50}

// DefaultPageSize is used when the requested size is not one of PageSizes.
const DefaultPageSize = 10

// NormalizePageSize clamps a requested page size to the allowed set.
func NormalizePageSize(size int) int {
	for _, s := range PageSizes {
		if size == s {
			return size
		}
	}
	return DefaultPageSize
}

// Paginate returns the zero-based page of items: items[page*size :
// (page+1)*size], clipped to the slice bounds. Out-of-range pages return
// an empty slice. Concatenating every page in order reconstructs the
// input exactly once.
func Paginate[T any](items []T, page, size int) []T {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	start := page * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
