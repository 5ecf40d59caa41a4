package usecase

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// maxOffset bounds (page-1)*pageSize so the offset cannot overflow.
	maxOffset = math.MaxInt32
)

// normalizePage clamps page to [1, maxOffset/pageSize+1] and pageSize to
// [1, MaxPageSize]. Absent values take the defaults.
func normalizePage(page, pageSize *int) (int, int) {
	p, size := 1, DefaultPageSize
	if page != nil && *page > 1 {
		p = *page
	}
	if pageSize != nil {
		size = *pageSize
		if size < 1 {
			size = 1
		}
		if size > MaxPageSize {
			size = MaxPageSize
		}
	}
	if maxPage := maxOffset/size + 1; p > maxPage {
		p = maxPage
	}
	return p, size
}

func totalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
