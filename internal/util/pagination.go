package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 10000
)

// Page clamps the requested page and size and returns the resulting offset.
// Pages are 1-based and capped at MaxPage so the offset cannot overflow.
func Page(page, size int) (p, s, offset int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size, (page - 1) * size
}
