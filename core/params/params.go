package params

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// QueryParams carries common listing query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

// Parse builds QueryParams from raw query values, applying defaults and caps.
func Parse(pageStr, sizeStr, search string) QueryParams {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}

	size, _ := strconv.Atoi(sizeStr)
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return QueryParams{
		PageNumber: page,
		PageSize:   size,
		Search:     search,
	}
}

// Offset returns the SQL offset for the current page.
func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
