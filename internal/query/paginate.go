package query

// Page is one slice of a filtered and sorted collection. FirstIndex and
// LastIndex are the raw slice bounds for the requested page, LastIndex
// exclusive and not clamped to Total.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	FirstIndex int `json:"firstIndex"`
	LastIndex  int `json:"lastIndex"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// TotalPages is ceil(n/pageSize) with a floor of one page.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n == 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate slices records for a 1-indexed page. Pages outside
// [1, TotalPages] come back empty; callers clamp before calling.
// pageSize <= 0 returns everything as a single page.
func Paginate[T any](records []T, page, pageSize int) Page[T] {
	n := len(records)
	if pageSize <= 0 {
		return Page[T]{
			Items:      append([]T{}, records...),
			Page:       1,
			PageSize:   n,
			FirstIndex: 0,
			LastIndex:  n,
			TotalPages: 1,
			Total:      n,
		}
	}

	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   pageSize,
		FirstIndex: (page - 1) * pageSize,
		LastIndex:  page * pageSize,
		TotalPages: TotalPages(n, pageSize),
		Total:      n,
	}
	if page < 1 || p.FirstIndex >= n {
		return p
	}
	p.Items = append(p.Items, records[p.FirstIndex:min(p.LastIndex, n)]...)
	return p
}

// Clamp bounds page to [1, totalPages].
func Clamp(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
