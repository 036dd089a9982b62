package query

// Field is a sortable column of T.
type Field[T any] interface {
	comparable
	Key(T) Key
}

// ListParams is the paging and sorting input shared by list endpoints.
// Token is the criteria fingerprint from the previous response; Toggle,
// when set, is applied as a column click on Sort.
type ListParams[F comparable] struct {
	Sort     SortState[F]
	Toggle   F
	Page     int
	PageSize int
	Token    string
}

// Result is one page of a list plus the view state to echo back.
type Result[T any, F comparable] struct {
	Page[T]
	Sort  SortState[F]
	Token string
}

// Shape filters and sorts records.
func Shape[T any, F Field[T]](records []T, preds Predicates[T], sort SortState[F]) []T {
	return Sort(Filter(records, preds...), sort.Field.Key, sort.Direction)
}

// List runs filter, sort and paginate. A page requested against different
// criteria than the token describes is reset to 1.
func List[T any, F Field[T]](records []T, criteria any, preds Predicates[T], p ListParams[F]) (Result[T, F], error) {
	view := RestoreView(p.Token, p.Page, p.Sort)
	var none F
	if p.Toggle != none {
		view.ToggleSort(p.Toggle)
	}
	if err := view.SetCriteria(criteria); err != nil {
		return Result[T, F]{}, err
	}
	shaped := Shape(records, preds, view.Sort)
	return Result[T, F]{
		Page:  Paginate(shaped, view.Page(), p.PageSize),
		Sort:  view.Sort,
		Token: view.Token(),
	}, nil
}
