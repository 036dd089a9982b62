package query

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
)

// Fingerprint identifies a set of filter criteria. Two criteria values
// with the same JSON encoding share a fingerprint.
func Fingerprint(criteria any) (string, error) {
	data, err := json.Marshal(criteria)
	if err != nil {
		return "", fmt.Errorf("fingerprint criteria: %w", err)
	}
	return fmt.Sprintf("%x", md5.Sum(data)), nil
}

// View is the pagination state of one list: which criteria the current
// page number was computed against, the active sort and the page.
// Changing the criteria sends the view back to page 1.
type View[F comparable] struct {
	token string
	page  int
	Sort  SortState[F]
}

// RestoreView rebuilds a view from the token and page a client echoed
// back. An empty token means a fresh view.
func RestoreView[F comparable](token string, page int, sort SortState[F]) *View[F] {
	if page < 1 {
		page = 1
	}
	return &View[F]{token: token, page: page, Sort: sort}
}

// SetCriteria records the criteria for the next page computation and
// resets the page when they differ from the previous ones.
func (v *View[F]) SetCriteria(criteria any) error {
	fp, err := Fingerprint(criteria)
	if err != nil {
		return err
	}
	if v.token != "" && v.token != fp {
		v.page = 1
	}
	v.token = fp
	return nil
}

// SetPage moves to page p. Callers clamp p against TotalPages.
func (v *View[F]) SetPage(p int) { v.page = p }

// ToggleSort applies a column click.
func (v *View[F]) ToggleSort(field F) { v.Sort = v.Sort.Toggle(field) }

func (v *View[F]) Page() int { return v.page }

// Token is the fingerprint of the current criteria.
func (v *View[F]) Token() string { return v.token }
