package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recField string

const (
	fieldID    recField = "id"
	fieldScore recField = "score"
)

func (f recField) Key(r rec) Key {
	switch f {
	case fieldScore:
		return NumberKey(r.Score)
	default:
		return StringKey(r.ID)
	}
}

type recCriteria struct {
	MinScore int `json:"minScore"`
}

func recPreds(c recCriteria) Predicates[rec] {
	var ps Predicates[rec]
	ps.Add(c.MinScore > 0, AtLeast(c.MinScore, func(r rec) int { return r.Score }))
	return ps
}

func TestList_FilterSortPaginate(t *testing.T) {
	c := recCriteria{MinScore: 50}
	res, err := List(sample(), c, recPreds(c), ListParams[recField]{
		Sort:     SortState[recField]{Field: fieldScore, Direction: Desc},
		Page:     1,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"MODULE-1", "MODULE-3"}, ids(res.Items))
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.NotEmpty(t, res.Token)
}

func TestList_ChangedCriteriaResetPage(t *testing.T) {
	c := recCriteria{MinScore: 50}
	first, err := List(sample(), c, recPreds(c), ListParams[recField]{Sort: SortState[recField]{Field: fieldID}, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Page.Page)

	same, err := List(sample(), c, recPreds(c), ListParams[recField]{Sort: first.Sort, Page: 2, PageSize: 2, Token: first.Token})
	require.NoError(t, err)
	assert.Equal(t, 2, same.Page.Page)

	c2 := recCriteria{MinScore: 60}
	changed, err := List(sample(), c2, recPreds(c2), ListParams[recField]{Sort: first.Sort, Page: 2, PageSize: 2, Token: first.Token})
	require.NoError(t, err)
	assert.Equal(t, 1, changed.Page.Page)
}

func TestList_Toggle(t *testing.T) {
	res, err := List(sample(), recCriteria{}, nil, ListParams[recField]{
		Sort:   SortState[recField]{Field: fieldScore, Direction: Asc},
		Toggle: fieldScore,
		Page:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, Desc, res.Sort.Direction)
	assert.Equal(t, "MODULE-1", res.Items[0].ID)
}
