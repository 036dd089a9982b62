package query

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statuses = []string{"verified", "pending", "failed"}

func status(r rec) string { return r.Status }

func TestCountBy_EnumeratedCategoriesAlwaysPresent(t *testing.T) {
	in := []rec{{Status: "verified"}, {Status: "verified"}, {Status: "failed"}}
	got := CountBy(in, status, statuses)
	assert.Equal(t, []CategoryCount{
		{Category: "verified", Count: 2},
		{Category: "pending", Count: 0},
		{Category: "failed", Count: 1},
	}, got)
	assert.Equal(t, 1, CountOf(got, "failed"))
	assert.Equal(t, 0, CountOf(got, "missing"))
}

func TestCountBy_ConservesTotal(t *testing.T) {
	in := []rec{{Status: "verified"}, {Status: "pending"}, {Status: "failed"}, {Status: "pending"}, {Status: "archived"}}
	got := CountBy(in, status, statuses)

	sum := 0
	for _, c := range got {
		sum += c.Count
	}
	assert.Equal(t, len(in), sum)
	assert.Equal(t, "archived", got[len(got)-1].Category)
}

func TestCountBy_EmptyInput(t *testing.T) {
	got := CountBy[rec](nil, status, statuses)
	require.Len(t, got, 3)
	for _, c := range got {
		assert.Zero(t, c.Count)
	}
}

func TestMean(t *testing.T) {
	m, ok := Mean(nil)
	assert.False(t, ok)
	assert.Zero(t, m)
	assert.False(t, math.IsNaN(MeanOf[rec](nil, func(r rec) float64 { return float64(r.Score) })))

	m, ok = Mean([]float64{1, 2, 3, 4})
	assert.True(t, ok)
	assert.InDelta(t, 2.5, m, 1e-9)
}

func TestGroupBy_InsertionOrderAndAverage(t *testing.T) {
	in := []rec{
		{Region: "Texas", Score: 80},
		{Region: "Georgia", Score: 60},
		{Region: "Texas", Score: 90},
	}
	got := GroupBy(in, func(r rec) string { return r.Region }, func(r rec) float64 { return float64(r.Score) })
	require.Len(t, got, 2)
	assert.Equal(t, GroupStat{Key: "Texas", Count: 2, Sum: 170, Average: 85}, got[0])
	assert.Equal(t, GroupStat{Key: "Georgia", Count: 1, Sum: 60, Average: 60}, got[1])
	assert.Empty(t, GroupBy[rec](nil, func(r rec) string { return r.Region }, func(r rec) float64 { return 0 }))
}

func TestMonthlyTrend(t *testing.T) {
	in := []rec{
		{Score: 30, Date: day("2024-03-02")},
		{Score: 10, Date: day("2024-01-05")},
		{Score: 20, Date: day("2024-01-20")},
		{Score: 50, Date: day("2023-12-31")},
	}
	series := func(r rec) [4]float64 { return [4]float64{float64(r.Score), 1, 0, -float64(r.Score)} }
	got := MonthlyTrend(in, func(r rec) time.Time { return r.Date }, series, 0)

	require.Len(t, got, 3)
	assert.Equal(t, "2023-12", got[0].Month)
	assert.Equal(t, "12/23", got[0].Label)
	assert.Equal(t, "2024-01", got[1].Month)
	assert.Equal(t, 2, got[1].Count)
	assert.InDelta(t, 15, got[1].Means[0], 1e-9)
	assert.InDelta(t, -15, got[1].Means[3], 1e-9)
	assert.Equal(t, "03/24", got[2].Label)
}

func TestMonthlyTrend_KeepsMostRecent(t *testing.T) {
	in := []rec{
		{Score: 1, Date: day("2024-01-01")},
		{Score: 2, Date: day("2024-02-01")},
		{Score: 3, Date: day("2024-03-01")},
	}
	got := MonthlyTrend(in, func(r rec) time.Time { return r.Date }, func(r rec) [4]float64 {
		return [4]float64{float64(r.Score)}
	}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-02", got[0].Month)
	assert.Equal(t, "2024-03", got[1].Month)

	assert.Nil(t, MonthlyTrend[rec](nil, func(r rec) time.Time { return r.Date }, nil, 0))
}
