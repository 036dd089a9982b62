package query

import (
	"slices"
	"time"
)

// DefaultTrendLimit bounds the records fed into MonthlyTrend.
const DefaultTrendLimit = 100

// CategoryCount is one bucket of a status breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CountBy counts records per category. Every enumerated category is
// reported, zero counts included, in the given order. Keys outside the
// enumeration follow in first-seen order.
func CountBy[T any](records []T, key func(T) string, categories []string) []CategoryCount {
	out := make([]CategoryCount, 0, len(categories))
	index := make(map[string]int, len(categories))
	for _, c := range categories {
		index[c] = len(out)
		out = append(out, CategoryCount{Category: c})
	}
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, CategoryCount{Category: k})
		}
		out[i].Count++
	}
	return out
}

// CountOf returns the count for category, or 0.
func CountOf(counts []CategoryCount, category string) int {
	for _, c := range counts {
		if c.Category == category {
			return c.Count
		}
	}
	return 0
}

// Strings converts a typed enumeration to the string slice CountBy takes.
func Strings[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Mean is the arithmetic mean of values. ok is false for empty input and
// the mean is then 0.
func Mean(values []float64) (mean float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// MeanOf projects records to a numeric field and averages it.
func MeanOf[T any](records []T, field func(T) float64) float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = field(r)
	}
	m, _ := Mean(values)
	return m
}

// GroupStat is a per-key running count and sum with the derived average.
type GroupStat struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
}

// GroupBy accumulates count and sum per key in first-seen order, then
// divides sum by count.
func GroupBy[T any](records []T, key func(T) string, value func(T) float64) []GroupStat {
	var out []GroupStat
	index := map[string]int{}
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, GroupStat{Key: k})
		}
		out[i].Count++
		out[i].Sum += value(r)
	}
	for i := range out {
		out[i].Average = out[i].Sum / float64(out[i].Count)
	}
	return out
}

// TrendBucket is one month of a trend chart.
type TrendBucket struct {
	Month string     `json:"month"`
	Label string     `json:"label"`
	Count int        `json:"count"`
	Means [4]float64 `json:"means"`
}

// MonthlyTrend keeps the most recent limit records by date, buckets them
// by YYYY-MM and averages up to four parallel series per bucket.
// limit <= 0 means DefaultTrendLimit.
func MonthlyTrend[T any](records []T, date func(T) time.Time, series func(T) [4]float64, limit int) []TrendBucket {
	if len(records) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultTrendLimit
	}

	ordered := Sort(records, func(r T) Key { return TimeKey(date(r)) }, Asc)
	if len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}

	sums := map[string]*TrendBucket{}
	var months []string
	for _, r := range ordered {
		d := date(r).UTC()
		month := d.Format("2006-01")
		b, ok := sums[month]
		if !ok {
			b = &TrendBucket{Month: month, Label: d.Format("01/06")}
			sums[month] = b
			months = append(months, month)
		}
		v := series(r)
		for i := range v {
			b.Means[i] += v[i]
		}
		b.Count++
	}

	slices.Sort(months)
	out := make([]TrendBucket, 0, len(months))
	for _, m := range months {
		b := *sums[m]
		for i := range b.Means {
			b.Means[i] /= float64(b.Count)
		}
		out = append(out, b)
	}
	return out
}
