// Package query holds the filter, sort, aggregate and paginate steps
// shared by every list and summary endpoint.
package query

import (
	"slices"
	"strings"
	"time"
)

// Predicate reports whether a record satisfies one criterion.
type Predicate[T any] func(T) bool

// Filter keeps the records matching every predicate, in input order.
// With no predicates it returns a copy of records.
func Filter[T any](records []T, preds ...Predicate[T]) []T {
	if len(preds) == 0 {
		return slices.Clone(records)
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matchAll(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func matchAll[T any](r T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// Predicates collects criteria, skipping the ones that are absent.
type Predicates[T any] []Predicate[T]

// Add appends p when present is true.
func (ps *Predicates[T]) Add(present bool, p Predicate[T]) {
	if present {
		*ps = append(*ps, p)
	}
}

// ContainsFold matches a free-text term against any of the fields
// returned by fields, case-insensitively.
func ContainsFold[T any](term string, fields func(T) []string) Predicate[T] {
	needle := strings.ToLower(term)
	return func(r T) bool {
		for _, f := range fields(r) {
			if strings.Contains(strings.ToLower(f), needle) {
				return true
			}
		}
		return false
	}
}

// EqualFold matches a categorical field exactly, ignoring case.
func EqualFold[T any](want string, field func(T) string) Predicate[T] {
	return func(r T) bool {
		return strings.EqualFold(field(r), want)
	}
}

// Equal matches a field exactly.
func Equal[T any, V comparable](want V, field func(T) V) Predicate[T] {
	return func(r T) bool {
		return field(r) == want
	}
}

// AtLeast keeps records whose field is >= threshold.
func AtLeast[T any, N int | float64](threshold N, field func(T) N) Predicate[T] {
	return func(r T) bool {
		return field(r) >= threshold
	}
}

// Within keeps records whose date lies in [start, end]. A nil bound is
// open on that side.
func Within[T any](start, end *time.Time, field func(T) time.Time) Predicate[T] {
	return func(r T) bool {
		d := field(r)
		if start != nil && d.Before(*start) {
			return false
		}
		if end != nil && d.After(*end) {
			return false
		}
		return true
	}
}

// AnyIn keeps records with at least one value in allowed.
func AnyIn[T any](allowed []string, values func(T) []string) Predicate[T] {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(r T) bool {
		for _, v := range values(r) {
			if _, ok := set[v]; ok {
				return true
			}
		}
		return false
	}
}
