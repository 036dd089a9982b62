package query

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps anything other than "desc" to ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// Key is a resolved sort value. Numeric keys compare numerically, string
// keys byte-wise.
type Key struct {
	num     float64
	str     string
	numeric bool
}

func NumberKey[N int | float64](v N) Key { return Key{num: float64(v), numeric: true} }

func StringKey(s string) Key { return Key{str: s} }

func TimeKey(t time.Time) Key { return Key{num: float64(t.UnixNano()), numeric: true} }

// Compare orders two keys. Mixed kinds put numbers first.
func (k Key) Compare(o Key) int {
	switch {
	case k.numeric && o.numeric:
		return cmp.Compare(k.num, o.num)
	case !k.numeric && !o.numeric:
		return strings.Compare(k.str, o.str)
	case k.numeric:
		return -1
	default:
		return 1
	}
}

func (k Key) String() string {
	if k.numeric {
		return strconv.FormatFloat(k.num, 'f', -1, 64)
	}
	return k.str
}

// Sort returns a new slice ordered by key. Equal keys keep their input
// order in both directions.
func Sort[T any](records []T, key func(T) Key, dir Direction) []T {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		c := key(a).Compare(key(b))
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

// SortState tracks the active column of a list view.
type SortState[F comparable] struct {
	Field     F
	Direction Direction
}

// Toggle flips the direction on the active field, or switches to a new
// field ascending.
func (s SortState[F]) Toggle(field F) SortState[F] {
	if s.Field == field {
		if s.Direction == Asc {
			return SortState[F]{Field: field, Direction: Desc}
		}
		return SortState[F]{Field: field, Direction: Asc}
	}
	return SortState[F]{Field: field, Direction: Asc}
}

// ParseSort builds a sort state from request strings. An empty field
// falls back to def, keeping def's direction unless order is given.
func ParseSort[F comparable](field, order string, parse func(string) (F, error), def SortState[F]) (SortState[F], error) {
	if field == "" {
		if order != "" {
			def.Direction = ParseDirection(order)
		}
		return def, nil
	}
	f, err := parse(field)
	if err != nil {
		return SortState[F]{}, err
	}
	return SortState[F]{Field: f, Direction: ParseDirection(order)}, nil
}
