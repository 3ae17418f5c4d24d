package location

import (
	"cmp"
	"slices"
)

// Locatable is anything that may carry a position. ok is false when the
// record has no usable coordinates.
type Locatable interface {
	Point() (p GeoPoint, ok bool)
}

// Ranked pairs an entity with its distance from the ranking origin.
type Ranked[T Locatable] struct {
	Entity         T
	DistanceMeters float64
}

// Ranking is the outcome of Rank. Excluded counts inputs without coordinates
// so callers can report "N of M had no location".
type Ranking[T Locatable] struct {
	Items    []Ranked[T]
	Excluded int
}

// Rank computes distances from origin, drops entities without coordinates,
// sorts ascending with a stable sort (equal distances keep input order) and
// keeps at most limit entries. Neither origin nor entities is modified.
func Rank[T Locatable](origin GeoPoint, entities []T, limit int) Ranking[T] {
	items := make([]Ranked[T], 0, len(entities))
	excluded := 0

	for _, e := range entities {
		p, ok := e.Point()
		if !ok {
			excluded++
			continue
		}
		items = append(items, Ranked[T]{
			Entity:         e,
			DistanceMeters: DistanceMeters(origin, p),
		})
	}

	slices.SortStableFunc(items, func(a, b Ranked[T]) int {
		return cmp.Compare(a.DistanceMeters, b.DistanceMeters)
	})

	if limit < 0 {
		limit = 0
	}
	if len(items) > limit {
		items = items[:limit]
	}

	return Ranking[T]{Items: items, Excluded: excluded}
}

// RankNearby returns the limit entities closest to origin, nearest first.
// It never fails: empty input, or input where nothing has coordinates,
// yields an empty non-nil slice.
func RankNearby[T Locatable](origin GeoPoint, entities []T, limit int) []T {
	ranking := Rank(origin, entities, limit)

	out := make([]T, len(ranking.Items))
	for i, r := range ranking.Items {
		out[i] = r.Entity
	}
	return out
}
