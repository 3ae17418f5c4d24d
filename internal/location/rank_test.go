package location

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type place struct {
	name string
	lat  *float64
	lon  *float64
}

func (p place) Point() (GeoPoint, bool) {
	if p.lat == nil || p.lon == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Latitude: *p.lat, Longitude: *p.lon}, true
}

func at(name string, lat, lon float64) place {
	return place{name: name, lat: &lat, lon: &lon}
}

func names(ps []place) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.name
	}
	return out
}

func TestRankNearbyEmpty(t *testing.T) {
	got := RankNearby(hongKong, []place{}, 10)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = RankNearby[place](hongKong, nil, 10)
	assert.Empty(t, got)
}

func TestRankNearbyAllMissingCoordinates(t *testing.T) {
	lat := 22.3
	entities := []place{
		{name: "a"},
		{name: "b", lat: &lat},
		{name: "c"},
	}

	got := RankNearby(hongKong, entities, 10)
	assert.Empty(t, got)

	ranking := Rank(hongKong, entities, 10)
	assert.Equal(t, 3, ranking.Excluded)
}

func TestRankNearbyTruncatesAndSorts(t *testing.T) {
	entities := make([]place, 0, 15)
	// Walk north in uneven steps, inserted in scrambled order.
	order := []int{7, 2, 14, 0, 9, 11, 4, 1, 13, 6, 3, 12, 8, 5, 10}
	for _, i := range order {
		entities = append(entities, at(fmt.Sprintf("r%02d", i), hongKong.Latitude+float64(i+1)*0.003, hongKong.Longitude))
	}

	got := RankNearby(hongKong, entities, 10)
	require.Len(t, got, 10)

	want := []string{"r00", "r01", "r02", "r03", "r04", "r05", "r06", "r07", "r08", "r09"}
	assert.Equal(t, want, names(got))

	prev := -1.0
	for _, p := range got {
		pt, _ := p.Point()
		d := DistanceMeters(hongKong, pt)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
		assert.Contains(t, names(entities), p.name)
	}
}

func TestRankNearbyFewerThanLimit(t *testing.T) {
	entities := []place{at("far", 22.5, 114.2), {name: "nowhere"}, at("near", 22.32, 114.17)}

	got := RankNearby(hongKong, entities, 10)
	assert.Equal(t, []string{"near", "far"}, names(got))
}

func TestRankNearbyStable(t *testing.T) {
	entities := []place{
		at("first", 22.30, 114.17),
		at("closer", 22.3193, 114.1695),
		at("second", 22.30, 114.17),
		at("third", 22.30, 114.17),
	}

	got := RankNearby(hongKong, entities, 10)
	assert.Equal(t, []string{"closer", "first", "second", "third"}, names(got))
}

func TestRankNearbyIdempotentAndPure(t *testing.T) {
	entities := []place{
		at("a", 22.40, 114.10),
		at("b", 22.28, 114.17),
		{name: "c"},
		at("d", 22.32, 114.20),
	}
	snapshot := append([]place(nil), entities...)
	origin := hongKong

	first := RankNearby(origin, entities, 3)
	second := RankNearby(origin, entities, 3)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, entities)
	assert.Equal(t, hongKong, origin)
}

func TestRankNonPositiveLimit(t *testing.T) {
	entities := []place{at("a", 22.40, 114.10)}

	assert.Empty(t, RankNearby(hongKong, entities, 0))
	assert.Empty(t, RankNearby(hongKong, entities, -3))
}

func TestRankReportsDistances(t *testing.T) {
	entities := []place{at("south", southward.Latitude, southward.Longitude), {name: "x"}}

	ranking := Rank(hongKong, entities, 5)
	require.Len(t, ranking.Items, 1)
	assert.Equal(t, 1, ranking.Excluded)
	assert.InDelta(t, 4600, ranking.Items[0].DistanceMeters, 50)
}
