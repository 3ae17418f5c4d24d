package location

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	hongKong  = NewGeoPoint(22.3193, 114.1694)
	southward = NewGeoPoint(22.2783, 114.1747)
)

func TestDistanceMetersIdentity(t *testing.T) {
	points := []GeoPoint{
		hongKong,
		NewGeoPoint(0, 0),
		NewGeoPoint(-90, 180),
		NewGeoPoint(89.9999, -179.9999),
	}

	for _, p := range points {
		assert.Equal(t, 0.0, DistanceMeters(p, p))
	}
}

func TestDistanceMetersSymmetric(t *testing.T) {
	pairs := [][2]GeoPoint{
		{hongKong, southward},
		{NewGeoPoint(51.5074, -0.1278), NewGeoPoint(40.7128, -74.0060)},
		{NewGeoPoint(-33.8688, 151.2093), NewGeoPoint(35.6762, 139.6503)},
	}

	for _, pair := range pairs {
		ab := DistanceMeters(pair[0], pair[1])
		ba := DistanceMeters(pair[1], pair[0])
		assert.InEpsilon(t, ab, ba, 1e-6)
	}
}

func TestDistanceMetersKnownReference(t *testing.T) {
	d := DistanceMeters(hongKong, southward)
	assert.InDelta(t, 4600, d, 50)
}

func TestDistanceMetersAntipodal(t *testing.T) {
	d := DistanceMeters(NewGeoPoint(0, 0), NewGeoPoint(0, 180))
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*earthRadiusMeters, d, 1)
}

func TestDistanceMetersPropagatesNaN(t *testing.T) {
	d := DistanceMeters(NewGeoPoint(math.NaN(), 0), hongKong)
	assert.True(t, math.IsNaN(d))
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0m"},
		{250.4, "250m"},
		{999.4, "999m"},
		{999.6, "1000m"},
		{1000, "1.0km"},
		{2549, "2.5km"},
		{12345, "12.3km"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDistance(tt.meters), "meters=%v", tt.meters)
	}
}

func TestCell(t *testing.T) {
	a := Cell(hongKong, 7)
	assert.Len(t, a, 7)
	assert.Equal(t, a, Cell(NewGeoPoint(22.31931, 114.16941), 7))
	assert.NotEqual(t, a, Cell(southward, 7))
	assert.Equal(t, a[:4], Cell(southward, 4))
}
