package location

import "github.com/mmcloughlin/geohash"

// Cell returns the geohash cell of p at the given character precision.
// Two positions in the same cell are treated as the same place by the
// nearby feed.
func Cell(p GeoPoint, precision uint) string {
	return geohash.EncodeWithPrecision(p.Latitude, p.Longitude, precision)
}
