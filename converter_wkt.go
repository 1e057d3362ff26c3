package osm2sidewalk

import (
	"github.com/paulmach/orb/encoding/wkt"
)

// PrepareWKTLinestring returns WKT representation of LineString
func PrepareWKTLinestring(pts []Location) string {
	return wkt.MarshalString(lineToOrb(pts))
}

// PrepareWKTPoint returns WKT representation of Point
func PrepareWKTPoint(pt Location) string {
	return wkt.MarshalString(pt.Point())
}
