package osm2sidewalk

import (
	"math"
)

const (
	earthRadius = 6371
)

var (
	// pi is kept at the precision the reference numbers were produced with (not math.Pi)
	pi    = 3.1415926536
	toRad = pi / 180.0
	toDeg = 180.0 / pi
)

// difference returns absolute difference of two values
func difference(a, b float64) float64 {
	return math.Max(a, b) - math.Min(a, b)
}

// Distance returns spherical distance between two points (kilometers).
//
// It is a chord based approximation working on sines/cosines of coordinates rather than
// the canonical haversine. Keep the formula as is: sidewalk offsets and stored lengths depend on it.
// The explicit float64 conversions forbid fused multiply-add so results are the same on every platform.
func Distance(p, q Location) float64 {
	lat1 := (p.Lat - q.Lat) * toRad
	lon1 := p.Lon * toRad
	lon2 := q.Lon * toRad
	dz := math.Sin(lon1) - math.Sin(lon2)
	dx := float64(math.Cos(lat1)*math.Cos(lon1)) - math.Cos(lon2)
	dy := math.Sin(lat1) * math.Cos(lon1)
	sum := float64(dx*dx) + float64(dy*dy) + float64(dz*dz)
	return math.Asin(math.Sqrt(sum)/2) * 2 * earthRadius
}

// Bearing returns clockwise angle from north between two points, degrees in [0, 360).
//
// Planar ratio of coordinate differences is used, not a spherical bearing.
// When both points have the same latitude the ratio is infinite and the result is 90 or 270.
// Identical points give NaN: callers never pass them.
func Bearing(p, q Location) float64 {
	dLon := difference(p.Lon, q.Lon)
	dLat := difference(p.Lat, q.Lat)
	raw := math.Atan(dLon/dLat) * toDeg
	switch {
	case p.Lat > q.Lat && p.Lon < q.Lon:
		return 180 - raw
	case p.Lat > q.Lat:
		return raw + 180
	case p.Lon > q.Lon:
		return 360 - raw
	}
	return raw
}

// InverseOffset returns longitude and latitude deltas (degrees) matching given distance (kilometers) at given latitude
func InverseOffset(lat, distance float64) (float64, float64) {
	dLat := distance / earthRadius
	dLon := math.Asin(math.Sin(dLat) / math.Cos(lat*toRad))
	return dLon * toDeg, dLat * toDeg
}

// destination moves origin by distance (kilometers) towards bearing (degrees)
func destination(origin Location, bearing, distance float64) Location {
	dLon, dLat := InverseOffset(origin.Lat, distance)
	return Location{
		Lon: origin.Lon + math.Sin(bearing*toRad)*dLon,
		Lat: origin.Lat + math.Cos(bearing*toRad)*dLat,
	}
}

// OffsetPoint returns point at given distance from A, perpendicular to bearing A->B on requested side
func OffsetPoint(a, b Location, distance float64, side Side) Location {
	orientation := Bearing(a, b)
	if side == SIDE_LEFT {
		orientation -= 90
	} else {
		orientation += 90
	}
	return destination(a, orientation, distance)
}

// ParallelSegment returns segment parallel to A->B on requested side.
// End point is computed walking backward from B, hence the flipped side.
func ParallelSegment(a, b Location, distance float64, side Side) (Location, Location) {
	return OffsetPoint(a, b, distance, side), OffsetPoint(b, a, distance, side.Opposite())
}

// OrthogonalLine returns segment crossing A perpendicular to A->B: from its left point to its right point
func OrthogonalLine(a, b Location, distance float64) (Location, Location) {
	return OffsetPoint(a, b, distance, SIDE_LEFT), OffsetPoint(a, b, distance, SIDE_RIGHT)
}

// TurningAngle returns angle between bearings vertex->next and vertex->prev, degrees in [0, 360).
// 180 means straight line, greater values are right turns, lesser values are left turns.
func TurningAngle(prev, vertex, next Location) float64 {
	alpha := Bearing(vertex, next) - Bearing(vertex, prev)
	if alpha < 0 {
		alpha += 360
	}
	return alpha
}

// Subdivide returns points along chord A->B spaced by step (kilometers).
// First point is at step from A, B itself is never included.
func Subdivide(a, b Location, step float64) []Location {
	dist := Distance(a, b)
	if step <= 0 || dist == 0 {
		return nil
	}
	increment := step / dist
	result := []Location{}
	for fraction := increment; fraction < 1; fraction += increment {
		result = append(result, pointOnSegmentByFraction(a, b, fraction))
	}
	return result
}

// LineLength returns length for given line (kilometers)
func LineLength(line []Location) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += Distance(line[i-1], line[i])
	}
	return totalLength
}

// pointOnSegmentByFraction returns a point on given segment (Euclidean: Lon == X, Lat == Y)
func pointOnSegmentByFraction(p, q Location, fraction float64) Location {
	return Location{
		Lon: (1-fraction)*p.Lon + (fraction * q.Lon),
		Lat: (1-fraction)*p.Lat + (fraction * q.Lat),
	}
}

// intersect returns intersection point of two lines passing through p1-p2 and p3-p4
// Note: Euclidean space
func intersect(p1, p2, p3, p4 Location) (Location, bool) {
	a1 := p2.Lat - p1.Lat
	b1 := p1.Lon - p2.Lon
	c1 := a1*p1.Lon + b1*p1.Lat
	a2 := p4.Lat - p3.Lat
	b2 := p3.Lon - p4.Lon
	c2 := a2*p3.Lon + b2*p3.Lat

	det := a1*b2 - a2*b1
	if det == 0 {
		return Location{}, false
	}
	return Location{
		Lon: (b2*c1 - b1*c2) / det,
		Lat: (a1*c2 - a2*c1) / det,
	}, true
}

// segmentsCross checks if segments p1-p2 and p3-p4 cross in their interiors and returns crossing point.
// Touching at end points and collinear overlaps are not crossings.
// Note: Euclidean space
func segmentsCross(p1, p2, p3, p4 Location) (Location, bool) {
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)
	if d1*d2 >= 0 || d3*d4 >= 0 {
		return Location{}, false
	}
	return intersect(p1, p2, p3, p4)
}

// orientation returns sign of cross product (b - a) x (c - a)
func orientation(a, b, c Location) float64 {
	v := (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
