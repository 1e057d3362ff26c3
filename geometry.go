package osm2sidewalk

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Location representation of point on Earth (WGS84 degrees)
type Location struct {
	Lon float64
	Lat float64
}

// String returns pretty printed value for Location
func (loc Location) String() string {
	return fmt.Sprintf("Lon: %f | Lat: %f", loc.Lon, loc.Lat)
}

// Point returns orb representation of Location
func (loc Location) Point() orb.Point {
	return orb.Point{loc.Lon, loc.Lat}
}

func (loc Location) isFinite() bool {
	return !math.IsNaN(loc.Lon) && !math.IsNaN(loc.Lat) && !math.IsInf(loc.Lon, 0) && !math.IsInf(loc.Lat, 0)
}

// Side of a line relative to its direction
type Side uint16

const (
	SIDE_LEFT = Side(iota + 1)
	SIDE_RIGHT
)

func (iotaIdx Side) String() string {
	return [...]string{"left", "right"}[iotaIdx-1]
}

// Opposite returns other side
func (iotaIdx Side) Opposite() Side {
	if iotaIdx == SIDE_LEFT {
		return SIDE_RIGHT
	}
	return SIDE_LEFT
}

type GeometryKind uint16

const (
	GEOMETRY_POINT = GeometryKind(iota + 1)
	GEOMETRY_LINE
)

func (iotaIdx GeometryKind) String() string {
	return [...]string{"point", "line"}[iotaIdx-1]
}

// Geometry is either a single point or a line.
// Coordinates are copied in and out, so a Geometry never changes after construction.
type Geometry struct {
	kind   GeometryKind
	coords []Location
}

// NewPointGeometry wraps single location
func NewPointGeometry(loc Location) Geometry {
	return Geometry{kind: GEOMETRY_POINT, coords: []Location{loc}}
}

// NewLineGeometry wraps line. Line must contain at least two distinct finite locations
func NewLineGeometry(line []Location) (Geometry, error) {
	if len(line) < 2 {
		return Geometry{}, errors.Wrapf(ErrInvalidGeometry, "line has %d point(s)", len(line))
	}
	distinct := false
	for i := range line {
		if !line[i].isFinite() {
			return Geometry{}, errors.Wrapf(ErrInvalidGeometry, "non-finite coordinate at position %d", i)
		}
		if line[i] != line[0] {
			distinct = true
		}
	}
	if !distinct {
		return Geometry{}, errors.Wrap(ErrInvalidGeometry, "line has less than 2 distinct points")
	}
	return Geometry{kind: GEOMETRY_LINE, coords: copyLine(line)}, nil
}

// Kind returns variant of geometry
func (g Geometry) Kind() GeometryKind {
	return g.kind
}

// AsPoint returns location if geometry is a point
func (g Geometry) AsPoint() (Location, bool) {
	if g.kind != GEOMETRY_POINT {
		return Location{}, false
	}
	return g.coords[0], true
}

// AsLine returns copy of coordinates if geometry is a line
func (g Geometry) AsLine() ([]Location, bool) {
	if g.kind != GEOMETRY_LINE {
		return nil, false
	}
	return copyLine(g.coords), true
}

// NumPoints returns number of coordinates
func (g Geometry) NumPoints() int {
	return len(g.coords)
}

func lineToOrb(line []Location) orb.LineString {
	ls := make(orb.LineString, len(line))
	for i := range line {
		ls[i] = line[i].Point()
	}
	return ls
}
