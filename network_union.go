package osm2sidewalk

import (
	sfgeom "github.com/peterstace/simplefeatures/geom"
	"github.com/peterstace/simplefeatures/rtree"
	"github.com/pkg/errors"
)

// NetworkGeometry is merged geometry of one category. Immutable once produced
type NetworkGeometry struct {
	Category Category
	geom     sfgeom.Geometry
}

// UnionNetwork merges geometries of one category into single noded network.
// Empty input gives empty network. Invalid or self-intersecting lines make it fail
func UnionNetwork(category Category, geoms []Geometry) (NetworkGeometry, error) {
	if len(geoms) == 0 {
		return NetworkGeometry{Category: category}, nil
	}
	parts := make([]sfgeom.Geometry, 0, len(geoms))
	for i := range geoms {
		part, err := toSimpleFeature(geoms[i])
		if err != nil {
			return NetworkGeometry{}, errors.Wrapf(err, "Can't prepare geometry #%d of %s network", i, category)
		}
		parts = append(parts, part)
	}
	merged, err := sfgeom.UnionMany(parts)
	if err != nil {
		return NetworkGeometry{}, newBuildError(ErrUnionFailure, 0, 0, errors.Wrapf(err, "Can't union %s network", category))
	}
	return NetworkGeometry{Category: category, geom: merged}, nil
}

func toSimpleFeature(g Geometry) (sfgeom.Geometry, error) {
	switch g.Kind() {
	case GEOMETRY_POINT:
		loc, _ := g.AsPoint()
		if !loc.isFinite() {
			return sfgeom.Geometry{}, errors.Wrap(ErrInvalidGeometry, "non-finite point")
		}
		return sfgeom.XY{X: loc.Lon, Y: loc.Lat}.AsPoint().AsGeometry(), nil
	case GEOMETRY_LINE:
		line, _ := g.AsLine()
		if err := checkSimple(line); err != nil {
			return sfgeom.Geometry{}, err
		}
		flat := make([]float64, 0, 2*len(line))
		for _, loc := range line {
			flat = append(flat, loc.Lon, loc.Lat)
		}
		ls := sfgeom.NewLineString(sfgeom.NewSequence(flat, sfgeom.DimXY))
		if err := ls.Validate(); err != nil {
			return sfgeom.Geometry{}, errors.Wrap(ErrInvalidGeometry, err.Error())
		}
		return ls.AsGeometry(), nil
	}
	return sfgeom.Geometry{}, errors.Wrap(ErrInvalidGeometry, "empty geometry")
}

// checkSimple returns error if two non-adjacent segments of line cross each other.
// Closed lines may touch at their end points.
func checkSimple(line []Location) error {
	segmentsNum := len(line) - 1
	if segmentsNum < 3 {
		return nil
	}
	items := make([]rtree.BulkItem, segmentsNum)
	for i := 0; i < segmentsNum; i++ {
		items[i] = rtree.BulkItem{Box: segmentBox(line[i], line[i+1]), RecordID: i}
	}
	tree := rtree.BulkLoad(items)
	closed := line[0] == line[segmentsNum]
	for i := 0; i < segmentsNum; i++ {
		err := tree.RangeSearch(items[i].Box, func(j int) error {
			if j <= i+1 {
				return nil
			}
			if closed && i == 0 && j == segmentsNum-1 {
				return nil
			}
			if crossing, ok := segmentsCross(line[i], line[i+1], line[j], line[j+1]); ok {
				return errors.Wrapf(ErrInvalidGeometry, "self-intersection at (%f %f)", crossing.Lon, crossing.Lat)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func segmentBox(p, q Location) rtree.Box {
	return rtree.Box{
		MinX: minFloat(p.Lon, q.Lon),
		MinY: minFloat(p.Lat, q.Lat),
		MaxX: maxFloat(p.Lon, q.Lon),
		MaxY: maxFloat(p.Lat, q.Lat),
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// IsEmpty checks if network has no geometry
func (net NetworkGeometry) IsEmpty() bool {
	return net.geom.IsEmpty()
}

// WKT returns WKT representation of network
func (net NetworkGeometry) WKT() string {
	return net.geom.AsText()
}

// Geometries returns network split into lines and points
func (net NetworkGeometry) Geometries() []Geometry {
	result := []Geometry{}
	collectGeometries(net.geom, &result)
	return result
}

// Lines returns lines of network
func (net NetworkGeometry) Lines() [][]Location {
	lines := [][]Location{}
	for _, g := range net.Geometries() {
		if line, ok := g.AsLine(); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// TopologicallyEquals compares point sets of two networks
func (net NetworkGeometry) TopologicallyEquals(other NetworkGeometry) (bool, error) {
	if net.IsEmpty() || other.IsEmpty() {
		return net.IsEmpty() == other.IsEmpty(), nil
	}
	eq, err := sfgeom.Equals(net.geom, other.geom)
	if err != nil {
		return false, errors.Wrap(err, "Can't compare networks")
	}
	return eq, nil
}

func collectGeometries(g sfgeom.Geometry, result *[]Geometry) {
	switch g.Type() {
	case sfgeom.TypePoint:
		if xy, ok := g.MustAsPoint().XY(); ok {
			*result = append(*result, NewPointGeometry(Location{Lon: xy.X, Lat: xy.Y}))
		}
	case sfgeom.TypeMultiPoint:
		mp := g.MustAsMultiPoint()
		for i := 0; i < mp.NumPoints(); i++ {
			collectGeometries(mp.PointN(i).AsGeometry(), result)
		}
	case sfgeom.TypeLineString:
		if line, ok := sequenceToLine(g.MustAsLineString().Coordinates()); ok {
			*result = append(*result, Geometry{kind: GEOMETRY_LINE, coords: line})
		}
	case sfgeom.TypeMultiLineString:
		mls := g.MustAsMultiLineString()
		for i := 0; i < mls.NumLineStrings(); i++ {
			collectGeometries(mls.LineStringN(i).AsGeometry(), result)
		}
	case sfgeom.TypeGeometryCollection:
		gc := g.MustAsGeometryCollection()
		for i := 0; i < gc.NumGeometries(); i++ {
			collectGeometries(gc.GeometryN(i), result)
		}
	}
}

func sequenceToLine(seq sfgeom.Sequence) ([]Location, bool) {
	if seq.Length() < 2 {
		return nil, false
	}
	line := make([]Location, seq.Length())
	for i := range line {
		xy := seq.GetXY(i)
		line[i] = Location{Lon: xy.X, Lat: xy.Y}
	}
	return line, true
}
