package osm2sidewalk

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLine(t *testing.T, pts ...Location) Geometry {
	t.Helper()
	geom, err := NewLineGeometry(pts)
	require.NoError(t, err)
	return geom
}

func TestUnionNetworkEmpty(t *testing.T) {
	net, err := UnionNetwork(CATEGORY_SIDEWALK, nil)
	require.NoError(t, err)
	assert.True(t, net.IsEmpty())
	assert.Equal(t, CATEGORY_SIDEWALK, net.Category)
	assert.Empty(t, net.Geometries())
}

func TestUnionNetworkNodesCrossingLines(t *testing.T) {
	horizontal := mustLine(t, Location{0, 0}, Location{2, 0})
	vertical := mustLine(t, Location{1, -1}, Location{1, 1})
	net, err := UnionNetwork(CATEGORY_VEHICLE, []Geometry{horizontal, vertical})
	require.NoError(t, err)
	assert.False(t, net.IsEmpty())
	// Both lines are split at the crossing point
	assert.Len(t, net.Lines(), 4)
}

func TestNetworkGeometriesMixedKinds(t *testing.T) {
	line := mustLine(t, Location{0, 0}, Location{1, 0})
	net, err := UnionNetwork(CATEGORY_SIDEWALK, []Geometry{line, NewPointGeometry(Location{5, 5})})
	require.NoError(t, err)
	geoms := net.Geometries()
	require.Len(t, geoms, 2)
	kinds := []GeometryKind{geoms[0].Kind(), geoms[1].Kind()}
	assert.ElementsMatch(t, []GeometryKind{GEOMETRY_POINT, GEOMETRY_LINE}, kinds)
	assert.Len(t, net.Lines(), 1)
}

func TestUnionNetworkIdempotent(t *testing.T) {
	geoms := []Geometry{
		mustLine(t, Location{0, 0}, Location{1, 0}, Location{1, 1}),
		mustLine(t, Location{0.5, -1}, Location{0.5, 1}),
		NewPointGeometry(Location{5, 5}),
	}
	first, err := UnionNetwork(CATEGORY_SIDEWALK, geoms)
	require.NoError(t, err)
	second, err := UnionNetwork(CATEGORY_SIDEWALK, first.Geometries())
	require.NoError(t, err)
	eq, err := first.TopologicallyEquals(second)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestUnionNetworkDuplicatesMerge(t *testing.T) {
	line := mustLine(t, Location{0, 0}, Location{1, 1})
	single, err := UnionNetwork(CATEGORY_PEDESTRIAN, []Geometry{line})
	require.NoError(t, err)
	double, err := UnionNetwork(CATEGORY_PEDESTRIAN, []Geometry{line, line})
	require.NoError(t, err)
	eq, err := single.TopologicallyEquals(double)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestUnionNetworkRejectsSelfIntersection(t *testing.T) {
	bowtie := Geometry{kind: GEOMETRY_LINE, coords: []Location{{0, 0}, {1, 1}, {1, 0}, {0, 1}}}
	_, err := UnionNetwork(CATEGORY_SIDEWALK, []Geometry{bowtie})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidGeometry))
}

func TestTopologicallyEqualsEmpty(t *testing.T) {
	empty := NetworkGeometry{Category: CATEGORY_SIDEWALK}
	other, err := UnionNetwork(CATEGORY_SIDEWALK, []Geometry{mustLine(t, Location{0, 0}, Location{1, 0})})
	require.NoError(t, err)

	eq, err := empty.TopologicallyEquals(NetworkGeometry{})
	require.NoError(t, err)
	assert.True(t, eq)
	eq, err = empty.TopologicallyEquals(other)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestCheckSimple(t *testing.T) {
	assert.NoError(t, checkSimple([]Location{{0, 0}, {1, 0}}))
	assert.NoError(t, checkSimple([]Location{{0, 0}, {1, 0}, {1, 1}, {0, 1}}))
	// Closed ring touches itself only at its end points
	assert.NoError(t, checkSimple([]Location{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}))

	err := checkSimple([]Location{{0, 0}, {1, 1}, {1, 0}, {0, 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidGeometry))

	err = checkSimple([]Location{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, -1}})
	assert.Error(t, err)
}

func TestNetworkWKT(t *testing.T) {
	net, err := UnionNetwork(CATEGORY_VEHICLE, []Geometry{mustLine(t, Location{0, 0}, Location{1, 0})})
	require.NoError(t, err)
	assert.Contains(t, net.WKT(), "LINESTRING")
}
