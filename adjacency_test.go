package osm2sidewalk

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// towards returns point lying at given bearing from origin (planar)
func towards(origin Location, bearing float64) Location {
	rad := bearing * math.Pi / 180
	return Location{Lon: origin.Lon + 0.01*math.Sin(rad), Lat: origin.Lat + 0.01*math.Cos(rad)}
}

func TestRegistryClockwiseOrder(t *testing.T) {
	center := Location{0, 0}
	locations := LocationMap{
		1: center,
		2: towards(center, 170),
		3: towards(center, 10),
		4: towards(center, 260),
	}
	reg := NewAdjacencyRegistry(locations)
	require.NoError(t, reg.Register(1, 2, 0, false))
	require.NoError(t, reg.Register(1, 3, 1, false))
	require.NoError(t, reg.Register(1, 4, 2, false))

	conns := reg.Connections(1)
	require.Len(t, conns, 3)
	assert.Equal(t, NodeID(4), conns[0].Neighbor)
	assert.Equal(t, NodeID(2), conns[1].Neighbor)
	assert.Equal(t, NodeID(3), conns[2].Neighbor)
	assert.InDelta(t, 260, conns[0].Bearing, 1e-6)
	assert.InDelta(t, 170, conns[1].Bearing, 1e-6)
	assert.InDelta(t, 10, conns[2].Bearing, 1e-6)
	assert.Equal(t, 3, reg.Degree(1))
}

func TestRegistrySortedInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	center := Location{0, 0}
	locations := LocationMap{1: center}
	reg := NewAdjacencyRegistry(locations)
	for i := 0; i < 50; i++ {
		neighbor := NodeID(i + 2)
		locations[neighbor] = towards(center, rnd.Float64()*360)
		require.NoError(t, reg.Register(1, neighbor, RoadID(i), false))

		conns := reg.Connections(1)
		require.Len(t, conns, i+1)
		for k := 1; k < len(conns); k++ {
			assert.GreaterOrEqual(t, conns[k-1].Bearing, conns[k].Bearing, "step %d position %d", i, k)
		}
	}
}

func TestRegistryEqualBearingsKeepOrder(t *testing.T) {
	locations := LocationMap{
		1: {0, 0},
		2: {0, 0.01},
		3: {0, 0.02},
	}
	reg := NewAdjacencyRegistry(locations)
	require.NoError(t, reg.Register(1, 2, 0, false))
	require.NoError(t, reg.Register(1, 3, 1, false))
	conns := reg.Connections(1)
	require.Len(t, conns, 2)
	assert.Equal(t, RoadID(0), conns[0].Road)
	assert.Equal(t, RoadID(1), conns[1].Road)
}

func TestRegistrySymmetric(t *testing.T) {
	locations := LocationMap{
		10: {0, 0},
		20: {0.01, 0.01},
	}
	reg := NewAdjacencyRegistry(locations)
	require.NoError(t, reg.Register(10, 20, 7, true))

	forward := reg.Connections(10)
	backward := reg.Connections(20)
	require.Len(t, forward, 1)
	require.Len(t, backward, 1)

	assert.Equal(t, NodeID(20), forward[0].Neighbor)
	assert.True(t, forward[0].Forward)
	assert.True(t, forward[0].IsCrossing)
	assert.InDelta(t, 45, forward[0].Bearing, 1e-6)

	assert.Equal(t, NodeID(10), backward[0].Neighbor)
	assert.False(t, backward[0].Forward)
	assert.False(t, backward[0].IsCrossing)
	assert.InDelta(t, 225, backward[0].Bearing, 1e-6)
	assert.Equal(t, RoadID(7), backward[0].Road)

	assert.True(t, reg.IsCrossing(20))
	assert.False(t, reg.IsCrossing(10))
	assert.Equal(t, []NodeID{10, 20}, reg.Nodes())
}

func TestRegistryMissingLocation(t *testing.T) {
	reg := NewAdjacencyRegistry(LocationMap{1: {0, 0}})
	err := reg.Register(1, 2, 0, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingLocation))
	buildErr, ok := err.(*BuildError)
	require.True(t, ok)
	assert.Equal(t, NodeID(2), buildErr.NodeID)
	assert.Equal(t, 0, reg.Degree(1))

	_, err = reg.Location(42)
	assert.True(t, errors.Is(err, ErrMissingLocation))
}

func TestRegistrySameLocationSkipped(t *testing.T) {
	reg := NewAdjacencyRegistry(LocationMap{1: {5, 5}, 2: {5, 5}})
	require.NoError(t, reg.Register(1, 2, 0, false))
	assert.Equal(t, 0, reg.Degree(1))
	assert.Equal(t, 0, reg.Degree(2))
	assert.Nil(t, reg.Connections(1))
}

func TestRegistryConnectionsAreCopies(t *testing.T) {
	reg := NewAdjacencyRegistry(LocationMap{1: {0, 0}, 2: {0, 1}})
	require.NoError(t, reg.Register(1, 2, 0, false))
	conns := reg.Connections(1)
	conns[0].Neighbor = 99
	assert.Equal(t, NodeID(2), reg.Connections(1)[0].Neighbor)
}
