package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LdDl/osm2sidewalk"
)

// sampleResult builds crossroad of two streets and a footway
func sampleResult(t *testing.T) *osm2sidewalk.Result {
	t.Helper()
	locations := osm2sidewalk.LocationMap{
		1: {Lon: -0.01, Lat: 0},
		2: {Lon: 0, Lat: 0},
		3: {Lon: 0.01, Lat: 0},
		4: {Lon: 0, Lat: -0.01},
		5: {Lon: 0.01, Lat: -0.01},
	}
	builder := osm2sidewalk.NewBuilder(locations)
	requests := []osm2sidewalk.RoadRequest{
		{
			Nodes:      []osm2sidewalk.NodeID{1, 2, 3},
			Category:   osm2sidewalk.CATEGORY_VEHICLE,
			Attributes: osm2sidewalk.RoadAttributes{WayID: 100, Name: "Main street", Highway: "residential", Lanes: 2, Sidewalk: osm2sidewalk.SIDEWALK_BOTH},
		},
		{
			Nodes:      []osm2sidewalk.NodeID{2, 4},
			Category:   osm2sidewalk.CATEGORY_VEHICLE,
			Attributes: osm2sidewalk.RoadAttributes{WayID: 200, Highway: "service", Sidewalk: osm2sidewalk.SIDEWALK_RIGHT},
		},
		{
			Nodes:      []osm2sidewalk.NodeID{4, 5},
			Category:   osm2sidewalk.CATEGORY_PEDESTRIAN,
			Attributes: osm2sidewalk.RoadAttributes{WayID: 300, Highway: "footway"},
		},
	}
	for _, req := range requests {
		_, err := builder.AddRoad(req)
		require.NoError(t, err)
	}
	res, err := builder.Build()
	require.NoError(t, err)
	return res
}

func TestNewRunID(t *testing.T) {
	first := NewRunID()
	second := NewRunID()
	assert.NotEqual(t, first, second)
	_, err := uuid.Parse(first)
	assert.NoError(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	assert.Error(t, err)
}

func TestNetworks(t *testing.T) {
	res := sampleResult(t)
	names, nets := networks(res)
	assert.Equal(t, []string{"vehicle", "pedestrian", "sidewalk", "walk"}, names)
	require.Len(t, nets, 4)
	for i := range nets {
		assert.False(t, nets[i].IsEmpty(), "network %s", names[i])
	}
}

func TestOffsetSide(t *testing.T) {
	assert.Equal(t, "left", offsetSide(osm2sidewalk.OffsetGeometry{Kind: osm2sidewalk.OFFSET_SIDEWALK, Side: osm2sidewalk.SIDE_LEFT}))
	assert.Equal(t, "", offsetSide(osm2sidewalk.OffsetGeometry{Kind: osm2sidewalk.OFFSET_CROSSING, Side: osm2sidewalk.SIDE_LEFT}))
}
