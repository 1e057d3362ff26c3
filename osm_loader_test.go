package osm2sidewalk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOSMXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="55.7500" lon="37.6000" version="1"/>
  <node id="2" lat="55.7500" lon="37.6010" version="1"/>
  <node id="3" lat="55.7510" lon="37.6005" version="1"/>
  <node id="4" lat="55.7500" lon="37.6005" version="1">
    <tag k="highway" v="crossing"/>
  </node>
  <node id="5" lat="55.7490" lon="37.6005" version="1"/>
  <node id="99" lat="55.0000" lon="37.0000" version="1"/>
  <way id="10" version="1">
    <nd ref="1"/>
    <nd ref="4"/>
    <nd ref="2"/>
    <tag k="highway" v="residential"/>
    <tag k="name" v="Test street"/>
    <tag k="lanes" v="2"/>
  </way>
  <way id="20" version="1">
    <nd ref="3"/>
    <nd ref="4"/>
    <nd ref="5"/>
    <tag k="highway" v="footway"/>
  </way>
  <way id="30" version="1">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <nd ref="1"/>
    <tag k="building" v="yes"/>
  </way>
</osm>
`

func writeFixture(t *testing.T, name string, compress bool) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), name)
	file, err := os.Create(fileName)
	require.NoError(t, err)
	defer file.Close()
	if !compress {
		_, err = file.WriteString(testOSMXML)
		require.NoError(t, err)
		return fileName
	}
	writer, err := bzip2.NewWriter(file, &bzip2.WriterConfig{Level: bzip2.BestSpeed})
	require.NoError(t, err)
	_, err = writer.Write([]byte(testOSMXML))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return fileName
}

func TestOSMLoaderXML(t *testing.T) {
	loader := NewOSMLoader(writeFixture(t, "sample.osm", false))
	data, err := loader.Load(context.Background())
	require.NoError(t, err)

	// Unreferenced node is dropped
	assert.Len(t, data.Locations, 5)
	_, ok := data.Locations[99]
	assert.False(t, ok)
	assert.True(t, data.IsCrossing(4))
	assert.False(t, data.IsCrossing(1))

	require.Len(t, data.Requests, 3)
	street := data.Requests[0]
	assert.Equal(t, CATEGORY_VEHICLE, street.Category)
	assert.Equal(t, []NodeID{1, 4, 2}, street.Nodes)
	assert.Equal(t, int64(10), street.Attributes.WayID)
	assert.Equal(t, "Test street", street.Attributes.Name)
	assert.Equal(t, 2, street.Attributes.Lanes)
	assert.Equal(t, SIDEWALK_BOTH, street.Attributes.Sidewalk)

	// Footway is split at the crossing node which belongs to both pieces
	assert.Equal(t, CATEGORY_PEDESTRIAN, data.Requests[1].Category)
	assert.Equal(t, []NodeID{3, 4}, data.Requests[1].Nodes)
	assert.Equal(t, []NodeID{4, 5}, data.Requests[2].Nodes)
	assert.Equal(t, int64(20), data.Requests[2].Attributes.WayID)
}

func TestOSMLoaderNoSplit(t *testing.T) {
	loader := NewOSMLoader(writeFixture(t, "sample.xml", false), WithSplitPedestrian(false))
	data, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Requests, 2)
	assert.Equal(t, []NodeID{3, 4, 5}, data.Requests[1].Nodes)
}

func TestOSMLoaderBzip2(t *testing.T) {
	loader := NewOSMLoader(writeFixture(t, "sample.osm.bz2", true))
	data, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Requests, 3)
	assert.Len(t, data.Locations, 5)
}

func TestOSMLoaderCustomProfile(t *testing.T) {
	profile := DefaultProfile()
	profile.PedestrianHighways = []string{}
	require.NoError(t, profile.compile())
	loader := NewOSMLoader(writeFixture(t, "sample.osm", false), WithProfile(profile))
	data, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Requests, 1)
	assert.Equal(t, CATEGORY_VEHICLE, data.Requests[0].Category)
	// Nodes of dropped ways are not collected
	assert.Len(t, data.Locations, 3)
}

func TestOSMLoaderErrors(t *testing.T) {
	_, err := NewOSMLoader(filepath.Join(t.TempDir(), "missing.osm")).Load(context.Background())
	assert.Error(t, err)

	fileName := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(fileName, []byte("a;b"), 0o644))
	_, err = NewOSMLoader(fileName).Load(context.Background())
	assert.Error(t, err)
}

func TestSplitAt(t *testing.T) {
	isCrossing := func(id NodeID) bool { return id == 2 || id == 4 || id == 5 }
	pieces := splitAt([]NodeID{1, 2, 3, 4, 5}, isCrossing)
	assert.Equal(t, [][]NodeID{{1, 2}, {2, 3, 4}, {4, 5}}, pieces)

	// End points never split
	assert.Equal(t, [][]NodeID{{2, 3}}, splitAt([]NodeID{2, 3}, isCrossing))
}

func TestBuildFromOSM(t *testing.T) {
	parser := NewParser(writeFixture(t, "sample.osm", false))
	res, err := parser.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Roads, 3)
	// Residential road and both footway pieces
	stripes := offsetsOf(res.Offsets, OFFSET_CROSSING)
	require.Len(t, stripes, 3)
	for _, stripe := range stripes {
		assert.Equal(t, NodeID(4), stripe.Node)
	}
	assert.False(t, res.Network(CATEGORY_SIDEWALK).IsEmpty())
	assert.NotEmpty(t, res.Intersections)
}
