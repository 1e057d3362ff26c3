package osm2sidewalk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingGraphShortestPath(t *testing.T) {
	a := Location{0, 0}
	b := Location{0.01, 0}
	c := Location{0.01, 0.01}
	d := Location{0.03, 0.03}
	net, err := UnionNetwork(CATEGORY_SIDEWALK, []Geometry{
		mustLine(t, a, b, c),
		mustLine(t, a, Location{0, 0.02}, c),
		mustLine(t, c, d),
	})
	require.NoError(t, err)

	graph, err := NewRoutingGraph(net, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, graph.NumVertices())

	cost, path, err := graph.ShortestPath(a, d)
	require.NoError(t, err)
	expected := Distance(a, b) + Distance(b, c) + Distance(c, d)
	assert.InDelta(t, expected, cost, 1e-9)
	require.Len(t, path, 4)
	assert.Equal(t, a, path[0])
	assert.Equal(t, d, path[3])

	_, _, err = graph.ShortestPath(a, Location{5, 5})
	assert.Error(t, err)
}

func TestRoutingGraphDisconnected(t *testing.T) {
	a := Location{0, 0}
	b := Location{0.01, 0}
	c := Location{1, 1}
	d := Location{1.01, 1}
	net, err := UnionNetwork(CATEGORY_SIDEWALK, []Geometry{mustLine(t, a, b), mustLine(t, c, d)})
	require.NoError(t, err)
	graph, err := NewRoutingGraph(net, nil)
	require.NoError(t, err)
	_, _, err = graph.ShortestPath(a, d)
	assert.Error(t, err)
}

func TestRoutingGraphExport(t *testing.T) {
	net, err := UnionNetwork(CATEGORY_SIDEWALK, []Geometry{
		mustLine(t, Location{0, 0}, Location{0.01, 0}, Location{0.01, 0.01}),
	})
	require.NoError(t, err)
	graph, err := NewRoutingGraph(net, nil)
	require.NoError(t, err)
	graph.Contract()

	dir := t.TempDir()
	require.NoError(t, graph.ExportToCSV(dir, "test", GEOM_FORMAT_WKT))

	edges := readCSV(t, filepath.Join(dir, "test_graph_edges.csv"))
	assert.Len(t, edges, 3)
	vertices := readCSV(t, filepath.Join(dir, "test_graph_vertices.csv"))
	assert.Len(t, vertices, 4)
	_, err = os.Stat(filepath.Join(dir, "test_graph_shortcuts.csv"))
	assert.NoError(t, err)
}
