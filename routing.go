package osm2sidewalk

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RoutingGraph is contraction hierarchies graph over segments of merged network.
// Vertices are distinct coordinates, weights are distances in kilometers.
type RoutingGraph struct {
	graph      ch.Graph
	labels     map[Location]int64
	locations  []Location
	edges      [][2]int64
	contracted bool
	logger     *zap.Logger
}

// NewRoutingGraph builds undirected graph from lines of network
func NewRoutingGraph(net NetworkGeometry, logger *zap.Logger) (*RoutingGraph, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rg := &RoutingGraph{
		graph:     ch.Graph{},
		labels:    make(map[Location]int64),
		locations: []Location{},
		edges:     [][2]int64{},
		logger:    logger,
	}
	seen := make(map[[2]int64]struct{})
	for _, line := range net.Lines() {
		for i := 1; i < len(line); i++ {
			source, err := rg.vertex(line[i-1])
			if err != nil {
				return nil, err
			}
			target, err := rg.vertex(line[i])
			if err != nil {
				return nil, err
			}
			if source == target {
				continue
			}
			if _, ok := seen[[2]int64{source, target}]; ok {
				continue
			}
			cost := Distance(line[i-1], line[i])
			if err := rg.graph.AddEdge(source, target, cost); err != nil {
				return nil, errors.Wrap(err, "Can not wrap Source and Target vertices as Edge")
			}
			if err := rg.graph.AddEdge(target, source, cost); err != nil {
				return nil, errors.Wrap(err, "Can not wrap Target and Source vertices as Edge")
			}
			seen[[2]int64{source, target}] = struct{}{}
			seen[[2]int64{target, source}] = struct{}{}
			rg.edges = append(rg.edges, [2]int64{source, target})
		}
	}
	logger.Info("Routing graph prepared", zap.Int("vertices", len(rg.locations)), zap.Int("edges", len(rg.edges)))
	return rg, nil
}

func (rg *RoutingGraph) vertex(loc Location) (int64, error) {
	if label, ok := rg.labels[loc]; ok {
		return label, nil
	}
	label := int64(len(rg.locations))
	if err := rg.graph.CreateVertex(label); err != nil {
		return -1, errors.Wrap(err, "Can not create vertex")
	}
	rg.labels[loc] = label
	rg.locations = append(rg.locations, loc)
	return label, nil
}

// NumVertices returns number of distinct coordinates
func (rg *RoutingGraph) NumVertices() int {
	return len(rg.locations)
}

// Contract prepares contraction hierarchies
func (rg *RoutingGraph) Contract() {
	if rg.contracted {
		return
	}
	st := time.Now()
	rg.graph.PrepareContractionHierarchies()
	rg.contracted = true
	rg.logger.Info("Contraction done", zap.Duration("elapsed", time.Since(st)))
}

// ShortestPath returns walking distance (kilometers) and path between two network coordinates
func (rg *RoutingGraph) ShortestPath(from, to Location) (float64, []Location, error) {
	source, ok := rg.labels[from]
	if !ok {
		return -1, nil, errors.Errorf("Location %s is not a vertex of graph", from)
	}
	target, ok := rg.labels[to]
	if !ok {
		return -1, nil, errors.Errorf("Location %s is not a vertex of graph", to)
	}
	rg.Contract()
	cost, labels := rg.graph.ShortestPath(source, target)
	if cost < 0 {
		return -1, nil, errors.Errorf("No path between %s and %s", from, to)
	}
	path := make([]Location, len(labels))
	for i, label := range labels {
		path[i] = rg.locations[label]
	}
	return cost, path, nil
}

// ExportToCSV writes "<prefix>_graph_edges.csv", "<prefix>_graph_vertices.csv" and,
// for contracted graph, "<prefix>_graph_shortcuts.csv"
func (rg *RoutingGraph) ExportToCSV(dir, prefix string, format GeomFormat) error {
	fnameEdges := filepath.Join(dir, fmt.Sprintf("%s_graph_edges.csv", prefix))
	fnameVertices := filepath.Join(dir, fmt.Sprintf("%s_graph_vertices.csv", prefix))
	fnameShortcuts := filepath.Join(dir, fmt.Sprintf("%s_graph_shortcuts.csv", prefix))

	file, writer, err := createCSV(fnameEdges)
	if err != nil {
		return err
	}
	// from_vertex_id;to_vertex_id;weight;geom
	if err = writer.Write([]string{"from_vertex_id", "to_vertex_id", "weight", "geom"}); err != nil {
		file.Close()
		return errors.Wrap(err, "Can't write header")
	}
	for _, edge := range rg.edges {
		segment := []Location{rg.locations[edge[0]], rg.locations[edge[1]]}
		geom, err := FormatGeometry(Geometry{kind: GEOMETRY_LINE, coords: segment}, format)
		if err != nil {
			file.Close()
			return err
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", edge[0]),
			fmt.Sprintf("%d", edge[1]),
			fmt.Sprintf("%f", Distance(segment[0], segment[1])),
			geom,
		})
		if err != nil {
			file.Close()
			return errors.Wrap(err, "Can't write edge")
		}
	}
	if err := closeCSV(file, writer); err != nil {
		return err
	}

	if err := rg.exportVertices(fnameVertices, format); err != nil {
		return err
	}

	if rg.contracted {
		if err := rg.graph.ExportShortcutsToFile(fnameShortcuts); err != nil {
			return errors.Wrap(err, "Can't export shortcuts")
		}
	}
	return nil
}

func (rg *RoutingGraph) exportVertices(fname string, format GeomFormat) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'
	// vertex_id;order_pos;importance;geom
	err = writer.Write([]string{"vertex_id", "order_pos", "importance", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	vertices := rg.graph.Vertices
	for i := 0; i < len(vertices); i++ {
		label := vertices[i].Label
		geom, err := FormatGeometry(NewPointGeometry(rg.locations[label]), format)
		if err != nil {
			return err
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", label),
			fmt.Sprintf("%d", vertices[i].OrderPos()),
			fmt.Sprintf("%d", vertices[i].Importance()),
			geom,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write vertex")
		}
	}
	return nil
}
