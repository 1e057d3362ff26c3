package osm2sidewalk

import (
	"github.com/pkg/errors"
)

// LocationLookup resolves node identifiers into locations
type LocationLookup interface {
	Location(id NodeID) (Location, bool)
}

// LocationMap is in-memory LocationLookup
type LocationMap map[NodeID]Location

// Location implements LocationLookup
func (m LocationMap) Location(id NodeID) (Location, bool) {
	loc, ok := m[id]
	return loc, ok
}

// CrossingPredicate tells whether node is a pedestrian crossing
type CrossingPredicate func(id NodeID) bool

// NodeConnection is one directed incidence of a road at a node
type NodeConnection struct {
	Neighbor   NodeID
	Road       RoadID
	IsCrossing bool    // Neighbor is a crossing node
	Forward    bool    // Road runs from the node towards Neighbor
	Bearing    float64 // From the node to Neighbor
}

// AdjacencyRegistry keeps incident connections of every node ordered clockwise.
//
// Sequences are sorted by bearing in non-increasing order; equal bearings keep registration order.
type AdjacencyRegistry struct {
	locations   LocationLookup
	index       map[NodeID]int
	nodes       []NodeID
	connections [][]NodeConnection
	crossings   map[NodeID]struct{}
}

// NewAdjacencyRegistry creates empty registry
func NewAdjacencyRegistry(locations LocationLookup) *AdjacencyRegistry {
	return &AdjacencyRegistry{
		locations: locations,
		index:     make(map[NodeID]int),
		crossings: make(map[NodeID]struct{}),
	}
}

// Register adds connection node->neighbor and neighbor->node for given road.
// Pairs sharing the same location are skipped since no bearing exists between them.
func (reg *AdjacencyRegistry) Register(node, neighbor NodeID, road RoadID, isCrossing bool) error {
	nodeLoc, ok := reg.locations.Location(node)
	if !ok {
		return newBuildError(ErrMissingLocation, 0, node, nil)
	}
	neighborLoc, ok := reg.locations.Location(neighbor)
	if !ok {
		return newBuildError(ErrMissingLocation, 0, neighbor, nil)
	}
	if nodeLoc == neighborLoc {
		return nil
	}
	if isCrossing {
		reg.crossings[neighbor] = struct{}{}
	}
	reg.append(node, NodeConnection{
		Neighbor:   neighbor,
		Road:       road,
		IsCrossing: isCrossing,
		Forward:    true,
		Bearing:    Bearing(nodeLoc, neighborLoc),
	})
	reg.append(neighbor, NodeConnection{
		Neighbor:   node,
		Road:       road,
		IsCrossing: reg.IsCrossing(node),
		Forward:    false,
		Bearing:    Bearing(neighborLoc, nodeLoc),
	})
	return nil
}

// MarkCrossing flags node as crossing even if it was never registered as a neighbor
func (reg *AdjacencyRegistry) MarkCrossing(node NodeID) {
	reg.crossings[node] = struct{}{}
}

func (reg *AdjacencyRegistry) append(node NodeID, conn NodeConnection) {
	idx, ok := reg.index[node]
	if !ok {
		idx = len(reg.nodes)
		reg.index[node] = idx
		reg.nodes = append(reg.nodes, node)
		reg.connections = append(reg.connections, nil)
	}
	reg.connections[idx] = append(reg.connections[idx], conn)
	orderClockwise(reg.connections[idx])
}

// orderClockwise moves the last connection back while its predecessor has lesser bearing.
// Sequence before the last element must already be ordered.
func orderClockwise(seq []NodeConnection) {
	for i := len(seq) - 1; i > 0; i-- {
		if !(seq[i-1].Bearing < seq[i].Bearing) {
			break
		}
		seq[i-1], seq[i] = seq[i], seq[i-1]
	}
}

// Connections returns ordered copy of connections of node
func (reg *AdjacencyRegistry) Connections(node NodeID) []NodeConnection {
	idx, ok := reg.index[node]
	if !ok {
		return nil
	}
	conns := make([]NodeConnection, len(reg.connections[idx]))
	copy(conns, reg.connections[idx])
	return conns
}

// Degree returns number of connections of node
func (reg *AdjacencyRegistry) Degree(node NodeID) int {
	idx, ok := reg.index[node]
	if !ok {
		return 0
	}
	return len(reg.connections[idx])
}

// IsCrossing checks if node has been flagged as crossing
func (reg *AdjacencyRegistry) IsCrossing(node NodeID) bool {
	_, ok := reg.crossings[node]
	return ok
}

// Nodes returns registered nodes in order of first registration
func (reg *AdjacencyRegistry) Nodes() []NodeID {
	nodes := make([]NodeID, len(reg.nodes))
	copy(nodes, reg.nodes)
	return nodes
}

// Location returns location of registered node
func (reg *AdjacencyRegistry) Location(node NodeID) (Location, error) {
	loc, ok := reg.locations.Location(node)
	if !ok {
		return Location{}, errors.Wrapf(ErrMissingLocation, "node %d", node)
	}
	return loc, nil
}
