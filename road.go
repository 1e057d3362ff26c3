package osm2sidewalk

import (
	"fmt"
)

// RoadID is index of road in the per-run arena
type RoadID int

// NodeID is external identifier of node (OSM node ID)
type NodeID int64

// Category of network geometry
type Category uint16

const (
	CATEGORY_VEHICLE = Category(iota + 1)
	CATEGORY_PEDESTRIAN
	CATEGORY_SIDEWALK
	// CATEGORY_WALK labels combined pedestrian and sidewalk network; no road or offset geometry carries it
	CATEGORY_WALK
)

func (iotaIdx Category) String() string {
	return [...]string{"vehicle", "pedestrian", "sidewalk", "walk"}[iotaIdx-1]
}

// Categories lists every category of road and offset geometries in output order
var Categories = []Category{CATEGORY_VEHICLE, CATEGORY_PEDESTRIAN, CATEGORY_SIDEWALK}

// SidewalkPresence tells which sides of a road carry a sidewalk
type SidewalkPresence uint16

const (
	SIDEWALK_NONE = SidewalkPresence(iota + 1)
	SIDEWALK_LEFT
	SIDEWALK_RIGHT
	SIDEWALK_BOTH
)

func (iotaIdx SidewalkPresence) String() string {
	return [...]string{"none", "left", "right", "both"}[iotaIdx-1]
}

// Has checks if sidewalk exists on given side
func (iotaIdx SidewalkPresence) Has(side Side) bool {
	switch iotaIdx {
	case SIDEWALK_BOTH:
		return true
	case SIDEWALK_LEFT:
		return side == SIDE_LEFT
	case SIDEWALK_RIGHT:
		return side == SIDE_RIGHT
	}
	return false
}

// RoadAttributes are descriptive attributes delivered by classification
type RoadAttributes struct {
	Name     string
	WayID    int64
	Lanes    int
	Sidewalk SidewalkPresence
	Highway  string
}

// RoadRequest asks builder to construct RoadEntity
type RoadRequest struct {
	Nodes      []NodeID
	Category   Category
	Attributes RoadAttributes
}

// RoadEntity is a classified road centerline. Never modified after insertion into Builder.
type RoadEntity struct {
	ID         RoadID
	Category   Category
	Attributes RoadAttributes
	nodes      []NodeID
	geom       []Location
	length     float64
}

// Nodes returns copy of node identifiers (one per vertex)
func (road *RoadEntity) Nodes() []NodeID {
	nodes := make([]NodeID, len(road.nodes))
	copy(nodes, road.nodes)
	return nodes
}

// Geometry returns road centerline
func (road *RoadEntity) Geometry() Geometry {
	return Geometry{kind: GEOMETRY_LINE, coords: road.geom}
}

// Length returns length of centerline (kilometers)
func (road *RoadEntity) Length() float64 {
	return road.length
}

// NeedsSidewalk checks if offset geometry has to be generated for road
func (road *RoadEntity) NeedsSidewalk() bool {
	return road.Category == CATEGORY_VEHICLE && road.Attributes.Sidewalk != 0 && road.Attributes.Sidewalk != SIDEWALK_NONE
}

// IsClosed checks if road ends at its first node
func (road *RoadEntity) IsClosed() bool {
	return len(road.nodes) > 3 && road.nodes[0] == road.nodes[len(road.nodes)-1]
}

// wayKey identifies source way. Roads of one way classified into both categories share it;
// roads without way identifier get their own key
func (road *RoadEntity) wayKey() int64 {
	if road.Attributes.WayID != 0 {
		return road.Attributes.WayID
	}
	return -int64(road.ID) - 1
}

func (road *RoadEntity) String() string {
	return fmt.Sprintf("road %d (way %d, %s, %d points)", road.ID, road.Attributes.WayID, road.Category, len(road.geom))
}
