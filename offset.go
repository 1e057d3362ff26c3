package osm2sidewalk

import (
	"fmt"
	"math"
)

// OffsetKind is kind of derived geometry
type OffsetKind uint16

const (
	OFFSET_SIDEWALK = OffsetKind(iota + 1)
	OFFSET_CROSSING
	OFFSET_CONNECTOR
)

func (iotaIdx OffsetKind) String() string {
	return [...]string{"sidewalk", "crossing", "connector"}[iotaIdx-1]
}

// OffsetGeometry is geometry derived from road centerline
type OffsetGeometry struct {
	Kind     OffsetKind
	Category Category
	Road     RoadID
	Node     NodeID // crossing or junction node, 0 for sidewalks
	Side     Side   // sidewalks only
	Geom     Geometry
}

const (
	// coordinates closer than that (degrees) are treated as one point while stitching
	stitchEpsilon = 1e-12
	// turning angles closer than that to 180 degrees are straight
	straightTolerance = 1e-6
)

// OffsetGenerator derives sidewalks, crossing stripes and junction connectors
type OffsetGenerator struct {
	registry          *AdjacencyRegistry
	roads             []*RoadEntity
	offset            float64
	crossingHalfWidth float64
	maxSegment        float64
	finished          map[string]struct{}
}

// NewOffsetGenerator creates generator over roads arena (indexed by RoadID).
// Distances are in kilometers; maxSegment <= 0 disables densification
func NewOffsetGenerator(registry *AdjacencyRegistry, roads []*RoadEntity, offset, crossingHalfWidth, maxSegment float64) *OffsetGenerator {
	if crossingHalfWidth <= 0 {
		crossingHalfWidth = offset
	}
	return &OffsetGenerator{
		registry:          registry,
		roads:             roads,
		offset:            offset,
		crossingHalfWidth: crossingHalfWidth,
		maxSegment:        maxSegment,
		finished:          make(map[string]struct{}),
	}
}

// Road returns sidewalks and crossing stripes of given road.
// Sidewalks are produced for vehicle roads which have them, stripes for those and for pedestrian ways
func (gen *OffsetGenerator) Road(road *RoadEntity) ([]OffsetGeometry, error) {
	result := []OffsetGeometry{}
	if road.NeedsSidewalk() {
		for _, piece := range gen.pieces(road) {
			for _, side := range []Side{SIDE_LEFT, SIDE_RIGHT} {
				if !road.Attributes.Sidewalk.Has(side) {
					continue
				}
				sidewalk := Densify(gen.Stitch(piece.line, side), gen.maxSegment)
				geom, err := NewLineGeometry(sidewalk)
				if err != nil {
					return nil, newBuildError(ErrInvalidGeometry, road.Attributes.WayID, piece.first, err)
				}
				if err := checkSimple(sidewalk); err != nil {
					return nil, newBuildError(ErrInvalidGeometry, road.Attributes.WayID, piece.first, err)
				}
				result = append(result, OffsetGeometry{
					Kind:     OFFSET_SIDEWALK,
					Category: CATEGORY_SIDEWALK,
					Road:     road.ID,
					Side:     side,
					Geom:     geom,
				})
			}
		}
	}
	if !road.NeedsSidewalk() && road.Category != CATEGORY_PEDESTRIAN {
		return result, nil
	}
	for i, node := range road.nodes {
		if !gen.registry.IsCrossing(node) {
			continue
		}
		key := fmt.Sprintf("%d:%d", node, road.ID)
		if _, ok := gen.finished[key]; ok {
			continue
		}
		gen.finished[key] = struct{}{}
		var left, right Location
		if i > 0 {
			left, right = OrthogonalLine(road.geom[i], road.geom[i-1], gen.crossingHalfWidth)
		} else {
			left, right = OrthogonalLine(road.geom[0], road.geom[1], gen.crossingHalfWidth)
		}
		geom, err := NewLineGeometry([]Location{left, right})
		if err != nil {
			return nil, newBuildError(ErrInvalidGeometry, road.Attributes.WayID, node, err)
		}
		result = append(result, OffsetGeometry{
			Kind:     OFFSET_CROSSING,
			Category: CATEGORY_SIDEWALK,
			Road:     road.ID,
			Node:     node,
			Geom:     geom,
		})
	}
	return result, nil
}

type roadPiece struct {
	first NodeID
	line  []Location
}

// pieces splits road centerline at break nodes.
// Closed road is walked from its first inner break so that its closing node stays inside a piece
func (gen *OffsetGenerator) pieces(road *RoadEntity) []roadPiece {
	last := len(road.nodes) - 1
	order := make([]int, 0, last+1)
	rotateAt := -1
	if road.IsClosed() && !gen.isBreak(road.nodes[0]) {
		for i := 1; i < last; i++ {
			if gen.isBreak(road.nodes[i]) {
				rotateAt = i
				break
			}
		}
	}
	if rotateAt > 0 {
		for i := rotateAt; i <= last; i++ {
			order = append(order, i)
		}
		for i := 1; i <= rotateAt; i++ {
			order = append(order, i)
		}
	} else {
		for i := 0; i <= last; i++ {
			order = append(order, i)
		}
	}

	pieces := []roadPiece{}
	start := 0
	for k := 1; k < len(order); k++ {
		if k != len(order)-1 && !gen.isBreak(road.nodes[order[k]]) {
			continue
		}
		line := make([]Location, 0, k-start+1)
		for _, idx := range order[start : k+1] {
			line = append(line, road.geom[idx])
		}
		pieces = append(pieces, roadPiece{first: road.nodes[order[start]], line: line})
		start = k
	}
	return pieces
}

// isBreak checks whether sidewalk has to end at node: crossings and nodes where more than two segments meet
func (gen *OffsetGenerator) isBreak(node NodeID) bool {
	return gen.registry.IsCrossing(node) || gen.wayDegree(node) >= 3
}

// wayDegree counts connections of node leading to distinct neighbors or distinct ways.
// Roads built from one way classified into both categories count once
func (gen *OffsetGenerator) wayDegree(node NodeID) int {
	type wayEdge struct {
		neighbor NodeID
		way      int64
	}
	seen := make(map[wayEdge]struct{})
	for _, conn := range gen.registry.Connections(node) {
		seen[wayEdge{neighbor: conn.Neighbor, way: gen.roads[conn.Road].wayKey()}] = struct{}{}
	}
	return len(seen)
}

// Stitch joins parallel segments of every centerline segment into one continuous line.
// Closed centerline gives closed sidewalk ring
func (gen *OffsetGenerator) Stitch(line []Location, side Side) []Location {
	start, end := ParallelSegment(line[0], line[1], gen.offset, side)
	output := []Location{start, end}
	for i := 1; i < len(line)-1; i++ {
		segStart, segEnd := ParallelSegment(line[i], line[i+1], gen.offset, side)
		alpha := TurningAngle(line[i-1], line[i], line[i+1])
		if isConcave(alpha, side) {
			if cut, ok := cutAtCrossing(output, segStart, segEnd); ok {
				output = InsertPoint(cut, segEnd, true)
				continue
			}
			n := len(output)
			if crossing, ok := intersect(output[n-2], output[n-1], segStart, segEnd); ok {
				output = InsertPoint(SetPoint(output, crossing, true), segEnd, true)
				continue
			}
		}
		miter := gen.miterPoint(line[i-1], line[i], line[i+1], side)
		output = appendDistinct(output, miter)
		output = appendDistinct(output, segStart)
		output = appendDistinct(output, segEnd)
	}
	n := len(line)
	if n < 4 || line[0] != line[n-1] {
		return output
	}
	return gen.closeRing(output, line[n-2], line[0], line[1], side)
}

// closeRing joins last and first offset segments at closing vertex with the same miter/cut rule
func (gen *OffsetGenerator) closeRing(output []Location, prev, vertex, next Location, side Side) []Location {
	if isConcave(TurningAngle(prev, vertex, next), side) {
		n := len(output)
		// Ends overlap: keep part between the crossing of the tail with the head
		for j := n - 2; j > 0; j-- {
			for i := 0; i < j-1; i++ {
				crossing, ok := segmentsCross(output[i], output[i+1], output[j], output[j+1])
				if !ok {
					continue
				}
				ring := []Location{crossing}
				for _, pt := range output[i+1 : j+1] {
					ring = appendDistinct(ring, pt)
				}
				return closeLine(ring)
			}
		}
		if crossing, ok := intersect(output[n-2], output[n-1], output[0], output[1]); ok && n > 3 {
			ring := []Location{crossing}
			for _, pt := range output[1 : n-1] {
				ring = appendDistinct(ring, pt)
			}
			return closeLine(ring)
		}
	}
	return closeLine(appendDistinct(output, gen.miterPoint(prev, vertex, next, side)))
}

// closeLine makes last point of line exactly equal to the first one
func closeLine(line []Location) []Location {
	if samePoint(line[len(line)-1], line[0]) {
		return SetPoint(line, line[0], true)
	}
	return InsertPoint(line, line[0], true)
}

// isConcave checks if offset lines on given side converge at a vertex with given turning angle.
// Right turns (angle above 180) converge on the right side, left turns on the left side.
// Straight and nearly straight vertices are never concave.
func isConcave(alpha float64, side Side) bool {
	if side == SIDE_LEFT {
		return alpha < 180-straightTolerance
	}
	return alpha > 180+straightTolerance
}

// cutAtCrossing looks for the last segment of line crossed by segment start-end.
// Line is trimmed after that segment and crossing point becomes its last point
func cutAtCrossing(line []Location, start, end Location) ([]Location, bool) {
	for j := len(line) - 2; j >= 0; j-- {
		crossing, ok := segmentsCross(line[j], line[j+1], start, end)
		if !ok {
			continue
		}
		return InsertPoint(CutLine(line, j, true), crossing, true), true
	}
	return nil, false
}

// miterPoint returns point at offset distance from vertex along bisector of outer normals
func (gen *OffsetGenerator) miterPoint(prev, vertex, next Location, side Side) Location {
	normal := 90.0
	if side == SIDE_LEFT {
		normal = -90.0
	}
	incoming := Bearing(prev, vertex) + normal
	outgoing := Bearing(vertex, next) + normal
	return destination(vertex, incoming+normalizeAngle(outgoing-incoming)/2, gen.offset)
}

// Junctions returns connectors between sidewalks of neighboring roads at break nodes.
// Roads are walked clockwise; each adjacent pair is joined on the side facing the wedge between them
func (gen *OffsetGenerator) Junctions() ([]OffsetGeometry, error) {
	roads := gen.roads
	result := []OffsetGeometry{}
	for _, node := range gen.registry.Nodes() {
		conns := gen.registry.Connections(node)
		if !gen.isBreak(node) && !touchesEndpoint(node, conns, roads) {
			continue
		}
		ends := sidewalkEnds(conns, roads)
		if len(ends) < 2 {
			continue
		}
		center, err := gen.registry.Location(node)
		if err != nil {
			return nil, newBuildError(ErrMissingLocation, 0, node, err)
		}
		for k := range ends {
			current := ends[k]
			next := ends[(k+1)%len(ends)]
			if !current.left || !next.right {
				continue
			}
			wedge := current.conn.Bearing - next.conn.Bearing
			if k+1 == len(ends) {
				wedge += 360
			}
			if wedge <= 0 || wedge >= 360 {
				continue
			}
			currentNeighbor, err := gen.registry.Location(current.conn.Neighbor)
			if err != nil {
				return nil, newBuildError(ErrMissingLocation, 0, current.conn.Neighbor, err)
			}
			nextNeighbor, err := gen.registry.Location(next.conn.Neighbor)
			if err != nil {
				return nil, newBuildError(ErrMissingLocation, 0, next.conn.Neighbor, err)
			}
			line := []Location{OffsetPoint(center, currentNeighbor, gen.offset, SIDE_LEFT)}
			if wedge > 180 {
				line = appendDistinct(line, destination(center, current.conn.Bearing-wedge/2, gen.offset))
			}
			line = appendDistinct(line, OffsetPoint(center, nextNeighbor, gen.offset, SIDE_RIGHT))
			if len(line) < 2 {
				continue
			}
			geom, err := NewLineGeometry(line)
			if err != nil {
				return nil, newBuildError(ErrInvalidGeometry, roads[current.conn.Road].Attributes.WayID, node, err)
			}
			result = append(result, OffsetGeometry{
				Kind:     OFFSET_CONNECTOR,
				Category: CATEGORY_SIDEWALK,
				Road:     current.conn.Road,
				Node:     node,
				Geom:     geom,
			})
		}
	}
	return result, nil
}

type sidewalkEnd struct {
	conn  NodeConnection
	left  bool
	right bool
}

// sidewalkEnds keeps connections of roads with sidewalks. Sides are relative to the direction from node to neighbor
func sidewalkEnds(conns []NodeConnection, roads []*RoadEntity) []sidewalkEnd {
	ends := []sidewalkEnd{}
	for _, conn := range conns {
		road := roads[conn.Road]
		if !road.NeedsSidewalk() {
			continue
		}
		left := road.Attributes.Sidewalk.Has(SIDE_LEFT)
		right := road.Attributes.Sidewalk.Has(SIDE_RIGHT)
		if !conn.Forward {
			left, right = right, left
		}
		ends = append(ends, sidewalkEnd{conn: conn, left: left, right: right})
	}
	return ends
}

// touchesEndpoint checks if some open road starts or ends at node.
// Closing node of closed road lies inside a sidewalk unless it is a break node
func touchesEndpoint(node NodeID, conns []NodeConnection, roads []*RoadEntity) bool {
	for _, conn := range conns {
		if roads[conn.Road].IsClosed() {
			continue
		}
		nodes := roads[conn.Road].nodes
		if nodes[0] == node || nodes[len(nodes)-1] == node {
			return true
		}
	}
	return false
}

func samePoint(a, b Location) bool {
	return math.Abs(a.Lon-b.Lon) < stitchEpsilon && math.Abs(a.Lat-b.Lat) < stitchEpsilon
}

func appendDistinct(line []Location, pt Location) []Location {
	if len(line) > 0 && samePoint(line[len(line)-1], pt) {
		return line
	}
	return InsertPoint(line, pt, true)
}

// normalizeAngle brings angle into (-180, 180]
func normalizeAngle(angle float64) float64 {
	for angle > 180 {
		angle -= 360
	}
	for angle <= -180 {
		angle += 360
	}
	return angle
}
