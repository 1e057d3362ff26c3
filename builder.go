package osm2sidewalk

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultSidewalkOffset is distance between centerline and sidewalk (kilometers)
	DefaultSidewalkOffset = 0.003
)

// Builder is process-scoped context of one run: it owns road arena and adjacency registry
type Builder struct {
	locations         LocationLookup
	isCrossing        CrossingPredicate
	logger            *zap.Logger
	offset            float64
	crossingHalfWidth float64
	maxSegment        float64

	roads    []*RoadEntity
	registry *AdjacencyRegistry
}

func (builder *Builder) String() string {
	return fmt.Sprintf(`
Builder parameters:
	sidewalk_offset_km: %f
	crossing_half_width_km: %f
	max_segment_km: %f
	roads: %d
	`,
		builder.offset,
		builder.crossingHalfWidth,
		builder.maxSegment,
		len(builder.roads),
	)
}

// NewBuilder creates builder resolving node locations with given lookup
func NewBuilder(locations LocationLookup, options ...func(*Builder)) *Builder {
	builder := &Builder{
		locations:  locations,
		isCrossing: func(NodeID) bool { return false },
		logger:     zap.NewNop(),
		offset:     DefaultSidewalkOffset,
		roads:      []*RoadEntity{},
		registry:   NewAdjacencyRegistry(locations),
	}
	for _, option := range options {
		option(builder)
	}
	return builder
}

func WithLogger(logger *zap.Logger) func(*Builder) {
	return func(builder *Builder) {
		if logger != nil {
			builder.logger = logger
		}
	}
}

func WithCrossingPredicate(isCrossing CrossingPredicate) func(*Builder) {
	return func(builder *Builder) {
		if isCrossing != nil {
			builder.isCrossing = isCrossing
		}
	}
}

// WithSidewalkOffset sets distance between centerline and sidewalk (kilometers)
func WithSidewalkOffset(offset float64) func(*Builder) {
	return func(builder *Builder) {
		builder.offset = offset
	}
}

// WithCrossingHalfWidth sets half length of crossing stripe (kilometers). Defaults to sidewalk offset
func WithCrossingHalfWidth(halfWidth float64) func(*Builder) {
	return func(builder *Builder) {
		builder.crossingHalfWidth = halfWidth
	}
}

// WithMaxSegmentLength densifies sidewalks so no segment is longer than given value (kilometers)
func WithMaxSegmentLength(maxSegment float64) func(*Builder) {
	return func(builder *Builder) {
		builder.maxSegment = maxSegment
	}
}

// Registry returns adjacency registry of the run
func (builder *Builder) Registry() *AdjacencyRegistry {
	return builder.registry
}

// Roads returns roads in insertion order
func (builder *Builder) Roads() []*RoadEntity {
	roads := make([]*RoadEntity, len(builder.roads))
	copy(roads, builder.roads)
	return roads
}

// AddRoad classifies request into RoadEntity and registers its vertex pairs
func (builder *Builder) AddRoad(req RoadRequest) (RoadID, error) {
	if req.Category != CATEGORY_VEHICLE && req.Category != CATEGORY_PEDESTRIAN {
		return -1, errors.Errorf("Can't add road for way %d: category %d is not a road category", req.Attributes.WayID, req.Category)
	}
	nodes := make([]NodeID, 0, len(req.Nodes))
	line := make([]Location, 0, len(req.Nodes))
	for _, node := range req.Nodes {
		loc, ok := builder.locations.Location(node)
		if !ok {
			return -1, newBuildError(ErrMissingLocation, req.Attributes.WayID, node, nil)
		}
		// Consecutive duplicates collapse into the first node
		if len(line) > 0 && line[len(line)-1] == loc {
			continue
		}
		nodes = append(nodes, node)
		line = append(line, loc)
	}
	geom, err := NewLineGeometry(line)
	if err != nil {
		return -1, newBuildError(ErrInvalidGeometry, req.Attributes.WayID, 0, err)
	}
	if err := checkSimple(line); err != nil {
		return -1, newBuildError(ErrInvalidGeometry, req.Attributes.WayID, 0, err)
	}
	attributes := req.Attributes
	if attributes.Lanes <= 0 {
		attributes.Lanes = 1
	}
	if attributes.Sidewalk == 0 {
		attributes.Sidewalk = SIDEWALK_NONE
	}
	road := &RoadEntity{
		ID:         RoadID(len(builder.roads)),
		Category:   req.Category,
		Attributes: attributes,
		nodes:      nodes,
		geom:       geom.coords,
		length:     LineLength(geom.coords),
	}
	if builder.isCrossing(nodes[0]) {
		builder.registry.MarkCrossing(nodes[0])
	}
	for i := 0; i < len(nodes)-1; i++ {
		if err := builder.registry.Register(nodes[i], nodes[i+1], road.ID, builder.isCrossing(nodes[i+1])); err != nil {
			if buildErr, ok := err.(*BuildError); ok {
				buildErr.WayID = req.Attributes.WayID
				return -1, buildErr
			}
			return -1, errors.Wrapf(err, "Can't register way %d", req.Attributes.WayID)
		}
	}
	builder.roads = append(builder.roads, road)
	return road.ID, nil
}

// Build generates offset geometries and merges networks. Any error aborts the whole run and no Result is returned
func (builder *Builder) Build() (*Result, error) {
	st := time.Now()
	gen := NewOffsetGenerator(builder.registry, builder.roads, builder.offset, builder.crossingHalfWidth, builder.maxSegment)
	offsets := []OffsetGeometry{}
	for _, road := range builder.roads {
		roadOffsets, err := gen.Road(road)
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, roadOffsets...)
	}
	connectors, err := gen.Junctions()
	if err != nil {
		return nil, err
	}
	offsets = append(offsets, connectors...)
	builder.logger.Info("Offset geometries generated", zap.Int("count", len(offsets)), zap.Duration("elapsed", time.Since(st)))

	st = time.Now()
	intersections, err := collectIntersections(builder.registry, builder.roads)
	if err != nil {
		return nil, err
	}
	builder.logger.Info("Intersections collected", zap.Int("count", len(intersections)), zap.Duration("elapsed", time.Since(st)))

	st = time.Now()
	byCategory := make(map[Category][]Geometry, len(Categories))
	for _, road := range builder.roads {
		byCategory[road.Category] = append(byCategory[road.Category], road.Geometry())
	}
	for _, off := range offsets {
		byCategory[off.Category] = append(byCategory[off.Category], off.Geom)
	}
	networks := make(map[Category]NetworkGeometry, len(Categories))
	for _, category := range Categories {
		network, err := UnionNetwork(category, byCategory[category])
		if err != nil {
			return nil, err
		}
		networks[category] = network
		builder.logger.Info("Network merged", zap.String("category", category.String()), zap.Int("geometries", len(byCategory[category])))
	}
	walkParts := append(append([]Geometry{}, byCategory[CATEGORY_PEDESTRIAN]...), byCategory[CATEGORY_SIDEWALK]...)
	walk, err := UnionNetwork(CATEGORY_WALK, walkParts)
	if err != nil {
		return nil, err
	}
	builder.logger.Info("Networks merged", zap.Duration("elapsed", time.Since(st)))

	return &Result{
		Roads:         builder.Roads(),
		Offsets:       offsets,
		Intersections: intersections,
		Networks:      networks,
		Walk:          walk,
	}, nil
}

// Result is output of finished run handed to persistence
type Result struct {
	Roads         []*RoadEntity
	Offsets       []OffsetGeometry
	Intersections []Intersection
	Networks      map[Category]NetworkGeometry
	// Walk is union of pedestrian ways and sidewalk geometries, labeled CATEGORY_WALK
	Walk NetworkGeometry
}

// RoadsOf returns roads of given category
func (res *Result) RoadsOf(category Category) []*RoadEntity {
	roads := []*RoadEntity{}
	for _, road := range res.Roads {
		if road.Category == category {
			roads = append(roads, road)
		}
	}
	return roads
}

// Network returns merged network of given category
func (res *Result) Network(category Category) NetworkGeometry {
	if network, ok := res.Networks[category]; ok {
		return network
	}
	return NetworkGeometry{Category: category}
}
