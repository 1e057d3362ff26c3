package osm2sidewalk

// Intersection is node where roads of at least two distinct ways meet
type Intersection struct {
	Node     NodeID
	Location Location
	Roads    []RoadID
	Names    []string
	WayIDs   []int64
}

func collectIntersections(registry *AdjacencyRegistry, roads []*RoadEntity) ([]Intersection, error) {
	intersections := []Intersection{}
	for _, node := range registry.Nodes() {
		seen := make(map[RoadID]struct{})
		wayKeys := make(map[int64]struct{})
		roadIDs := []RoadID{}
		for _, conn := range registry.Connections(node) {
			if _, ok := seen[conn.Road]; ok {
				continue
			}
			seen[conn.Road] = struct{}{}
			wayKeys[roads[conn.Road].wayKey()] = struct{}{}
			roadIDs = append(roadIDs, conn.Road)
		}
		// Pieces and category twins of one way do not make an intersection
		if len(wayKeys) < 2 {
			continue
		}
		loc, err := registry.Location(node)
		if err != nil {
			return nil, newBuildError(ErrMissingLocation, 0, node, err)
		}
		item := Intersection{
			Node:     node,
			Location: loc,
			Roads:    roadIDs,
			Names:    []string{},
			WayIDs:   []int64{},
		}
		names := make(map[string]struct{})
		ways := make(map[int64]struct{})
		for _, id := range roadIDs {
			attrs := roads[id].Attributes
			if _, ok := names[attrs.Name]; !ok && attrs.Name != "" {
				names[attrs.Name] = struct{}{}
				item.Names = append(item.Names, attrs.Name)
			}
			if _, ok := ways[attrs.WayID]; !ok {
				ways[attrs.WayID] = struct{}{}
				item.WayIDs = append(item.WayIDs, attrs.WayID)
			}
		}
		intersections = append(intersections, item)
	}
	return intersections, nil
}
