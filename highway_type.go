package osm2sidewalk

// HighwayType is value of OSM "highway" tag known to classification
type HighwayType uint16

const (
	HIGHWAY_MOTORWAY = HighwayType(iota + 1)
	HIGHWAY_MOTORWAY_LINK
	HIGHWAY_TRUNK
	HIGHWAY_TRUNK_LINK
	HIGHWAY_PRIMARY
	HIGHWAY_PRIMARY_LINK
	HIGHWAY_SECONDARY
	HIGHWAY_SECONDARY_LINK
	HIGHWAY_TERTIARY
	HIGHWAY_TERTIARY_LINK
	HIGHWAY_RESIDENTIAL
	HIGHWAY_LIVING_STREET
	HIGHWAY_SERVICE
	HIGHWAY_UNCLASSIFIED
	HIGHWAY_ROAD
	HIGHWAY_FOOTWAY
	HIGHWAY_PEDESTRIAN
	HIGHWAY_PATH
	HIGHWAY_STEPS
	HIGHWAY_TRACK
	HIGHWAY_CYCLEWAY
	HIGHWAY_CROSSING
	HIGHWAY_UNDEFINED = HighwayType(0)
)

func (iotaIdx HighwayType) String() string {
	return [...]string{"undefined", "motorway", "motorway_link", "trunk", "trunk_link", "primary", "primary_link", "secondary", "secondary_link", "tertiary", "tertiary_link", "residential", "living_street", "service", "unclassified", "road", "footway", "pedestrian", "path", "steps", "track", "cycleway", "crossing"}[iotaIdx]
}

func getHighwayType(str string) HighwayType {
	if found, ok := highwaysTypes[str]; ok {
		return found
	}
	return HIGHWAY_UNDEFINED
}

var (
	// Highways carrying motor traffic
	vehicleHighways = []HighwayType{
		HIGHWAY_MOTORWAY, HIGHWAY_MOTORWAY_LINK,
		HIGHWAY_TRUNK, HIGHWAY_TRUNK_LINK,
		HIGHWAY_PRIMARY, HIGHWAY_PRIMARY_LINK,
		HIGHWAY_SECONDARY, HIGHWAY_SECONDARY_LINK,
		HIGHWAY_TERTIARY, HIGHWAY_TERTIARY_LINK,
		HIGHWAY_RESIDENTIAL, HIGHWAY_LIVING_STREET,
		HIGHWAY_SERVICE, HIGHWAY_UNCLASSIFIED, HIGHWAY_ROAD,
	}

	// Highways dedicated to pedestrians
	pedestrianHighways = []HighwayType{
		HIGHWAY_FOOTWAY, HIGHWAY_PEDESTRIAN, HIGHWAY_PATH,
		HIGHWAY_STEPS, HIGHWAY_TRACK, HIGHWAY_LIVING_STREET,
	}

	// Vehicle highways which get sidewalks on both sides when "sidewalk" tag is missing
	implicitSidewalkHighways = []HighwayType{
		HIGHWAY_PRIMARY, HIGHWAY_SECONDARY, HIGHWAY_TERTIARY,
		HIGHWAY_RESIDENTIAL, HIGHWAY_UNCLASSIFIED,
	}

	highwaysTypes = map[string]HighwayType{
		"motorway":       HIGHWAY_MOTORWAY,
		"motorway_link":  HIGHWAY_MOTORWAY_LINK,
		"trunk":          HIGHWAY_TRUNK,
		"trunk_link":     HIGHWAY_TRUNK_LINK,
		"primary":        HIGHWAY_PRIMARY,
		"primary_link":   HIGHWAY_PRIMARY_LINK,
		"secondary":      HIGHWAY_SECONDARY,
		"secondary_link": HIGHWAY_SECONDARY_LINK,
		"tertiary":       HIGHWAY_TERTIARY,
		"tertiary_link":  HIGHWAY_TERTIARY_LINK,
		"residential":    HIGHWAY_RESIDENTIAL,
		"living_street":  HIGHWAY_LIVING_STREET,
		"service":        HIGHWAY_SERVICE,
		"unclassified":   HIGHWAY_UNCLASSIFIED,
		"road":           HIGHWAY_ROAD,
		"footway":        HIGHWAY_FOOTWAY,
		"pedestrian":     HIGHWAY_PEDESTRIAN,
		"path":           HIGHWAY_PATH,
		"steps":          HIGHWAY_STEPS,
		"track":          HIGHWAY_TRACK,
		"cycleway":       HIGHWAY_CYCLEWAY,
		"crossing":       HIGHWAY_CROSSING,
	}
)

func highwayNames(types []HighwayType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
