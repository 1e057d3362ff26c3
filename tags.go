package osm2sidewalk

var (
	// Access values which force a way into category even if its highway value does not
	categoryAccessInclude = map[Category]map[AccessType]map[string]struct{}{
		CATEGORY_VEHICLE: {
			ACCESS_MOTOR_VEHICLE: {
				"yes": struct{}{},
			},
			ACCESS_MOTORCAR: {
				"yes": struct{}{},
			},
		},
		CATEGORY_PEDESTRIAN: {
			ACCESS_FOOT: {
				"yes":        struct{}{},
				"designated": struct{}{},
			},
		},
	}

	// Access values which keep a way out of category
	categoryAccessExclude = map[Category]map[AccessType]map[string]struct{}{
		CATEGORY_VEHICLE: {
			ACCESS_MOTOR_VEHICLE: {
				"no": struct{}{},
			},
			ACCESS_MOTORCAR: {
				"no": struct{}{},
			},
			ACCESS_OSM_ACCESS: {
				"private": struct{}{},
				"no":      struct{}{},
			},
			ACCESS_SERVICE: {
				"parking":          struct{}{},
				"parking_aisle":    struct{}{},
				"driveway":         struct{}{},
				"private":          struct{}{},
				"emergency_access": struct{}{},
			},
		},
		CATEGORY_PEDESTRIAN: {
			ACCESS_HIGHWAY: {
				"motorway":      struct{}{},
				"motorway_link": struct{}{},
			},
			ACCESS_FOOT: {
				"no": struct{}{},
			},
			ACCESS_OSM_ACCESS: {
				"private": struct{}{},
			},
		},
	}

	sidewalkValues = map[string]SidewalkPresence{
		"both":     SIDEWALK_BOTH,
		"yes":      SIDEWALK_BOTH,
		"left":     SIDEWALK_LEFT,
		"right":    SIDEWALK_RIGHT,
		"no":       SIDEWALK_NONE,
		"none":     SIDEWALK_NONE,
		"separate": SIDEWALK_NONE,
	}

	// Values of "sidewalk:left", "sidewalk:right" and "sidewalk:both" meaning presence
	sidewalkSideYes = map[string]struct{}{
		"yes":        {},
		"designated": {},
	}
)
