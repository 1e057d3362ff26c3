package osm2sidewalk

import (
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Profile drives classification of OSM ways into road categories
type Profile struct {
	VehicleHighways    []string                       `yaml:"vehicle_highways"`
	PedestrianHighways []string                       `yaml:"pedestrian_highways"`
	ImplicitSidewalk   []string                       `yaml:"implicit_sidewalk"`
	DefaultLanes       int                            `yaml:"default_lanes"`
	Exclude            map[string]map[string][]string `yaml:"exclude"`

	vehicle    map[string]struct{}
	pedestrian map[string]struct{}
	implicit   map[string]struct{}
	exclude    map[Category]map[AccessType]map[string]struct{}
}

// DefaultProfile returns profile built from default tag tables
func DefaultProfile() *Profile {
	profile := &Profile{
		VehicleHighways:    highwayNames(vehicleHighways),
		PedestrianHighways: highwayNames(pedestrianHighways),
		ImplicitSidewalk:   highwayNames(implicitSidewalkHighways),
		DefaultLanes:       1,
		Exclude:            map[string]map[string][]string{},
	}
	for category, byAccess := range categoryAccessExclude {
		profile.Exclude[category.String()] = map[string][]string{}
		for access, values := range byAccess {
			for value := range values {
				profile.Exclude[category.String()][access.String()] = append(profile.Exclude[category.String()][access.String()], value)
			}
		}
	}
	if err := profile.compile(); err != nil {
		// Default tables are static
		panic(err)
	}
	return profile
}

// LoadProfile reads YAML profile. Omitted fields keep default values
func LoadProfile(fileName string) (*Profile, error) {
	bytes, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read profile '%s'", fileName)
	}
	profile := DefaultProfile()
	if err := yaml.Unmarshal(bytes, profile); err != nil {
		return nil, errors.Wrapf(err, "Can't parse profile '%s'", fileName)
	}
	if err := profile.compile(); err != nil {
		return nil, errors.Wrapf(err, "Bad profile '%s'", fileName)
	}
	return profile, nil
}

func (profile *Profile) compile() error {
	profile.vehicle = toSet(profile.VehicleHighways)
	profile.pedestrian = toSet(profile.PedestrianHighways)
	profile.implicit = toSet(profile.ImplicitSidewalk)
	if profile.DefaultLanes <= 0 {
		profile.DefaultLanes = 1
	}
	profile.exclude = make(map[Category]map[AccessType]map[string]struct{})
	for categoryName, byKey := range profile.Exclude {
		category, ok := categoryByName(categoryName)
		if !ok || category == CATEGORY_SIDEWALK {
			return errors.Errorf("unknown road category '%s' in exclude section", categoryName)
		}
		profile.exclude[category] = make(map[AccessType]map[string]struct{})
		for key, values := range byKey {
			access := getAccessType(key)
			if access == ACCESS_UNDEFINED {
				return errors.Errorf("unknown access key '%s' in exclude section", key)
			}
			profile.exclude[category][access] = toSet(values)
		}
	}
	return nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}

func categoryByName(name string) (Category, bool) {
	for _, category := range Categories {
		if category.String() == name {
			return category, true
		}
	}
	return 0, false
}

// Classify returns categories of way with given tags. Way may belong to both road categories
func (profile *Profile) Classify(tags osm.Tags) []Category {
	highway := tags.Find("highway")
	if highway == "" {
		return nil
	}
	categories := []Category{}
	if profile.matches(CATEGORY_VEHICLE, profile.vehicle, tags) {
		categories = append(categories, CATEGORY_VEHICLE)
	}
	if profile.matches(CATEGORY_PEDESTRIAN, profile.pedestrian, tags) {
		categories = append(categories, CATEGORY_PEDESTRIAN)
	}
	return categories
}

func (profile *Profile) matches(category Category, highways map[string]struct{}, tags osm.Tags) bool {
	for access, values := range profile.exclude[category] {
		if _, ok := values[tags.Find(access.String())]; ok {
			return false
		}
	}
	if _, ok := highways[tags.Find("highway")]; ok {
		return true
	}
	for access, values := range categoryAccessInclude[category] {
		if _, ok := values[tags.Find(access.String())]; ok {
			return true
		}
	}
	return false
}

// Sidewalk returns sidewalk presence of vehicle road with given tags
func (profile *Profile) Sidewalk(tags osm.Tags) SidewalkPresence {
	if presence, ok := sidewalkValues[tags.Find("sidewalk")]; ok {
		return presence
	}
	if _, ok := sidewalkSideYes[tags.Find("sidewalk:both")]; ok {
		return SIDEWALK_BOTH
	}
	_, left := sidewalkSideYes[tags.Find("sidewalk:left")]
	_, right := sidewalkSideYes[tags.Find("sidewalk:right")]
	switch {
	case left && right:
		return SIDEWALK_BOTH
	case left:
		return SIDEWALK_LEFT
	case right:
		return SIDEWALK_RIGHT
	}
	if tags.Find("sidewalk:left") != "" || tags.Find("sidewalk:right") != "" || tags.Find("sidewalk:both") != "" {
		return SIDEWALK_NONE
	}
	if _, ok := profile.implicit[tags.Find("highway")]; ok {
		return SIDEWALK_BOTH
	}
	return SIDEWALK_NONE
}

// Attributes extracts road attributes of way for given category
func (profile *Profile) Attributes(way *osm.Way, category Category) RoadAttributes {
	attributes := RoadAttributes{
		Name:     way.Tags.Find("name"),
		WayID:    int64(way.ID),
		Lanes:    profile.DefaultLanes,
		Sidewalk: SIDEWALK_NONE,
		Highway:  way.Tags.Find("highway"),
	}
	if lanesText := way.Tags.Find("lanes"); lanesText != "" {
		// "2;3" and similar lists: first value wins
		lanes, err := strconv.Atoi(strings.TrimSpace(strings.Split(lanesText, ";")[0]))
		if err == nil && lanes > 0 {
			attributes.Lanes = lanes
		}
	}
	if category == CATEGORY_VEHICLE {
		attributes.Sidewalk = profile.Sidewalk(way.Tags)
	}
	return attributes
}

// IsCrossingNode checks if node tags describe pedestrian crossing
func IsCrossingNode(tags osm.Tags) bool {
	if getHighwayType(tags.Find("highway")) == HIGHWAY_CROSSING {
		return true
	}
	if crossing := tags.Find("crossing"); crossing != "" && crossing != "no" {
		return true
	}
	return tags.Find("footway") == "crossing"
}
