package osm2sidewalk

// AccessType is OSM key restricting who may use a way
type AccessType uint16

const (
	ACCESS_HIGHWAY = AccessType(iota + 1)
	ACCESS_MOTOR_VEHICLE
	ACCESS_MOTORCAR
	ACCESS_OSM_ACCESS
	ACCESS_SERVICE
	ACCESS_FOOT
	ACCESS_UNDEFINED = AccessType(0)
)

func (iotaIdx AccessType) String() string {
	return [...]string{"undefined", "highway", "motor_vehicle", "motorcar", "access", "service", "foot"}[iotaIdx]
}

func getAccessType(key string) AccessType {
	for _, access := range accessTypes {
		if access.String() == key {
			return access
		}
	}
	return ACCESS_UNDEFINED
}

var accessTypes = []AccessType{
	ACCESS_HIGHWAY,
	ACCESS_MOTOR_VEHICLE,
	ACCESS_MOTORCAR,
	ACCESS_OSM_ACCESS,
	ACCESS_SERVICE,
	ACCESS_FOOT,
}
