package osm2sidewalk

import (
	"github.com/twpayne/go-polyline"
)

// PreparePolyline returns encoded polyline (precision 5, latitude first) of LineString
func PreparePolyline(pts []Location) string {
	coords := make([][]float64, len(pts))
	for i := range pts {
		coords[i] = []float64{pts[i].Lat, pts[i].Lon}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline restores locations from encoded polyline
func DecodePolyline(encoded string) ([]Location, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	pts := make([]Location, len(coords))
	for i := range coords {
		pts[i] = Location{Lon: coords[i][1], Lat: coords[i][0]}
	}
	return pts, nil
}
