package osm2sidewalk

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts []Location) (string, error) {
	b, err := geojson.NewLineStringGeometry(toCoords(pts)).MarshalJSON()
	if err != nil {
		return "", errors.Wrap(err, "Can't convert geometry to geojson format")
	}
	return string(b), nil
}

// PrepareGeoJSONPoint returns GeoJSON representation of Point
func PrepareGeoJSONPoint(pt Location) (string, error) {
	b, err := geojson.NewPointGeometry([]float64{pt.Lon, pt.Lat}).MarshalJSON()
	if err != nil {
		return "", errors.Wrap(err, "Can't convert geometry to geojson format")
	}
	return string(b), nil
}

func toCoords(pts []Location) [][]float64 {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].Lon, pts[i].Lat}
	}
	return pts2d
}

// geoJSONGeometry converts Geometry into go.geojson object
func geoJSONGeometry(g Geometry) *geojson.Geometry {
	if pt, ok := g.AsPoint(); ok {
		return geojson.NewPointGeometry([]float64{pt.Lon, pt.Lat})
	}
	line, _ := g.AsLine()
	return geojson.NewLineStringGeometry(toCoords(line))
}
