package osm2sidewalk

import (
	"strings"

	"github.com/pkg/errors"
)

// GeomFormat is text representation of geometries in tabular outputs
type GeomFormat uint16

const (
	GEOM_FORMAT_WKT = GeomFormat(iota + 1)
	GEOM_FORMAT_GEOJSON
	GEOM_FORMAT_POLYLINE
)

func (iotaIdx GeomFormat) String() string {
	return [...]string{"wkt", "geojson", "polyline"}[iotaIdx-1]
}

// ParseGeomFormat parses name of format, case insensitive
func ParseGeomFormat(str string) (GeomFormat, error) {
	for _, format := range []GeomFormat{GEOM_FORMAT_WKT, GEOM_FORMAT_GEOJSON, GEOM_FORMAT_POLYLINE} {
		if strings.EqualFold(format.String(), str) {
			return format, nil
		}
	}
	return 0, errors.Errorf("unknown geometry format '%s'", str)
}

// FormatGeometry converts geometry into text of given format
func FormatGeometry(g Geometry, format GeomFormat) (string, error) {
	pt, isPoint := g.AsPoint()
	line, _ := g.AsLine()
	switch format {
	case GEOM_FORMAT_WKT:
		if isPoint {
			return PrepareWKTPoint(pt), nil
		}
		return PrepareWKTLinestring(line), nil
	case GEOM_FORMAT_GEOJSON:
		if isPoint {
			return PrepareGeoJSONPoint(pt)
		}
		return PrepareGeoJSONLinestring(line)
	case GEOM_FORMAT_POLYLINE:
		if isPoint {
			return PreparePolyline([]Location{pt}), nil
		}
		return PreparePolyline(line), nil
	}
	return "", errors.Errorf("unknown geometry format %d", format)
}

// FormatNetwork converts merged network into text of given format
func FormatNetwork(net NetworkGeometry, format GeomFormat) (string, error) {
	switch format {
	case GEOM_FORMAT_WKT:
		return net.WKT(), nil
	case GEOM_FORMAT_GEOJSON:
		b, err := net.geom.MarshalJSON()
		if err != nil {
			return "", errors.Wrap(err, "Can't convert network to geojson format")
		}
		return string(b), nil
	case GEOM_FORMAT_POLYLINE:
		parts := []string{}
		for _, line := range net.Lines() {
			parts = append(parts, PreparePolyline(line))
		}
		return strings.Join(parts, " "), nil
	}
	return "", errors.Errorf("unknown geometry format %d", format)
}
