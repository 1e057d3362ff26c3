package osm2sidewalk

import (
	"fmt"
	"os"
	"path/filepath"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// ExportToGeoJSON writes roads, offset geometries and intersections as FeatureCollections
func (res *Result) ExportToGeoJSON(dir, prefix string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "Can't create output directory")
	}
	layers := []struct {
		name       string
		collection *geojson.FeatureCollection
	}{
		{"roads", res.roadsCollection()},
		{"sidewalks", res.offsetsCollection()},
		{"intersects", res.intersectionsCollection()},
	}
	for _, layer := range layers {
		b, err := layer.collection.MarshalJSON()
		if err != nil {
			return errors.Wrapf(err, "Can't marshal %s", layer.name)
		}
		fname := filepath.Join(dir, fmt.Sprintf("%s_%s.geojson", prefix, layer.name))
		if err := os.WriteFile(fname, b, 0o644); err != nil {
			return errors.Wrapf(err, "Can't write %s", layer.name)
		}
	}
	return nil
}

func (res *Result) roadsCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, road := range res.Roads {
		feature := geojson.NewFeature(geoJSONGeometry(road.Geometry()))
		feature.SetProperty("id", int(road.ID))
		feature.SetProperty("osm_id", road.Attributes.WayID)
		feature.SetProperty("category", road.Category.String())
		feature.SetProperty("name", road.Attributes.Name)
		feature.SetProperty("highway", road.Attributes.Highway)
		feature.SetProperty("sidewalk", road.Attributes.Sidewalk.String())
		feature.SetProperty("lanes", road.Attributes.Lanes)
		feature.SetProperty("length", road.Length())
		fc.AddFeature(feature)
	}
	return fc
}

func (res *Result) offsetsCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, off := range res.Offsets {
		feature := geojson.NewFeature(geoJSONGeometry(off.Geom))
		feature.SetProperty("id", i)
		feature.SetProperty("kind", off.Kind.String())
		feature.SetProperty("road_id", int(off.Road))
		feature.SetProperty("node_id", int64(off.Node))
		if off.Kind == OFFSET_SIDEWALK {
			feature.SetProperty("side", off.Side.String())
		}
		fc.AddFeature(feature)
	}
	return fc
}

func (res *Result) intersectionsCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, item := range res.Intersections {
		feature := geojson.NewFeature(geoJSONGeometry(NewPointGeometry(item.Location)))
		feature.SetProperty("node_id", int64(item.Node))
		feature.SetProperty("names", item.Names)
		feature.SetProperty("osm_ids", item.WayIDs)
		fc.AddFeature(feature)
	}
	return fc
}
