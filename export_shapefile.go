package osm2sidewalk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/pkg/errors"
)

// ExportToShapefile writes roads and offset geometries into "<prefix>_roads.shp" and "<prefix>_sidewalks.shp"
func (res *Result) ExportToShapefile(dir, prefix string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "Can't create output directory")
	}
	if err := res.exportRoadsToShapefile(filepath.Join(dir, fmt.Sprintf("%s_roads.shp", prefix))); err != nil {
		return errors.Wrap(err, "Can't export roads")
	}
	if err := res.exportOffsetsToShapefile(filepath.Join(dir, fmt.Sprintf("%s_sidewalks.shp", prefix))); err != nil {
		return errors.Wrap(err, "Can't export sidewalks")
	}
	return nil
}

func toShapePolyLine(line []Location) *shp.PolyLine {
	points := make([]shp.Point, len(line))
	for i := range line {
		points[i] = shp.Point{X: line[i].Lon, Y: line[i].Lat}
	}
	return shp.NewPolyLine([][]shp.Point{points})
}

// truncate cuts string to given number of bytes without breaking UTF-8 sequence
func truncate(str string, size int) string {
	if len(str) <= size {
		return str
	}
	for size > 0 && !utf8.RuneStart(str[size]) {
		size--
	}
	return str[:size]
}

// closeShapefile writes headers and moves attribute table to "<base>.dbf":
// go-shp creates it as "<base>dbf"
func closeShapefile(writer *shp.Writer, fname string) error {
	writer.Close()
	base := strings.TrimSuffix(fname, filepath.Ext(fname))
	if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
		return errors.Wrap(err, "Can't rename attribute table")
	}
	return nil
}

// writeAttributes supports int, float64 and string values only
func writeAttributes(writer *shp.Writer, row int32, values ...interface{}) error {
	for field, value := range values {
		if err := writer.WriteAttribute(int(row), field, value); err != nil {
			return errors.Wrapf(err, "Can't write attribute #%d of row %d", field, row)
		}
	}
	return nil
}

func (res *Result) exportRoadsToShapefile(fname string) (err error) {
	writer, err := shp.Create(fname, shp.POLYLINE)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer func() {
		if closeErr := closeShapefile(writer, fname); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	err = writer.SetFields([]shp.Field{
		shp.NumberField("ID", 10),
		shp.NumberField("OSM_ID", 18),
		shp.StringField("CATEGORY", 12),
		shp.StringField("NAME", 80),
		shp.StringField("HIGHWAY", 20),
		shp.StringField("SIDEWALK", 6),
		shp.NumberField("LANES", 3),
		shp.FloatField("LENGTH", 14, 6),
	})
	if err != nil {
		return errors.Wrap(err, "Can't set fields")
	}
	for _, road := range res.Roads {
		line, _ := road.Geometry().AsLine()
		row := writer.Write(toShapePolyLine(line))
		err = writeAttributes(writer, row,
			int(road.ID),
			int(road.Attributes.WayID),
			road.Category.String(),
			truncate(road.Attributes.Name, 80),
			road.Attributes.Highway,
			road.Attributes.Sidewalk.String(),
			road.Attributes.Lanes,
			road.Length(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (res *Result) exportOffsetsToShapefile(fname string) (err error) {
	writer, err := shp.Create(fname, shp.POLYLINE)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer func() {
		if closeErr := closeShapefile(writer, fname); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	err = writer.SetFields([]shp.Field{
		shp.NumberField("ID", 10),
		shp.StringField("KIND", 10),
		shp.NumberField("ROAD_ID", 10),
		shp.NumberField("NODE_ID", 18),
		shp.StringField("SIDE", 5),
	})
	if err != nil {
		return errors.Wrap(err, "Can't set fields")
	}
	for i, off := range res.Offsets {
		line, ok := off.Geom.AsLine()
		if !ok {
			continue
		}
		side := ""
		if off.Kind == OFFSET_SIDEWALK {
			side = off.Side.String()
		}
		row := writer.Write(toShapePolyLine(line))
		err = writeAttributes(writer, row, i, off.Kind.String(), int(off.Road), int(off.Node), side)
		if err != nil {
			return err
		}
	}
	return nil
}
