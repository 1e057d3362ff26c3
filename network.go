package osm2sidewalk

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ExportToCSV writes every layer of result into "<prefix>_<layer>.csv" files inside given directory
func (res *Result) ExportToCSV(dir, prefix string, format GeomFormat) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "Can't create output directory")
	}
	fname := func(layer string) string {
		return filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, layer))
	}
	var group errgroup.Group
	group.Go(func() error {
		return errors.Wrap(res.exportRoadsToCSV(fname("ways"), CATEGORY_PEDESTRIAN, format), "Can't export pedestrian ways")
	})
	group.Go(func() error {
		return errors.Wrap(res.exportRoadsToCSV(fname("vehicle"), CATEGORY_VEHICLE, format), "Can't export vehicle roads")
	})
	group.Go(func() error {
		return errors.Wrap(res.exportOffsetsToCSV(fname("sidewalks"), format), "Can't export sidewalks")
	})
	group.Go(func() error {
		return errors.Wrap(res.exportIntersectionsToCSV(fname("intersects"), format), "Can't export intersections")
	})
	group.Go(func() error {
		return errors.Wrap(res.exportNetworksToCSV(fname("networks"), format), "Can't export networks")
	})
	return group.Wait()
}

func createCSV(fname string) (*os.File, *csv.Writer, error) {
	file, err := os.Create(fname)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't create file")
	}
	writer := csv.NewWriter(file)
	writer.Comma = ';'
	return file, writer, nil
}

func closeCSV(file *os.File, writer *csv.Writer) error {
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return errors.Wrap(err, "Can't flush file")
	}
	return file.Close()
}

func (res *Result) exportRoadsToCSV(fname string, category Category, format GeomFormat) error {
	file, writer, err := createCSV(fname)
	if err != nil {
		return err
	}
	header := []string{"id", "osm_id", "class", "name", "length", "geom"}
	if category == CATEGORY_VEHICLE {
		header = []string{"id", "osm_id", "class", "name", "sidewalk", "lanes", "length", "geom"}
	}
	if err = writer.Write(header); err != nil {
		file.Close()
		return errors.Wrap(err, "Can't write header")
	}
	for _, road := range res.RoadsOf(category) {
		geom, err := FormatGeometry(road.Geometry(), format)
		if err != nil {
			file.Close()
			return err
		}
		row := []string{
			fmt.Sprintf("%d", road.ID),
			fmt.Sprintf("%d", road.Attributes.WayID),
			road.Attributes.Highway,
			road.Attributes.Name,
			fmt.Sprintf("%f", road.Length()),
			geom,
		}
		if category == CATEGORY_VEHICLE {
			row = []string{
				fmt.Sprintf("%d", road.ID),
				fmt.Sprintf("%d", road.Attributes.WayID),
				road.Attributes.Highway,
				road.Attributes.Name,
				road.Attributes.Sidewalk.String(),
				fmt.Sprintf("%d", road.Attributes.Lanes),
				fmt.Sprintf("%f", road.Length()),
				geom,
			}
		}
		if err = writer.Write(row); err != nil {
			file.Close()
			return errors.Wrap(err, "Can't write road")
		}
	}
	return closeCSV(file, writer)
}

func (res *Result) exportOffsetsToCSV(fname string, format GeomFormat) error {
	file, writer, err := createCSV(fname)
	if err != nil {
		return err
	}
	if err = writer.Write([]string{"id", "kind", "road_id", "osm_id", "node_id", "side", "geom"}); err != nil {
		file.Close()
		return errors.Wrap(err, "Can't write header")
	}
	for i, off := range res.Offsets {
		geom, err := FormatGeometry(off.Geom, format)
		if err != nil {
			file.Close()
			return err
		}
		side := ""
		if off.Kind == OFFSET_SIDEWALK {
			side = off.Side.String()
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", i),
			off.Kind.String(),
			fmt.Sprintf("%d", off.Road),
			fmt.Sprintf("%d", res.Roads[off.Road].Attributes.WayID),
			fmt.Sprintf("%d", off.Node),
			side,
			geom,
		})
		if err != nil {
			file.Close()
			return errors.Wrap(err, "Can't write offset geometry")
		}
	}
	return closeCSV(file, writer)
}

func (res *Result) exportIntersectionsToCSV(fname string, format GeomFormat) error {
	file, writer, err := createCSV(fname)
	if err != nil {
		return err
	}
	if err = writer.Write([]string{"node_id", "roads", "osm_ids", "names", "geom"}); err != nil {
		file.Close()
		return errors.Wrap(err, "Can't write header")
	}
	for _, item := range res.Intersections {
		geom, err := FormatGeometry(NewPointGeometry(item.Location), format)
		if err != nil {
			file.Close()
			return err
		}
		roads := make([]string, len(item.Roads))
		for i, id := range item.Roads {
			roads[i] = fmt.Sprintf("%d", id)
		}
		osmIDs := make([]string, len(item.WayIDs))
		for i, id := range item.WayIDs {
			osmIDs[i] = fmt.Sprintf("%d", id)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", item.Node),
			strings.Join(roads, ","),
			strings.Join(osmIDs, ","),
			strings.Join(item.Names, ","),
			geom,
		})
		if err != nil {
			file.Close()
			return errors.Wrap(err, "Can't write intersection")
		}
	}
	return closeCSV(file, writer)
}

func (res *Result) exportNetworksToCSV(fname string, format GeomFormat) error {
	file, writer, err := createCSV(fname)
	if err != nil {
		return err
	}
	if err = writer.Write([]string{"category", "geom"}); err != nil {
		file.Close()
		return errors.Wrap(err, "Can't write header")
	}
	rows := [][2]string{}
	for _, category := range Categories {
		geom, err := FormatNetwork(res.Network(category), format)
		if err != nil {
			file.Close()
			return err
		}
		rows = append(rows, [2]string{category.String(), geom})
	}
	walk, err := FormatNetwork(res.Walk, format)
	if err != nil {
		file.Close()
		return err
	}
	rows = append(rows, [2]string{CATEGORY_WALK.String(), walk})
	for _, row := range rows {
		if err = writer.Write(row[:]); err != nil {
			file.Close()
			return errors.Wrap(err, "Can't write network")
		}
	}
	return closeCSV(file, writer)
}
