// Package storage persists finished networks into spatial databases.
package storage

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/LdDl/osm2sidewalk"
)

// Store is database sink of finished runs. Save writes everything of a run or nothing
type Store interface {
	Migrate(ctx context.Context) error
	Save(ctx context.Context, runID string, res *osm2sidewalk.Result) error
	Close() error
}

// Table names shared by every driver
const (
	tableRuns          = "sidewalk_runs"
	tableRoads         = "sidewalk_roads"
	tableOffsets       = "sidewalk_offsets"
	tableIntersections = "sidewalk_intersections"
	tableNetworks      = "sidewalk_networks"
)

var (
	roadColumns         = []string{"run_id", "road_id", "osm_id", "category", "name", "highway", "sidewalk", "lanes", "length", "geom"}
	offsetColumns       = []string{"run_id", "offset_id", "kind", "road_id", "node_id", "side", "geom"}
	intersectionColumns = []string{"run_id", "node_id", "names", "osm_ids", "geom"}
	networkColumns      = []string{"run_id", "category", "geom"}
)

// NewRunID returns identifier of a new run
func NewRunID() string {
	return uuid.New().String()
}

// Open connects to store of given driver: "sqlite" or "postgres"
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres", "postgis":
		return NewPostgres(ctx, dsn)
	}
	return nil, errors.Errorf("unknown store driver '%s'", driver)
}

// networks returns merged networks of result in output order together with their names
func networks(res *osm2sidewalk.Result) ([]string, []osm2sidewalk.NetworkGeometry) {
	names := []string{}
	nets := []osm2sidewalk.NetworkGeometry{}
	for _, category := range osm2sidewalk.Categories {
		names = append(names, category.String())
		nets = append(nets, res.Network(category))
	}
	names = append(names, res.Walk.Category.String())
	nets = append(nets, res.Walk)
	return names, nets
}

func offsetSide(off osm2sidewalk.OffsetGeometry) string {
	if off.Kind != osm2sidewalk.OFFSET_SIDEWALK {
		return ""
	}
	return off.Side.String()
}
