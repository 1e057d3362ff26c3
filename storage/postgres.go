package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/LdDl/osm2sidewalk"
)

const srid = 4326

// Pool is part of pgxpool.Pool used by PostgresStore
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store on PostGIS. Geometries are sent as EWKB through COPY
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects to PostGIS database
func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps existing pool
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var postgresMigration = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE TABLE IF NOT EXISTS sidewalk_runs (
		run_id     UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sidewalk_roads (
		run_id   UUID NOT NULL REFERENCES sidewalk_runs(run_id),
		road_id  INTEGER NOT NULL,
		osm_id   BIGINT NOT NULL,
		category TEXT NOT NULL,
		name     TEXT,
		highway  TEXT,
		sidewalk TEXT,
		lanes    INTEGER,
		length   DOUBLE PRECISION,
		geom     geometry(LineString, 4326) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sidewalk_offsets (
		run_id    UUID NOT NULL REFERENCES sidewalk_runs(run_id),
		offset_id INTEGER NOT NULL,
		kind      TEXT NOT NULL,
		road_id   INTEGER NOT NULL,
		node_id   BIGINT,
		side      TEXT,
		geom      geometry(LineString, 4326) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sidewalk_intersections (
		run_id  UUID NOT NULL REFERENCES sidewalk_runs(run_id),
		node_id BIGINT NOT NULL,
		names   TEXT[],
		osm_ids BIGINT[],
		geom    geometry(Point, 4326) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sidewalk_networks (
		run_id   UUID NOT NULL REFERENCES sidewalk_runs(run_id),
		category TEXT NOT NULL,
		geom     geometry(MultiLineString, 4326) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sidewalk_roads_geom ON sidewalk_roads USING GIST (geom)`,
	`CREATE INDEX IF NOT EXISTS idx_sidewalk_offsets_geom ON sidewalk_offsets USING GIST (geom)`,
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range postgresMigration {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "postgres: migrate")
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Save copies result inside single transaction
func (s *PostgresStore) Save(ctx context.Context, runID string, res *osm2sidewalk.Result) error {
	tables, err := postgresRows(runID, res)
	if err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "postgres: begin")
	}
	if _, err := tx.Exec(ctx, `INSERT INTO sidewalk_runs (run_id) VALUES ($1)`, runID); err != nil {
		tx.Rollback(ctx)
		return errors.Wrap(err, "postgres: insert run")
	}
	for _, table := range tables {
		if _, err := CopyFrom(ctx, tx, table.name, table.columns, table.rows); err != nil {
			tx.Rollback(ctx)
			return err
		}
	}
	return errors.Wrap(tx.Commit(ctx), "postgres: commit")
}

// Copier is anything able to run COPY: pool, connection or transaction
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// CopyFrom bulk-inserts rows into a table using PostgreSQL COPY protocol.
func CopyFrom(ctx context.Context, copier Copier, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := copier.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, errors.Wrapf(err, "postgres: COPY INTO %s", table)
	}
	return n, nil
}

type copyTable struct {
	name    string
	columns []string
	rows    [][]any
}

func postgresRows(runID string, res *osm2sidewalk.Result) ([]copyTable, error) {
	roads := make([][]any, 0, len(res.Roads))
	for _, road := range res.Roads {
		line, _ := road.Geometry().AsLine()
		wkb, err := lineEWKB(line)
		if err != nil {
			return nil, errors.Wrapf(err, "postgres: encode road %d", road.ID)
		}
		roads = append(roads, []any{runID, int32(road.ID), road.Attributes.WayID, road.Category.String(), road.Attributes.Name, road.Attributes.Highway, road.Attributes.Sidewalk.String(), int32(road.Attributes.Lanes), road.Length(), wkb})
	}

	offsets := make([][]any, 0, len(res.Offsets))
	for i, off := range res.Offsets {
		line, _ := off.Geom.AsLine()
		wkb, err := lineEWKB(line)
		if err != nil {
			return nil, errors.Wrapf(err, "postgres: encode offset %d", i)
		}
		offsets = append(offsets, []any{runID, int32(i), off.Kind.String(), int32(off.Road), int64(off.Node), offsetSide(off), wkb})
	}

	intersections := make([][]any, 0, len(res.Intersections))
	for _, item := range res.Intersections {
		wkb, err := ewkb.Marshal(geom.NewPointFlat(geom.XY, []float64{item.Location.Lon, item.Location.Lat}).SetSRID(srid), ewkb.NDR)
		if err != nil {
			return nil, errors.Wrapf(err, "postgres: encode intersection %d", item.Node)
		}
		intersections = append(intersections, []any{runID, int64(item.Node), item.Names, item.WayIDs, wkb})
	}

	names, nets := networks(res)
	networkRows := make([][]any, 0, len(nets))
	for i, net := range nets {
		mls := geom.NewMultiLineString(geom.XY).SetSRID(srid)
		for _, line := range net.Lines() {
			if err := mls.Push(geom.NewLineStringFlat(geom.XY, flatCoords(line))); err != nil {
				return nil, errors.Wrapf(err, "postgres: build %s network", names[i])
			}
		}
		wkb, err := ewkb.Marshal(mls, ewkb.NDR)
		if err != nil {
			return nil, errors.Wrapf(err, "postgres: encode %s network", names[i])
		}
		networkRows = append(networkRows, []any{runID, names[i], wkb})
	}

	return []copyTable{
		{tableRoads, roadColumns, roads},
		{tableOffsets, offsetColumns, offsets},
		{tableIntersections, intersectionColumns, intersections},
		{tableNetworks, networkColumns, networkRows},
	}, nil
}

func flatCoords(line []osm2sidewalk.Location) []float64 {
	flat := make([]float64, 0, 2*len(line))
	for _, loc := range line {
		flat = append(flat, loc.Lon, loc.Lat)
	}
	return flat
}

func lineEWKB(line []osm2sidewalk.Location) ([]byte, error) {
	return ewkb.Marshal(geom.NewLineStringFlat(geom.XY, flatCoords(line)).SetSRID(srid), ewkb.NDR)
}
