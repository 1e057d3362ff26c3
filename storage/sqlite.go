package storage

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/LdDl/osm2sidewalk"
)

// SQLiteStore implements Store using modernc.org/sqlite. Geometries are stored as WKT text
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sidewalk_runs (
	run_id     TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS sidewalk_roads (
	run_id   TEXT NOT NULL REFERENCES sidewalk_runs(run_id),
	road_id  INTEGER NOT NULL,
	osm_id   INTEGER NOT NULL,
	category TEXT NOT NULL,
	name     TEXT,
	highway  TEXT,
	sidewalk TEXT,
	lanes    INTEGER,
	length   REAL,
	geom     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sidewalk_offsets (
	run_id    TEXT NOT NULL REFERENCES sidewalk_runs(run_id),
	offset_id INTEGER NOT NULL,
	kind      TEXT NOT NULL,
	road_id   INTEGER NOT NULL,
	node_id   INTEGER,
	side      TEXT,
	geom      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sidewalk_intersections (
	run_id  TEXT NOT NULL REFERENCES sidewalk_runs(run_id),
	node_id INTEGER NOT NULL,
	names   TEXT,
	osm_ids TEXT,
	geom    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sidewalk_networks (
	run_id   TEXT NOT NULL REFERENCES sidewalk_runs(run_id),
	category TEXT NOT NULL,
	geom     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sidewalk_roads_run_id ON sidewalk_roads(run_id);
CREATE INDEX IF NOT EXISTS idx_sidewalk_offsets_run_id ON sidewalk_offsets(run_id);
CREATE INDEX IF NOT EXISTS idx_sidewalk_intersections_run_id ON sidewalk_intersections(run_id);
CREATE INDEX IF NOT EXISTS idx_sidewalk_networks_run_id ON sidewalk_networks(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return errors.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save writes result inside single transaction
func (s *SQLiteStore) Save(ctx context.Context, runID string, res *osm2sidewalk.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "sqlite: begin")
	}
	if err := s.save(ctx, tx, runID, res); err != nil {
		tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) save(ctx context.Context, tx *sql.Tx, runID string, res *osm2sidewalk.Result) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO sidewalk_runs (run_id, created_at) VALUES (?, ?)`, runID, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "sqlite: insert run")
	}

	err = insertRows(ctx, tx, tableRoads, roadColumns, len(res.Roads), func(i int) []any {
		road := res.Roads[i]
		line, _ := road.Geometry().AsLine()
		return []any{runID, int(road.ID), road.Attributes.WayID, road.Category.String(), road.Attributes.Name, road.Attributes.Highway, road.Attributes.Sidewalk.String(), road.Attributes.Lanes, road.Length(), osm2sidewalk.PrepareWKTLinestring(line)}
	})
	if err != nil {
		return err
	}

	err = insertRows(ctx, tx, tableOffsets, offsetColumns, len(res.Offsets), func(i int) []any {
		off := res.Offsets[i]
		line, _ := off.Geom.AsLine()
		return []any{runID, i, off.Kind.String(), int(off.Road), int64(off.Node), offsetSide(off), osm2sidewalk.PrepareWKTLinestring(line)}
	})
	if err != nil {
		return err
	}

	err = insertRows(ctx, tx, tableIntersections, intersectionColumns, len(res.Intersections), func(i int) []any {
		item := res.Intersections[i]
		osmIDs := make([]string, len(item.WayIDs))
		for j, id := range item.WayIDs {
			osmIDs[j] = strconv.FormatInt(id, 10)
		}
		return []any{runID, int64(item.Node), strings.Join(item.Names, ","), strings.Join(osmIDs, ","), osm2sidewalk.PrepareWKTPoint(item.Location)}
	})
	if err != nil {
		return err
	}

	names, nets := networks(res)
	return insertRows(ctx, tx, tableNetworks, networkColumns, len(nets), func(i int) []any {
		return []any{runID, names[i], nets[i].WKT()}
	})
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, columns []string, n int, row func(i int) []any) error {
	if n == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+table+" ("+strings.Join(columns, ", ")+") VALUES ("+placeholders+")")
	if err != nil {
		return errors.Wrapf(err, "sqlite: prepare insert into %s", table)
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
			return errors.Wrapf(err, "sqlite: insert into %s", table)
		}
	}
	return nil
}
