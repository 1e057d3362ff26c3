package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LdDl/osm2sidewalk"
	"github.com/LdDl/osm2sidewalk/storage"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build sidewalk network from OSM file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd, cfg); err != nil {
			return err
		}
		if err := runBuild(cmd.Context(), cfg); err != nil {
			zap.L().Error("build failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	flags := buildCmd.Flags()
	flags.String("file", "", "OSM file: *.osm, *.xml, *.osm.bz2 or *.osm.pbf")
	flags.String("out", "", "Output directory")
	flags.String("prefix", "", "Prefix of output file names")
	flags.String("geomf", "", "Format of output geometry. Expected values: wkt / geojson / polyline")
	flags.StringSlice("formats", nil, "Output formats: csv, geojson, shapefile")
	flags.Float64("offset", 0, "Distance between road centerline and sidewalk (meters)")
	flags.String("profile", "", "YAML classification profile")
	flags.String("store", "", "Database sink: none / sqlite / postgres")
	flags.String("dsn", "", "Database connection string")
	flags.Bool("routing", false, "Export walk routing graph")
	flags.Bool("contract", false, "Prepare contraction hierarchies for walk routing graph")
}

// applyFlags overrides configuration by explicitly set flags
func applyFlags(cmd *cobra.Command, cfg *Config) error {
	flags := cmd.Flags()
	strs := map[string]*string{
		"file":    &cfg.Input.File,
		"out":     &cfg.Output.Dir,
		"prefix":  &cfg.Output.Prefix,
		"geomf":   &cfg.Output.GeomFormat,
		"profile": &cfg.Classification.Profile,
		"store":   &cfg.Store.Driver,
		"dsn":     &cfg.Store.DSN,
	}
	for name, target := range strs {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return errors.Wrapf(err, "flag --%s", name)
		}
		*target = value
	}
	if flags.Changed("formats") {
		formats, err := flags.GetStringSlice("formats")
		if err != nil {
			return errors.Wrap(err, "flag --formats")
		}
		cfg.Output.Formats = formats
	}
	if flags.Changed("offset") {
		offset, err := flags.GetFloat64("offset")
		if err != nil {
			return errors.Wrap(err, "flag --offset")
		}
		cfg.Geometry.SidewalkOffsetM = offset
	}
	if flags.Changed("routing") {
		enabled, err := flags.GetBool("routing")
		if err != nil {
			return errors.Wrap(err, "flag --routing")
		}
		cfg.Routing.Enabled = enabled
	}
	if flags.Changed("contract") {
		contract, err := flags.GetBool("contract")
		if err != nil {
			return errors.Wrap(err, "flag --contract")
		}
		cfg.Routing.Contract = contract
		if contract {
			cfg.Routing.Enabled = true
		}
	}
	return nil
}

func validateFormats(formats []string) error {
	for _, format := range formats {
		switch strings.ToLower(format) {
		case "csv", "geojson", "shapefile":
		default:
			return errors.Errorf("unknown output format '%s'", format)
		}
	}
	return nil
}

// runBuild ingests file, builds networks and writes every configured output. Output directory gets no files when any step fails
func runBuild(ctx context.Context, cfg *Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := zap.L()
	geomFormat, err := osm2sidewalk.ParseGeomFormat(cfg.Output.GeomFormat)
	if err != nil {
		return err
	}
	if err := validateFormats(cfg.Output.Formats); err != nil {
		return err
	}
	if cfg.Geometry.SidewalkOffsetM <= 0 {
		return errors.Errorf("sidewalk offset must be positive, got %f", cfg.Geometry.SidewalkOffsetM)
	}

	profile := osm2sidewalk.DefaultProfile()
	if cfg.Classification.Profile != "" {
		profile, err = osm2sidewalk.LoadProfile(cfg.Classification.Profile)
		if err != nil {
			return err
		}
	}

	parser := osm2sidewalk.NewParser(cfg.Input.File,
		osm2sidewalk.WithParserLogger(logger),
		osm2sidewalk.WithLoaderOptions(
			osm2sidewalk.WithProfile(profile),
			osm2sidewalk.WithSplitPedestrian(cfg.Classification.SplitPedestrian),
			osm2sidewalk.WithPBFWorkers(cfg.Input.PBFWorkers),
		),
		osm2sidewalk.WithBuilderOptions(
			osm2sidewalk.WithSidewalkOffset(cfg.Geometry.SidewalkOffsetM/1000.0),
			osm2sidewalk.WithCrossingHalfWidth(cfg.Geometry.CrossingHalfWidthM/1000.0),
			osm2sidewalk.WithMaxSegmentLength(cfg.Geometry.MaxSegmentM/1000.0),
		),
	)
	logger.Debug("parser prepared", zap.String("parser", parser.String()))

	st := time.Now()
	res, err := parser.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("network built",
		zap.Int("roads", len(res.Roads)),
		zap.Int("offsets", len(res.Offsets)),
		zap.Int("intersections", len(res.Intersections)),
		zap.Duration("elapsed", time.Since(st)),
	)

	// Files are staged next to their destination and moved only when every output succeeded
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return errors.Wrap(err, "Can't create output directory")
	}
	staging, err := os.MkdirTemp(cfg.Output.Dir, ".osm2sidewalk-")
	if err != nil {
		return errors.Wrap(err, "Can't create staging directory")
	}
	defer os.RemoveAll(staging)

	for _, format := range cfg.Output.Formats {
		switch strings.ToLower(format) {
		case "csv":
			err = res.ExportToCSV(staging, cfg.Output.Prefix, geomFormat)
		case "geojson":
			err = res.ExportToGeoJSON(staging, cfg.Output.Prefix)
		case "shapefile":
			err = res.ExportToShapefile(staging, cfg.Output.Prefix)
		}
		if err != nil {
			return errors.Wrapf(err, "Can't export %s", format)
		}
		logger.Info("exported", zap.String("format", format))
	}

	if cfg.Routing.Enabled {
		graph, err := osm2sidewalk.NewRoutingGraph(res.Walk, logger)
		if err != nil {
			return errors.Wrap(err, "Can't prepare routing graph")
		}
		if cfg.Routing.Contract {
			graph.Contract()
		}
		if err := graph.ExportToCSV(staging, cfg.Output.Prefix, geomFormat); err != nil {
			return errors.Wrap(err, "Can't export routing graph")
		}
	}

	if driver := strings.ToLower(cfg.Store.Driver); driver != "" && driver != "none" {
		if err := persist(ctx, cfg.Store, res); err != nil {
			return err
		}
	}
	return publish(staging, cfg.Output.Dir)
}

// publish moves every staged file into output directory
func publish(staging, dir string) error {
	entries, err := os.ReadDir(staging)
	if err != nil {
		return errors.Wrap(err, "Can't list staged files")
	}
	for _, entry := range entries {
		if err := os.Rename(filepath.Join(staging, entry.Name()), filepath.Join(dir, entry.Name())); err != nil {
			return errors.Wrapf(err, "Can't move %s", entry.Name())
		}
	}
	zap.L().Info("outputs written", zap.Int("files", len(entries)), zap.String("dir", dir))
	return nil
}

func persist(ctx context.Context, storeCfg StoreConfig, res *osm2sidewalk.Result) error {
	store, err := storage.Open(ctx, storeCfg.Driver, storeCfg.DSN)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	runID := storage.NewRunID()
	if err := store.Save(ctx, runID, res); err != nil {
		return err
	}
	zap.L().Info("result saved", zap.String("driver", storeCfg.Driver), zap.String("run_id", runID))
	return nil
}
