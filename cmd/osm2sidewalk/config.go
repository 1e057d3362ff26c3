package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is configuration of the whole run
type Config struct {
	Input          InputConfig          `yaml:"input" mapstructure:"input"`
	Output         OutputConfig         `yaml:"output" mapstructure:"output"`
	Geometry       GeometryConfig       `yaml:"geometry" mapstructure:"geometry"`
	Classification ClassificationConfig `yaml:"classification" mapstructure:"classification"`
	Store          StoreConfig          `yaml:"store" mapstructure:"store"`
	Routing        RoutingConfig        `yaml:"routing" mapstructure:"routing"`
	Log            LogConfig            `yaml:"log" mapstructure:"log"`
}

type InputConfig struct {
	File       string `yaml:"file" mapstructure:"file"`
	PBFWorkers int    `yaml:"pbf_workers" mapstructure:"pbf_workers"`
}

type OutputConfig struct {
	Dir        string   `yaml:"dir" mapstructure:"dir"`
	Prefix     string   `yaml:"prefix" mapstructure:"prefix"`
	GeomFormat string   `yaml:"geom_format" mapstructure:"geom_format"`
	Formats    []string `yaml:"formats" mapstructure:"formats"`
}

// GeometryConfig distances are in meters
type GeometryConfig struct {
	SidewalkOffsetM    float64 `yaml:"sidewalk_offset_m" mapstructure:"sidewalk_offset_m"`
	CrossingHalfWidthM float64 `yaml:"crossing_half_width_m" mapstructure:"crossing_half_width_m"`
	MaxSegmentM        float64 `yaml:"max_segment_m" mapstructure:"max_segment_m"`
}

type ClassificationConfig struct {
	Profile         string `yaml:"profile" mapstructure:"profile"`
	SplitPedestrian bool   `yaml:"split_pedestrian" mapstructure:"split_pedestrian"`
}

type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

type RoutingConfig struct {
	Enabled  bool `yaml:"enabled" mapstructure:"enabled"`
	Contract bool `yaml:"contract" mapstructure:"contract"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads config.yaml (optional, or explicit file), OSM2SIDEWALK_* environment variables and defaults
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("OSM2SIDEWALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.file", "map.osm.pbf")
	v.SetDefault("input.pbf_workers", 4)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.prefix", "sidewalk")
	v.SetDefault("output.geom_format", "wkt")
	v.SetDefault("output.formats", []string{"csv"})
	v.SetDefault("geometry.sidewalk_offset_m", 3.0)
	v.SetDefault("geometry.crossing_half_width_m", 0.0)
	v.SetDefault("geometry.max_segment_m", 0.0)
	v.SetDefault("classification.profile", "")
	v.SetDefault("classification.split_pedestrian", true)
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.dsn", "")
	v.SetDefault("routing.enabled", false)
	v.SetDefault("routing.contract", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return errors.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return errors.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
