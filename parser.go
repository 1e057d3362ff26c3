package osm2sidewalk

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Parser runs whole pipeline for single OSM file: ingestion, classification and network construction
type Parser struct {
	filename       string
	logger         *zap.Logger
	loaderOptions  []func(*OSMLoader)
	builderOptions []func(*Builder)
}

func (parser *Parser) String() string {
	return fmt.Sprintf(`
Network parser parameters:
	filename: '%s'
	loader options: %d
	builder options: %d
	`,
		parser.filename,
		len(parser.loaderOptions),
		len(parser.builderOptions),
	)
}

func NewParser(fileName string, options ...func(*Parser)) *Parser {
	parser := &Parser{
		filename: fileName,
		logger:   zap.NewNop(),
	}
	for _, option := range options {
		option(parser)
	}
	return parser
}

func WithParserLogger(logger *zap.Logger) func(*Parser) {
	return func(parser *Parser) {
		if logger != nil {
			parser.logger = logger
		}
	}
}

func WithLoaderOptions(options ...func(*OSMLoader)) func(*Parser) {
	return func(parser *Parser) {
		parser.loaderOptions = append(parser.loaderOptions, options...)
	}
}

func WithBuilderOptions(options ...func(*Builder)) func(*Parser) {
	return func(parser *Parser) {
		parser.builderOptions = append(parser.builderOptions, options...)
	}
}

// Run loads file, feeds roads to Builder in file order and builds networks
func (parser *Parser) Run(ctx context.Context) (*Result, error) {
	loaderOptions := append([]func(*OSMLoader){WithLoaderLogger(parser.logger)}, parser.loaderOptions...)
	data, err := NewOSMLoader(parser.filename, loaderOptions...).Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "Can't parse OSM data")
	}
	builderOptions := append([]func(*Builder){WithLogger(parser.logger), WithCrossingPredicate(data.IsCrossing)}, parser.builderOptions...)
	builder := NewBuilder(data.Locations, builderOptions...)

	parser.logger.Info("Registering roads...")
	st := time.Now()
	for _, req := range data.Requests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := builder.AddRoad(req); err != nil {
			return nil, err
		}
	}
	parser.logger.Info("Roads registered", zap.Int("roads", len(data.Requests)), zap.Duration("elapsed", time.Since(st)))
	return builder.Build()
}
