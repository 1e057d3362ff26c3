package osm2sidewalk

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OSMScanner is common part of PBF and XML scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// OSMData is classified content of OSM file
type OSMData struct {
	// Road requests in file order
	Requests  []RoadRequest
	Locations LocationMap
	Crossings map[NodeID]struct{}
}

// IsCrossing implements CrossingPredicate
func (data *OSMData) IsCrossing(id NodeID) bool {
	_, ok := data.Crossings[id]
	return ok
}

// OSMLoader reads OSM file in two passes: ways first, then nodes referenced by kept ways
type OSMLoader struct {
	fileName        string
	profile         *Profile
	logger          *zap.Logger
	splitPedestrian bool
	workers         int
}

func NewOSMLoader(fileName string, options ...func(*OSMLoader)) *OSMLoader {
	loader := &OSMLoader{
		fileName:        fileName,
		profile:         DefaultProfile(),
		logger:          zap.NewNop(),
		splitPedestrian: true,
		workers:         4,
	}
	for _, option := range options {
		option(loader)
	}
	return loader
}

func WithProfile(profile *Profile) func(*OSMLoader) {
	return func(loader *OSMLoader) {
		if profile != nil {
			loader.profile = profile
		}
	}
}

func WithLoaderLogger(logger *zap.Logger) func(*OSMLoader) {
	return func(loader *OSMLoader) {
		if logger != nil {
			loader.logger = logger
		}
	}
}

// WithSplitPedestrian splits pedestrian ways at crossing nodes
func WithSplitPedestrian(split bool) func(*OSMLoader) {
	return func(loader *OSMLoader) {
		loader.splitPedestrian = split
	}
}

// WithPBFWorkers sets number of PBF decoding goroutines
func WithPBFWorkers(workers int) func(*OSMLoader) {
	return func(loader *OSMLoader) {
		if workers > 0 {
			loader.workers = workers
		}
	}
}

type classifiedWay struct {
	id         osm.WayID
	nodes      []NodeID
	categories []Category
	attributes map[Category]RoadAttributes
}

// Load scans file and returns road requests with node locations and crossing flags
func (loader *OSMLoader) Load(ctx context.Context) (*OSMData, error) {
	loader.logger.Info("Scanning ways...", zap.String("file", loader.fileName))
	st := time.Now()
	ways := []classifiedWay{}
	nodesSeen := make(map[osm.NodeID]struct{})
	err := loader.scan(ctx, true, func(obj osm.Object) error {
		way, ok := obj.(*osm.Way)
		if !ok {
			return nil
		}
		categories := loader.profile.Classify(way.Tags)
		if len(categories) == 0 {
			return nil
		}
		item := classifiedWay{
			id:         way.ID,
			nodes:      make([]NodeID, len(way.Nodes)),
			categories: categories,
			attributes: make(map[Category]RoadAttributes, len(categories)),
		}
		for i, wayNode := range way.Nodes {
			item.nodes[i] = NodeID(wayNode.ID)
			nodesSeen[wayNode.ID] = struct{}{}
		}
		for _, category := range categories {
			item.attributes[category] = loader.profile.Attributes(way, category)
		}
		ways = append(ways, item)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Can't scan ways")
	}
	loader.logger.Info("Ways scanned", zap.Int("ways", len(ways)), zap.Duration("elapsed", time.Since(st)))

	loader.logger.Info("Scanning nodes...")
	st = time.Now()
	data := &OSMData{
		Requests:  []RoadRequest{},
		Locations: make(LocationMap, len(nodesSeen)),
		Crossings: make(map[NodeID]struct{}),
	}
	err = loader.scan(ctx, false, func(obj osm.Object) error {
		node, ok := obj.(*osm.Node)
		if !ok {
			return nil
		}
		if _, ok := nodesSeen[node.ID]; !ok {
			return nil
		}
		data.Locations[NodeID(node.ID)] = Location{Lon: node.Lon, Lat: node.Lat}
		if IsCrossingNode(node.Tags) {
			data.Crossings[NodeID(node.ID)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Can't scan nodes")
	}
	loader.logger.Info("Nodes scanned", zap.Int("nodes", len(data.Locations)), zap.Int("crossings", len(data.Crossings)), zap.Duration("elapsed", time.Since(st)))

	for _, way := range ways {
		for _, category := range way.categories {
			pieces := [][]NodeID{way.nodes}
			if category == CATEGORY_PEDESTRIAN && loader.splitPedestrian {
				pieces = splitAt(way.nodes, data.IsCrossing)
			}
			for _, piece := range pieces {
				data.Requests = append(data.Requests, RoadRequest{
					Nodes:      piece,
					Category:   category,
					Attributes: way.attributes[category],
				})
			}
		}
	}
	return data, nil
}

// splitAt cuts node sequence at inner nodes satisfying predicate; split node belongs to both pieces
func splitAt(nodes []NodeID, predicate func(NodeID) bool) [][]NodeID {
	pieces := [][]NodeID{}
	start := 0
	for i := 1; i < len(nodes)-1; i++ {
		if predicate(nodes[i]) {
			pieces = append(pieces, nodes[start:i+1])
			start = i
		}
	}
	return append(pieces, nodes[start:])
}

// scan opens file and feeds every object to handler. File is reopened on every pass since compressed streams can't seek
func (loader *OSMLoader) scan(ctx context.Context, waysPass bool, handler func(osm.Object) error) error {
	file, err := os.Open(loader.fileName)
	if err != nil {
		return errors.Wrap(err, "File open")
	}
	defer file.Close()

	var scanner OSMScanner
	name := strings.ToLower(loader.fileName)
	switch {
	case strings.HasSuffix(name, ".pbf"):
		pbfScanner := osmpbf.New(ctx, file, loader.workers)
		pbfScanner.SkipRelations = true
		pbfScanner.SkipNodes = waysPass
		pbfScanner.SkipWays = !waysPass
		scanner = pbfScanner
	case strings.HasSuffix(name, ".bz2"):
		var reader io.ReadCloser
		reader, err = bzip2.NewReader(file, nil)
		if err != nil {
			return errors.Wrap(err, "Can't open bzip2 stream")
		}
		defer reader.Close()
		scanner = osmxml.New(ctx, reader)
	case strings.HasSuffix(name, ".osm"), strings.HasSuffix(name, ".xml"):
		scanner = osmxml.New(ctx, file)
	default:
		return errors.Errorf("File extension of '%s' is not handled yet", loader.fileName)
	}
	defer scanner.Close()

	for scanner.Scan() {
		if err := handler(scanner.Object()); err != nil {
			return err
		}
	}
	if scanner.Err() != nil {
		return errors.Wrap(scanner.Err(), "Scanner error")
	}
	return nil
}
