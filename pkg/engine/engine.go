package engine

import (
	"github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/spatialindex"
	"go.uber.org/zap"
)

type Config struct {
	GraphFile    string
	SnapRadiusKm float64
	MaxTableSize int

	// bounds the search heaps of all queries in flight, 0 = unbounded
	MaxSearchHeaps int
	Workers        int
}

type Engine struct {
	routingEngine *routing.RoutingEngine
	rtree         *spatialindex.Rtree
	snapper       *spatialindex.Snapper
}

func (e *Engine) GetRoutingEngine() *routing.RoutingEngine {
	return e.routingEngine
}

func (e *Engine) GetSnapper() *spatialindex.Snapper {
	return e.snapper
}

func NewEngine(cfg Config, logger *zap.Logger) (*Engine, error) {
	logger.Info("Starting matrix query engine...")

	logger.Info("Reading graph from ", zap.String("graphFilePath", cfg.GraphFile))
	graph, err := datastructure.ReadGraph(cfg.GraphFile)
	if err != nil {
		return nil, err
	}
	logger.Info("Graph loaded",
		zap.Int("nodes", graph.NumberOfNodes()),
		zap.Int("segments", graph.GetRoadNetwork().NumberOfSegments()),
		zap.Bool("contracted", graph.IsContracted()),
		zap.Uint64("checksum", graph.GetChecksum()))

	return NewEngineFromGraph(graph, cfg, logger), nil
}

// NewEngineFromGraph wires an already loaded graph into the spatial index and routing engine.
func NewEngineFromGraph(graph *datastructure.Graph, cfg Config, logger *zap.Logger) *Engine {
	rt := spatialindex.NewRtree()
	rt.Build(graph.GetRoadNetwork(), cfg.SnapRadiusKm/4, logger)

	return &Engine{
		routingEngine: routing.NewRoutingEngine(graph, cfg.MaxTableSize, cfg.MaxSearchHeaps, cfg.Workers, logger),
		rtree:         rt,
		snapper:       spatialindex.NewSnapper(graph.GetRoadNetwork(), rt, cfg.SnapRadiusKm),
	}
}
