package preprocessor

import (
	"time"

	"github.com/lintang-b-s/navigatorx-matrix/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"go.uber.org/zap"
)

type Preprocessor struct {
	network      *da.RoadNetwork
	costFunction *costfunction.TimeFunction
	contract     bool
	logger       *zap.Logger
}

func NewPreprocessor(network *da.RoadNetwork, costFunction *costfunction.TimeFunction, contract bool,
	logger *zap.Logger) *Preprocessor {
	return &Preprocessor{
		network:      network,
		costFunction: costFunction,
		contract:     contract,
		logger:       logger,
	}
}

// Run builds the searchable graph: edge-based expansion, then either a contraction
// hierarchy or the plain forward/backward layout.
func (p *Preprocessor) Run() *da.Graph {
	start := time.Now()
	p.logger.Info("building edge-based graph",
		zap.Int("vertices", p.network.NumberOfVertices()),
		zap.Int("segments", p.network.NumberOfSegments()))

	numberOfNodes, edges := NewEdgeBasedGraphBuilder(p.network, p.costFunction).Build()
	p.logger.Info("edge-based graph built",
		zap.Int("nodes", numberOfNodes),
		zap.Int("edges", len(edges)))

	var queryEdges []da.InputEdge
	if p.contract {
		queryEdges = NewContractor(numberOfNodes, edges, p.logger).Contract()
	} else {
		queryEdges = PlainQueryEdges(edges)
	}

	graph := da.NewGraph(p.network, da.NewQueryGraph(numberOfNodes, queryEdges), p.contract)
	p.logger.Info("preprocessing done",
		zap.Bool("contracted", p.contract),
		zap.Uint64("checksum", graph.GetChecksum()),
		zap.Duration("took", time.Since(start)))
	return graph
}

// PreProcessing runs the pipeline and writes the graph file.
func (p *Preprocessor) PreProcessing(graphFile string) error {
	graph := p.Run()
	p.logger.Info("writing graph", zap.String("file", graphFile))
	return graph.WriteGraph(graphFile)
}
