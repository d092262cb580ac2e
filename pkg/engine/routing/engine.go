package routing

import (
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/util"
	"go.uber.org/zap"
)

type RoutingEngine struct {
	graph         *da.Graph
	primitive     SearchPrimitive
	pool          *HeapPool
	matrix        *MatrixRouting
	bidirectional *BidirectionalSearch
	maxTableSize  int
	logger        *zap.Logger
}

// NewRoutingEngine. maxTableSize bounds both matrix dimensions, maxSearchHeaps the heaps
// in use by all concurrent queries (0 = unbounded for both). workers > 1 runs matrix rows in parallel.
func NewRoutingEngine(graph *da.Graph, maxTableSize, maxSearchHeaps, workers int, logger *zap.Logger) *RoutingEngine {
	return NewRoutingEngineWithPrimitive(graph, NewBasicRouting(graph.GetQueryGraph()), maxTableSize, maxSearchHeaps,
		workers, logger)
}

func NewRoutingEngineWithPrimitive(graph *da.Graph, primitive SearchPrimitive, maxTableSize, maxSearchHeaps,
	workers int, logger *zap.Logger) *RoutingEngine {
	pool := NewHeapPool(graph.NumberOfNodes(), maxSearchHeaps)
	stallOnDemand := graph.IsContracted()
	return &RoutingEngine{
		graph:         graph,
		primitive:     primitive,
		pool:          pool,
		matrix:        NewMatrixRouting(primitive, pool, stallOnDemand, workers, logger),
		bidirectional: NewBidirectionalSearch(primitive, pool, stallOnDemand),
		maxTableSize:  maxTableSize,
		logger:        logger,
	}
}

func (re *RoutingEngine) GetGraph() *da.Graph {
	return re.graph
}

func (re *RoutingEngine) GetHeapPool() *HeapPool {
	return re.pool
}

func (re *RoutingEngine) ComputeMatrix(origins, destinations []da.PhantomNode) (*Matrix, error) {
	rows, cols := len(origins), len(destinations)
	if re.maxTableSize > 0 && rows*cols > re.maxTableSize*re.maxTableSize {
		return nil, util.WrapErrorf(nil, util.ErrResourceExhausted,
			"matrix of %dx%d exceeds the maximum table size %d", rows, cols, re.maxTableSize)
	}
	if err := re.checkPhantomNodes(origins); err != nil {
		return nil, err
	}
	if err := re.checkPhantomNodes(destinations); err != nil {
		return nil, err
	}
	return re.matrix.ComputeMatrix(origins, destinations)
}

func (re *RoutingEngine) ShortestPath(source, target da.PhantomNode) (int32, bool, error) {
	return re.bidirectional.ShortestPath(source, target)
}

func (re *RoutingEngine) checkPhantomNodes(nodes []da.PhantomNode) error {
	n := re.graph.NumberOfNodes()
	for i, p := range nodes {
		if p.IsResolved() && !p.IsValid(n) {
			return util.WrapErrorf(nil, util.ErrBadParamInput, "location %d is not snapped onto this graph", i)
		}
	}
	return nil
}
