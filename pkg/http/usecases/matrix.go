package usecases

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
	"go.uber.org/zap"
)

// snapKey. coordinate rounded to 1e-6 degree (~0.1 m).
type snapKey struct {
	lat, lon int64
}

func newSnapKey(c geo.Coordinate) snapKey {
	return snapKey{
		lat: int64(math.Round(c.Lat * 1e6)),
		lon: int64(math.Round(c.Lon * 1e6)),
	}
}

type MatrixResult struct {
	Matrix           *routing.Matrix
	SourceHints      []string
	DestinationHints []string
	Checksum         uint64
}

type MatrixService struct {
	log       *zap.Logger
	engine    RoutingEngine
	snapper   Snapper
	snapCache *lru.Cache[snapKey, datastructure.PhantomNode]
}

func NewMatrixService(log *zap.Logger, engine RoutingEngine, snapper Snapper, snapCacheSize int) (*MatrixService,
	error) {
	cache, err := lru.New[snapKey, datastructure.PhantomNode](snapCacheSize)
	if err != nil {
		return nil, err
	}
	return &MatrixService{
		log:       log,
		engine:    engine,
		snapper:   snapper,
		snapCache: cache,
	}, nil
}

func (ms *MatrixService) Checksum() uint64 {
	return ms.engine.GetGraph().GetChecksum()
}

// ComputeMatrix snaps sources and destinations and runs the matrix search.
// hints are honoured only when checksum equals the loaded graph's checksum.
func (ms *MatrixService) ComputeMatrix(sources, destinations []geo.Coordinate, sourceHints,
	destinationHints []string, checksum uint64) (*MatrixResult, error) {
	useHints := checksum == ms.Checksum()

	origins := ms.resolve(sources, sourceHints, useHints)
	dests := ms.resolve(destinations, destinationHints, useHints)

	matrix, err := ms.engine.ComputeMatrix(origins, dests)
	if err != nil {
		return nil, err
	}

	return &MatrixResult{
		Matrix:           matrix,
		SourceHints:      ms.hints(origins),
		DestinationHints: ms.hints(dests),
		Checksum:         ms.Checksum(),
	}, nil
}

func (ms *MatrixService) resolve(coords []geo.Coordinate, hints []string, useHints bool) []datastructure.PhantomNode {
	graph := ms.engine.GetGraph()
	nodes := make([]datastructure.PhantomNode, len(coords))
	for i, c := range coords {
		if useHints && i < len(hints) && hints[i] != "" {
			p, err := DecodeHint(hints[i], graph.GetChecksum())
			if err == nil && p.IsValid(graph.NumberOfNodes()) {
				nodes[i] = p
				continue
			}
			ms.log.Debug("ignoring hint", zap.Int("index", i), zap.Error(err))
		}
		nodes[i] = ms.Snap(c)
	}
	return nodes
}

// Snap resolves one coordinate, going through the snap cache.
func (ms *MatrixService) Snap(c geo.Coordinate) datastructure.PhantomNode {
	key := newSnapKey(c)
	if p, ok := ms.snapCache.Get(key); ok {
		return p
	}
	p := ms.snapper.Snap(c)
	ms.snapCache.Add(key, p)
	return p
}

func (ms *MatrixService) hints(nodes []datastructure.PhantomNode) []string {
	checksum := ms.Checksum()
	hints := make([]string, len(nodes))
	for i, p := range nodes {
		if !p.IsResolved() {
			continue
		}
		h, err := EncodeHint(checksum, p)
		if err != nil {
			ms.log.Warn("cannot encode hint", zap.Int("index", i), zap.Error(err))
			continue
		}
		hints[i] = h
	}
	return hints
}
