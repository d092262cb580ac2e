package usecases

import (
	"testing"

	"github.com/lintang-b-s/navigatorx-matrix/pkg"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/engine"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/preprocessor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	onFirstBlock  = geo.NewCoordinate(-7.76001, 110.3705)
	onSecondBlock = geo.NewCoordinate(-7.76001, 110.3735)
	offRoad       = geo.NewCoordinate(-7.70, 110.30)
)

// A - B - C along one street, 100 deciseconds per block in both directions
func buildStreetEngine(t *testing.T) *engine.Engine {
	t.Helper()
	rn := datastructure.NewRoadNetwork()
	a := rn.AddVertex(-7.760, 110.370)
	b := rn.AddVertex(-7.760, 110.372)
	c := rn.AddVertex(-7.760, 110.374)
	rn.AddSegment(datastructure.NewRoadSegment(a, b, true, true, 100, 100, 220, pkg.RESIDENTIAL))
	rn.AddSegment(datastructure.NewRoadSegment(b, c, true, true, 100, 100, 220, pkg.RESIDENTIAL))

	graph := preprocessor.NewPreprocessor(rn, costfunction.NewTimeCostFunction(0), true, zap.NewNop()).Run()
	return engine.NewEngineFromGraph(graph, engine.Config{SnapRadiusKm: 0.05, MaxTableSize: 10, Workers: 1},
		zap.NewNop())
}

type countingSnapper struct {
	Snapper
	calls int
}

func (c *countingSnapper) Snap(coord geo.Coordinate) datastructure.PhantomNode {
	c.calls++
	return c.Snapper.Snap(coord)
}

func newService(t *testing.T, e *engine.Engine) (*MatrixService, *countingSnapper) {
	t.Helper()
	snapper := &countingSnapper{Snapper: e.GetSnapper()}
	ms, err := NewMatrixService(zap.NewNop(), e.GetRoutingEngine(), snapper, 128)
	require.NoError(t, err)
	return ms, snapper
}

func TestMatrixServiceComputeMatrix(t *testing.T) {
	e := buildStreetEngine(t)
	ms, _ := newService(t, e)

	points := []geo.Coordinate{onFirstBlock, onSecondBlock, offRoad}
	result, err := ms.ComputeMatrix(points, points, nil, nil, 0)
	require.NoError(t, err)

	m := result.Matrix
	require.Equal(t, 3, m.Rows())
	require.Equal(t, 3, m.Cols())

	d, ok := m.Get(0, 1).Distance()
	require.True(t, ok)
	assert.Equal(t, int32(150), d)
	d, ok = m.Get(1, 0).Distance()
	require.True(t, ok)
	assert.Equal(t, int32(150), d)
	d, ok = m.Get(0, 0).Distance()
	require.True(t, ok)
	assert.Zero(t, d)

	assert.Equal(t, routing.CellDestInvalid, m.Get(0, 2).Kind())
	assert.Equal(t, routing.CellOriginInvalid, m.Get(2, 0).Kind())

	assert.NotEmpty(t, result.SourceHints[0])
	assert.Empty(t, result.SourceHints[2])
	assert.Equal(t, e.GetRoutingEngine().GetGraph().GetChecksum(), result.Checksum)
}

func TestMatrixServiceHints(t *testing.T) {
	e := buildStreetEngine(t)
	ms, _ := newService(t, e)

	points := []geo.Coordinate{onFirstBlock, onSecondBlock}
	first, err := ms.ComputeMatrix(points, points, nil, nil, 0)
	require.NoError(t, err)

	hinted, snapper := newService(t, e)
	second, err := hinted.ComputeMatrix(points, points, first.SourceHints, first.DestinationHints, first.Checksum)
	require.NoError(t, err)
	assert.Zero(t, snapper.calls)
	assert.Equal(t, first.Matrix.Row(0), second.Matrix.Row(0))

	stale, snapper := newService(t, e)
	_, err = stale.ComputeMatrix(points, points, first.SourceHints, first.DestinationHints, first.Checksum+1)
	require.NoError(t, err)
	assert.Equal(t, 2, snapper.calls)
}

func TestMatrixServiceSnapCache(t *testing.T) {
	e := buildStreetEngine(t)
	ms, snapper := newService(t, e)

	p1 := ms.Snap(onFirstBlock)
	p2 := ms.Snap(geo.NewCoordinate(onFirstBlock.Lat+1e-8, onFirstBlock.Lon))
	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, snapper.calls)
}

func TestHintEncoding(t *testing.T) {
	p := datastructure.NewPhantomNode(4, 10, 20, true, onFirstBlock, 0.3)

	hint, err := EncodeHint(77, p)
	require.NoError(t, err)

	got, err := DecodeHint(hint, 77)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = DecodeHint(hint, 78)
	assert.ErrorIs(t, err, ErrHintChecksumMismatch)

	_, err = DecodeHint("!!", 77)
	assert.Error(t, err)
}
