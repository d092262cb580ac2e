package routing

import (
	"testing"

	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMatrixRouting(g *da.Graph, workers int) (*MatrixRouting, *HeapPool) {
	pool := NewHeapPool(g.NumberOfNodes(), 0)
	return NewMatrixRouting(NewBasicRouting(g.GetQueryGraph()), pool, g.IsContracted(), workers, zap.NewNop()), pool
}

func assertDistance(t *testing.T, want int32, c Cell) {
	t.Helper()
	got, ok := c.Distance()
	require.True(t, ok, "expected a distance, got %s", c)
	assert.Equal(t, want, got)
}

func TestMatrixTwoPointsBothDirections(t *testing.T) {
	// segment A has nodes 0/1, segment B has nodes 2/3
	g := plainGraph(4, []da.InputEdge{
		da.NewInputEdge(0, 2, 100, true, false),
		da.NewInputEdge(3, 1, 100, true, false),
	})
	mr, pool := newMatrixRouting(g, 1)

	a := phantom(0, 0, 0, true)
	b := phantom(2, 0, 0, true)
	m, err := mr.ComputeMatrix([]da.PhantomNode{a, b}, []da.PhantomNode{a, b})
	require.NoError(t, err)

	assertDistance(t, 0, m.Get(0, 0))
	assertDistance(t, 100, m.Get(0, 1))
	assertDistance(t, 100, m.Get(1, 0))
	assertDistance(t, 0, m.Get(1, 1))
	assert.Zero(t, pool.Outstanding())
}

func TestMatrixSecondPassRecoversCompanionApproach(t *testing.T) {
	// the destination is only reachable through its companion node 3
	g := plainGraph(4, []da.InputEdge{
		da.NewInputEdge(0, 3, 50, true, false),
	})
	mr, _ := newMatrixRouting(g, 1)

	origin := phantom(0, 0, 0, false)
	dest := phantom(2, 10, 20, true)

	first, err := mr.runPass(passOne, []da.PhantomNode{origin}, []da.PhantomNode{dest})
	require.NoError(t, err)
	assert.Equal(t, CellNoPath, first.Get(0, 0).Kind())

	m, err := mr.ComputeMatrix([]da.PhantomNode{origin}, []da.PhantomNode{dest})
	require.NoError(t, err)
	assertDistance(t, 70, m.Get(0, 0))
}

func TestMatrixIsolatedOrigin(t *testing.T) {
	g := plainGraph(6, []da.InputEdge{
		da.NewInputEdge(0, 2, 100, true, false),
	})
	mr, _ := newMatrixRouting(g, 1)

	m, err := mr.ComputeMatrix(
		[]da.PhantomNode{phantom(4, 0, 0, true)},
		[]da.PhantomNode{phantom(2, 5, 5, true), phantom(4, 7, 9, true)})
	require.NoError(t, err)

	assert.Equal(t, CellNoPath, m.Get(0, 0).Kind())
	assertDistance(t, 7, m.Get(0, 1))
}

func TestMatrixUnresolvedLocations(t *testing.T) {
	g := plainGraph(4, []da.InputEdge{
		da.NewInputEdge(0, 2, 100, true, false),
		da.NewInputEdge(3, 1, 100, true, false),
	})
	mr, pool := newMatrixRouting(g, 1)

	origins := []da.PhantomNode{phantom(0, 0, 0, true), unresolved()}
	destinations := []da.PhantomNode{unresolved(), phantom(2, 0, 0, true)}
	m, err := mr.ComputeMatrix(origins, destinations)
	require.NoError(t, err)

	assert.Equal(t, CellDestInvalid, m.Get(0, 0).Kind())
	assertDistance(t, 100, m.Get(0, 1))
	assert.Equal(t, CellOriginInvalid, m.Get(1, 0).Kind())
	assert.Equal(t, CellOriginInvalid, m.Get(1, 1).Kind())

	stats := m.Stats()
	assert.Equal(t, [2]int{1, 1}, stats.ForwardSearches)
	assert.Equal(t, [2]int{1, 1}, stats.ReverseDrains)
	assert.Zero(t, pool.Outstanding())
}

func TestMatrixEmptyDimensions(t *testing.T) {
	g := plainGraph(2, nil)
	mr, pool := newMatrixRouting(g, 1)

	m, err := mr.ComputeMatrix(nil, []da.PhantomNode{phantom(0, 0, 0, true)})
	require.NoError(t, err)
	assert.Equal(t, 0, m.Rows())
	assert.Equal(t, 1, m.Cols())

	m, err = mr.ComputeMatrix([]da.PhantomNode{phantom(0, 0, 0, true)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Rows())
	assert.Equal(t, 0, m.Cols())
	assert.Zero(t, pool.Outstanding())
}

func TestMatrixSearchCounts(t *testing.T) {
	g := buildGridGraph(3, false)
	origins := gridPhantoms(g, true)[:4]
	destinations := gridPhantoms(g, false)[:5]
	destinations[2] = unresolved()

	counting := &countingPrimitive{SearchPrimitive: NewBasicRouting(g.GetQueryGraph())}
	mr := NewMatrixRouting(counting, NewHeapPool(g.NumberOfNodes(), 0), false, 1, zap.NewNop())

	m, err := mr.ComputeMatrix(origins, destinations)
	require.NoError(t, err)

	stats := m.Stats()
	assert.Equal(t, [2]int{4, 4}, stats.ForwardSearches)
	assert.Equal(t, [2]int{4, 4}, stats.ReverseDrains)
	// one match per resolved cell and pass
	assert.Equal(t, 2*4*4, counting.matches)
}

func TestMatrixMatchesReference(t *testing.T) {
	const size = 4
	numberOfNodes, edges := buildEdgeBasedGrid(size)
	reference := allPairs(numberOfNodes, edges)

	for _, contract := range []bool{false, true} {
		g := buildGridGraph(size, contract)
		origins := gridPhantoms(g, true)
		destinations := gridPhantoms(g, false)

		mr, pool := newMatrixRouting(g, 1)
		m, err := mr.ComputeMatrix(origins, destinations)
		require.NoError(t, err)

		for i, o := range origins {
			for j, d := range destinations {
				want, ok := referenceCell(reference, o, d)
				c := m.Get(i, j)
				if !ok {
					assert.Equal(t, CellNoPath, c.Kind(), "contract=%v cell (%d,%d)", contract, i, j)
					continue
				}
				got, isDistance := c.Distance()
				assert.True(t, isDistance, "contract=%v cell (%d,%d)", contract, i, j)
				assert.Equal(t, want, got, "contract=%v cell (%d,%d)", contract, i, j)
			}
		}
		assert.Zero(t, pool.Outstanding())
	}
}

func TestMatrixParallelRowsMatchSequential(t *testing.T) {
	for _, contract := range []bool{false, true} {
		g := buildGridGraph(4, contract)
		origins := gridPhantoms(g, true)
		destinations := gridPhantoms(g, false)
		origins[3] = unresolved()

		sequential, _ := newMatrixRouting(g, 1)
		parallel, pool := newMatrixRouting(g, 4)

		want, err := sequential.ComputeMatrix(origins, destinations)
		require.NoError(t, err)
		got, err := parallel.ComputeMatrix(origins, destinations)
		require.NoError(t, err)

		assert.Equal(t, want.cells, got.cells)
		assert.Equal(t, want.Stats(), got.Stats())
		assert.Zero(t, pool.Outstanding())
	}
}

func TestMatrixDeterministic(t *testing.T) {
	g := buildGridGraph(3, true)
	mr, _ := newMatrixRouting(g, 2)
	origins := gridPhantoms(g, true)
	destinations := gridPhantoms(g, false)

	first, err := mr.ComputeMatrix(origins, destinations)
	require.NoError(t, err)
	second, err := mr.ComputeMatrix(origins, destinations)
	require.NoError(t, err)
	assert.Equal(t, first.cells, second.cells)
}

func TestMatrixHeapExhaustion(t *testing.T) {
	g := plainGraph(4, []da.InputEdge{da.NewInputEdge(0, 2, 100, true, false)})
	pool := NewHeapPool(g.NumberOfNodes(), 3)
	mr := NewMatrixRouting(NewBasicRouting(g.GetQueryGraph()), pool, false, 1, zap.NewNop())

	_, err := mr.ComputeMatrix([]da.PhantomNode{phantom(0, 0, 0, true)},
		[]da.PhantomNode{phantom(0, 0, 0, true), phantom(2, 0, 0, true)})
	require.Error(t, err)
	assert.Zero(t, pool.Outstanding())
}
