package routing

import (
	"github.com/lintang-b-s/navigatorx-matrix/pkg"
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
)

// BidirectionalSearch. point to point query built on the same search primitive the
// matrix uses. one search per approach direction of the target.
type BidirectionalSearch struct {
	primitive     SearchPrimitive
	pool          *HeapPool
	stallOnDemand bool
}

func NewBidirectionalSearch(primitive SearchPrimitive, pool *HeapPool, stallOnDemand bool) *BidirectionalSearch {
	return &BidirectionalSearch{
		primitive:     primitive,
		pool:          pool,
		stallOnDemand: stallOnDemand,
	}
}

// ShortestPath. minimum over both approach directions of target. fails only when the
// heap budget is exhausted.
func (bs *BidirectionalSearch) ShortestPath(source, target da.PhantomNode) (int32, bool, error) {
	if !source.IsResolved() || !target.IsResolved() {
		return 0, false, nil
	}

	heaps, err := bs.pool.Acquire(1, 1)
	if err != nil {
		return 0, false, err
	}
	defer heaps.ReleaseAll()
	forward := heaps.AcquireForward()
	defer heaps.ReleaseForward(forward)
	reverse := heaps.Reverse(0)

	best, found := bs.search(forward, reverse, source, target.GetSearchNode(), target.GetWeightForward(),
		target.GetOffset())
	if target.IsBidirected() {
		d, ok := bs.search(forward, reverse, source, target.GetCompanionNode(), target.GetWeightReverse(),
			target.GetOffset())
		if ok && (!found || d < best) {
			best, found = d, true
		}
	}
	return best, found, nil
}

func (bs *BidirectionalSearch) search(forward, reverse *da.QueryHeap, source da.PhantomNode, targetNode da.Index,
	targetWeight, targetOffset int32) (int32, bool) {
	forward.Clear()
	reverse.Clear()

	seedForward(forward, source)
	reverse.Insert(targetNode, targetWeight, targetNode)

	// pruning offset covers the seed overhead of both sides
	offset := source.GetOffset() + targetOffset

	middle := da.INVALID_NODE_ID
	upperBound := pkg.INF_WEIGHT
	for forward.Size()+reverse.Size() > 0 {
		if forward.Size() > 0 {
			bs.primitive.RoutingStep(forward, reverse, &middle, &upperBound, offset, true, bs.stallOnDemand)
		}
		if reverse.Size() > 0 {
			bs.primitive.RoutingStep(reverse, forward, &middle, &upperBound, offset, false, bs.stallOnDemand)
		}
	}

	if middle == da.INVALID_NODE_ID {
		return 0, false
	}
	return upperBound, true
}

// seedForward inserts the source approach nodes with negated partial weights.
func seedForward(heap *da.QueryHeap, source da.PhantomNode) {
	node := source.GetSearchNode()
	heap.Insert(node, -source.GetWeightForward(), node)
	if source.IsBidirected() {
		companion := source.GetCompanionNode()
		heap.Insert(companion, -source.GetWeightReverse(), companion)
	}
}
