package routing

import (
	"github.com/lintang-b-s/navigatorx-matrix/pkg"
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
)

// BasicRouting. dijkstra style search primitive over a query graph. works for both the
// contracted (upward edges only) and the plain forward/backward layout.
type BasicRouting struct {
	graph SearchGraph
}

func NewBasicRouting(graph SearchGraph) *BasicRouting {
	return &BasicRouting{graph: graph}
}

func (r *BasicRouting) RoutingStep(heap, opposite *da.QueryHeap, middle *da.Index, upperBound *int32,
	offset int32, forward, stallOnDemand bool) {
	node := heap.DeleteMin()
	distance := heap.GetKey(node)

	if opposite.WasInserted(node) {
		newDistance := int64(opposite.GetKey(node)) + int64(distance)
		// negative sums: target lies behind the source on the same segment direction
		if newDistance >= 0 && newDistance < int64(*upperBound) {
			*middle = node
			*upperBound = int32(newDistance)
		}
	}

	if int64(distance)-int64(offset) > int64(*upperBound) {
		heap.DeleteAll()
		return
	}

	edges := r.graph.GetAdjacentEdges(node)

	if stallOnDemand {
		for i := range edges {
			e := &edges[i]
			if (forward && !e.IsBackward()) || (!forward && !e.IsForward()) {
				continue
			}
			to := e.GetTarget()
			if heap.WasInserted(to) && int64(heap.GetKey(to))+int64(e.GetWeight()) < int64(distance) {
				return
			}
		}
	}

	for i := range edges {
		e := &edges[i]
		if (forward && !e.IsForward()) || (!forward && !e.IsBackward()) {
			continue
		}
		to := e.GetTarget()
		toDistance := int64(distance) + int64(e.GetWeight())
		if toDistance >= int64(pkg.INF_WEIGHT) {
			continue
		}

		if !heap.WasInserted(to) {
			heap.Insert(to, int32(toDistance), node)
		} else if !heap.WasRemoved(to) && int32(toDistance) < heap.GetKey(to) {
			heap.DecreaseKey(to, int32(toDistance), node)
		}
	}
}

func (r *BasicRouting) Match(forward, reverse *da.QueryHeap, middle *da.Index, upperBound *int32) (int32, bool) {
	small, large := forward, reverse
	if reverse.InsertedCount() < forward.InsertedCount() {
		small, large = reverse, forward
	}

	small.ForInserted(func(node da.Index, key int32) {
		if !large.WasInserted(node) {
			return
		}
		newDistance := int64(key) + int64(large.GetKey(node))
		if newDistance < 0 || newDistance >= int64(*upperBound) {
			return
		}
		*middle = node
		*upperBound = int32(newDistance)
	})

	return *upperBound, *middle != da.INVALID_NODE_ID
}
