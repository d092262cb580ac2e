package routing

import (
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
)

// SearchGraph. adjacency view the search primitive relaxes over.
type SearchGraph interface {
	NumberOfNodes() int
	GetAdjacentEdges(u da.Index) []da.QueryEdge
}

// SearchPrimitive. single pair building blocks the matrix search is composed of.
type SearchPrimitive interface {
	// RoutingStep settles one node of heap and relaxes its edges. a node already reached
	// by opposite updates middle/upperBound. offset is the seed overhead of heap.
	RoutingStep(heap, opposite *da.QueryHeap, middle *da.Index, upperBound *int32, offset int32,
		forward, stallOnDemand bool)

	// Match scans two finalized heaps for the cheapest common node.
	Match(forward, reverse *da.QueryHeap, middle *da.Index, upperBound *int32) (int32, bool)
}

// Router. plain point to point query.
type Router interface {
	ShortestPath(source, target da.PhantomNode) (int32, bool, error)
}
