package datastructure

import (
	"sort"
)

// QueryEdge. adjacency entry of the search graph.
// forward: the search from this node may relax the edge in forward direction (node -> target).
// backward: the reverse search may relax it, i.e. the original edge is target -> node.
type QueryEdge struct {
	target   Index
	weight   int32
	forward  bool
	backward bool
	shortcut bool
	middle   Index
}

func (e *QueryEdge) GetTarget() Index { return e.target }
func (e *QueryEdge) GetWeight() int32 { return e.weight }
func (e *QueryEdge) IsForward() bool { return e.forward }
func (e *QueryEdge) IsBackward() bool { return e.backward }
func (e *QueryEdge) IsShortcut() bool { return e.shortcut }
func (e *QueryEdge) GetMiddle() Index { return e.middle }

// InputEdge. QueryEdge plus its source, used while building the graph.
type InputEdge struct {
	Source   Index
	Target   Index
	Weight   int32
	Forward  bool
	Backward bool
	Shortcut bool
	Middle   Index
}

func NewInputEdge(source, target Index, weight int32, forward, backward bool) InputEdge {
	return InputEdge{
		Source:   source,
		Target:   target,
		Weight:   weight,
		Forward:  forward,
		Backward: backward,
		Middle:   INVALID_NODE_ID,
	}
}

func NewShortcutEdge(source, target Index, weight int32, forward, backward bool, middle Index) InputEdge {
	return InputEdge{
		Source:   source,
		Target:   target,
		Weight:   weight,
		Forward:  forward,
		Backward: backward,
		Shortcut: true,
		Middle:   middle,
	}
}

// QueryGraph. static adjacency array (compressed sparse row) over edge-based nodes.
type QueryGraph struct {
	firstEdge []Index // len = numberOfNodes+1
	edges     []QueryEdge
}

func NewQueryGraph(numberOfNodes int, inputEdges []InputEdge) *QueryGraph {
	sorted := make([]InputEdge, len(inputEdges))
	copy(sorted, inputEdges)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Source != sorted[j].Source {
			return sorted[i].Source < sorted[j].Source
		}
		return sorted[i].Target < sorted[j].Target
	})

	qg := &QueryGraph{
		firstEdge: make([]Index, numberOfNodes+1),
		edges:     make([]QueryEdge, 0, len(sorted)),
	}

	e := 0
	for u := 0; u < numberOfNodes; u++ {
		qg.firstEdge[u] = Index(len(qg.edges))
		for ; e < len(sorted) && int(sorted[e].Source) == u; e++ {
			in := sorted[e]
			qg.edges = append(qg.edges, QueryEdge{
				target:   in.Target,
				weight:   in.Weight,
				forward:  in.Forward,
				backward: in.Backward,
				shortcut: in.Shortcut,
				middle:   in.Middle,
			})
		}
	}
	qg.firstEdge[numberOfNodes] = Index(len(qg.edges))
	return qg
}

func (qg *QueryGraph) NumberOfNodes() int {
	return len(qg.firstEdge) - 1
}

func (qg *QueryGraph) NumberOfEdges() int {
	return len(qg.edges)
}

// GetAdjacentEdges. edges stored at node u. the returned slice must not be modified.
func (qg *QueryGraph) GetAdjacentEdges(u Index) []QueryEdge {
	return qg.edges[qg.firstEdge[u]:qg.firstEdge[u+1]]
}

func (qg *QueryGraph) ForEdges(handle func(source Index, e *QueryEdge)) {
	for u := 0; u < qg.NumberOfNodes(); u++ {
		for i := qg.firstEdge[u]; i < qg.firstEdge[u+1]; i++ {
			handle(Index(u), &qg.edges[i])
		}
	}
}
