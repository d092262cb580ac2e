package preprocessor

import (
	"github.com/lintang-b-s/navigatorx-matrix/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
)

// directedSegment. one traversable direction of a road segment = one edge-based node.
type directedSegment struct {
	segment da.Index
	node    da.Index
	tail    da.Index
	head    da.Index
	weight  int32
}

// EdgeBasedGraphBuilder turns the node-based road network into the edge-based graph:
// nodes are segment directions, edges are turns between them.
type EdgeBasedGraphBuilder struct {
	network      *da.RoadNetwork
	costFunction *costfunction.TimeFunction
}

func NewEdgeBasedGraphBuilder(network *da.RoadNetwork, costFunction *costfunction.TimeFunction) *EdgeBasedGraphBuilder {
	return &EdgeBasedGraphBuilder{network: network, costFunction: costFunction}
}

// AssignEdgeBasedNodes numbers segment directions. a bidirected segment gets n (from->to)
// and n+1 (to->from).
func (b *EdgeBasedGraphBuilder) AssignEdgeBasedNodes() int {
	n := da.Index(0)
	b.network.ForSegments(func(s *da.RoadSegment) {
		switch {
		case s.IsBidirected():
			s.SetEdgeBasedNodes(n, n+1)
			n += 2
		case s.IsForward():
			s.SetEdgeBasedNodes(n, da.INVALID_NODE_ID)
			n++
		case s.IsBackward():
			s.SetEdgeBasedNodes(da.INVALID_NODE_ID, n)
			n++
		default:
			s.SetEdgeBasedNodes(da.INVALID_NODE_ID, da.INVALID_NODE_ID)
		}
	})
	return int(n)
}

// Build returns the number of edge-based nodes and the directed turn edges.
// edge weight = full weight of the source direction + turn penalty.
func (b *EdgeBasedGraphBuilder) Build() (int, []da.InputEdge) {
	numberOfNodes := b.AssignEdgeBasedNodes()

	numberOfVertices := b.network.NumberOfVertices()
	incoming := make([][]directedSegment, numberOfVertices)
	outgoing := make([][]directedSegment, numberOfVertices)

	b.network.ForSegments(func(s *da.RoadSegment) {
		if s.IsForward() {
			ds := directedSegment{segment: s.GetId(), node: s.GetForwardNode(),
				tail: s.GetFrom(), head: s.GetTo(), weight: s.GetForwardWeight()}
			outgoing[ds.tail] = append(outgoing[ds.tail], ds)
			incoming[ds.head] = append(incoming[ds.head], ds)
		}
		if s.IsBackward() {
			ds := directedSegment{segment: s.GetId(), node: s.GetBackwardNode(),
				tail: s.GetTo(), head: s.GetFrom(), weight: s.GetBackwardWeight()}
			outgoing[ds.tail] = append(outgoing[ds.tail], ds)
			incoming[ds.head] = append(incoming[ds.head], ds)
		}
	})

	edges := make([]da.InputEdge, 0, b.network.NumberOfSegments()*3)
	for x := 0; x < numberOfVertices; x++ {
		via := b.network.GetVertexCoordinate(da.Index(x))
		for _, in := range incoming[x] {
			for _, out := range outgoing[x] {
				var penalty int32
				if in.segment == out.segment {
					// u-turns only at dead ends
					if len(outgoing[x]) > 1 {
						continue
					}
					penalty = b.costFunction.UTurnPenalty()
				} else {
					angle := geo.TurnAngle(b.network.GetVertexCoordinate(in.tail), via,
						b.network.GetVertexCoordinate(out.head))
					penalty = b.costFunction.TurnPenalty(angle)
				}
				edges = append(edges, da.NewInputEdge(in.node, out.node, in.weight+penalty, true, false))
			}
		}
	}
	return numberOfNodes, edges
}

// PlainQueryEdges stores every directed edge a->b at a (forward) and at b (backward).
func PlainQueryEdges(edges []da.InputEdge) []da.InputEdge {
	queryEdges := make([]da.InputEdge, 0, 2*len(edges))
	for _, e := range edges {
		queryEdges = append(queryEdges,
			da.NewInputEdge(e.Source, e.Target, e.Weight, true, false),
			da.NewInputEdge(e.Target, e.Source, e.Weight, false, true))
	}
	return queryEdges
}
