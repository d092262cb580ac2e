package routing

import (
	"math"

	"github.com/lintang-b-s/navigatorx-matrix/pkg"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/preprocessor"
	"go.uber.org/zap"
)

var testLocation = geo.NewCoordinate(-7.76, 110.37)

// plainGraph wraps directed edge-based edges into an uncontracted graph.
func plainGraph(numberOfNodes int, edges []da.InputEdge) *da.Graph {
	return da.NewGraph(da.NewRoadNetwork(), da.NewQueryGraph(numberOfNodes, preprocessor.PlainQueryEdges(edges)), false)
}

func phantom(node da.Index, w1, w2 int32, bidirected bool) da.PhantomNode {
	return da.NewPhantomNode(node, w1, w2, bidirected, testLocation, 0.5)
}

func unresolved() da.PhantomNode {
	return da.NewUnresolvedPhantomNode(testLocation)
}

// buildGridNetwork. size x size vertices, every third segment is oneway.
func buildGridNetwork(size int) *da.RoadNetwork {
	rn := da.NewRoadNetwork()
	id := func(r, c int) da.Index { return da.Index(r*size + c) }
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			rn.AddVertex(-7.76+float64(r)*0.001, 110.37+float64(c)*0.001)
		}
	}

	k := 0
	add := func(from, to da.Index) {
		fw := int32(50 + (k*37)%90)
		bw := int32(60 + (k*53)%80)
		oneway := k%3 == 2
		if oneway {
			bw = 0
		}
		rn.AddSegment(da.NewRoadSegment(from, to, true, !oneway, fw, bw, 111, pkg.RESIDENTIAL))
		k++
	}
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if c+1 < size {
				add(id(r, c), id(r, c+1))
			}
			if r+1 < size {
				add(id(r, c), id(r+1, c))
			}
		}
	}
	return rn
}

func buildGridGraph(size int, contract bool) *da.Graph {
	return preprocessor.NewPreprocessor(buildGridNetwork(size), costfunction.NewTimeCostFunction(0), contract,
		zap.NewNop()).Run()
}

// gridPhantoms. one phantom node per segment; origins sit at the segment start.
func gridPhantoms(g *da.Graph, origin bool) []da.PhantomNode {
	var nodes []da.PhantomNode
	g.GetRoadNetwork().ForSegments(func(s *da.RoadSegment) {
		if origin {
			nodes = append(nodes, phantom(s.GetForwardNode(), 0, 0, s.IsBidirected()))
			return
		}
		nodes = append(nodes, phantom(s.GetForwardNode(), s.GetForwardWeight()/3,
			s.GetBackwardWeight()*2/3, s.IsBidirected()))
	})
	return nodes
}

// allPairs. floyd warshall over directed edge-based edges.
func allPairs(numberOfNodes int, edges []da.InputEdge) [][]int64 {
	inf := int64(math.MaxInt64 / 4)
	d := make([][]int64, numberOfNodes)
	for i := range d {
		d[i] = make([]int64, numberOfNodes)
		for j := range d[i] {
			d[i][j] = inf
		}
		d[i][i] = 0
	}
	for _, e := range edges {
		if int64(e.Weight) < d[e.Source][e.Target] {
			d[e.Source][e.Target] = int64(e.Weight)
		}
	}
	for k := 0; k < numberOfNodes; k++ {
		for i := 0; i < numberOfNodes; i++ {
			for j := 0; j < numberOfNodes; j++ {
				if d[i][k]+d[k][j] < d[i][j] {
					d[i][j] = d[i][k] + d[k][j]
				}
			}
		}
	}
	return d
}

// referenceCell. travel time between two phantom nodes, assuming zero weight origins.
func referenceCell(d [][]int64, origin, dest da.PhantomNode) (int32, bool) {
	sources := []da.Index{origin.GetSearchNode()}
	if origin.IsBidirected() {
		sources = append(sources, origin.GetCompanionNode())
	}
	type seed struct {
		node   da.Index
		weight int64
	}
	targets := []seed{{dest.GetSearchNode(), int64(dest.GetWeightForward())}}
	if dest.IsBidirected() {
		targets = append(targets, seed{dest.GetCompanionNode(), int64(dest.GetWeightReverse())})
	}

	best := int64(math.MaxInt64)
	for _, s := range sources {
		for _, t := range targets {
			if v := d[s][t.node] + t.weight; v < best {
				best = v
			}
		}
	}
	if best >= int64(pkg.INF_WEIGHT) {
		return 0, false
	}
	return int32(best), true
}

// countingPrimitive counts calls into the wrapped primitive.
type countingPrimitive struct {
	SearchPrimitive
	matches int
}

func (c *countingPrimitive) Match(forward, reverse *da.QueryHeap, middle *da.Index, upperBound *int32) (int32, bool) {
	c.matches++
	return c.SearchPrimitive.Match(forward, reverse, middle, upperBound)
}

func buildEdgeBasedGrid(size int) (int, []da.InputEdge) {
	return preprocessor.NewEdgeBasedGraphBuilder(buildGridNetwork(size), costfunction.NewTimeCostFunction(0)).Build()
}
