package datastructure

import (
	"math"

	"github.com/lintang-b-s/navigatorx-matrix/pkg"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
)

type Index uint32

const (
	INVALID_NODE_ID    Index = math.MaxUint32
	INVALID_VERTEX_ID  Index = math.MaxUint32
	INVALID_SEGMENT_ID Index = math.MaxUint32
)

// RoadSegment. one original road segment between two vertices of the road network.
// every traversable direction owns one edge-based node; if both are traversable
// backwardNode == forwardNode+1.
type RoadSegment struct {
	id             Index
	from           Index
	to             Index
	forward        bool
	backward       bool
	forwardWeight  int32 // decisecond, from -> to
	backwardWeight int32 // decisecond, to -> from
	length         float64
	highwayType    pkg.OsmHighwayType
	forwardNode    Index
	backwardNode   Index
}

func NewRoadSegment(from, to Index, forward, backward bool, forwardWeight, backwardWeight int32,
	length float64, highwayType pkg.OsmHighwayType) RoadSegment {
	return RoadSegment{
		id:             INVALID_SEGMENT_ID,
		from:           from,
		to:             to,
		forward:        forward,
		backward:       backward,
		forwardWeight:  forwardWeight,
		backwardWeight: backwardWeight,
		length:         length,
		highwayType:    highwayType,
		forwardNode:    INVALID_NODE_ID,
		backwardNode:   INVALID_NODE_ID,
	}
}

func (s *RoadSegment) GetId() Index { return s.id }
func (s *RoadSegment) GetFrom() Index { return s.from }
func (s *RoadSegment) GetTo() Index { return s.to }
func (s *RoadSegment) IsForward() bool { return s.forward }
func (s *RoadSegment) IsBackward() bool { return s.backward }
func (s *RoadSegment) IsBidirected() bool { return s.forward && s.backward }
func (s *RoadSegment) GetForwardWeight() int32 { return s.forwardWeight }
func (s *RoadSegment) GetBackwardWeight() int32 { return s.backwardWeight }
func (s *RoadSegment) GetLength() float64 { return s.length }
func (s *RoadSegment) GetHighwayType() pkg.OsmHighwayType { return s.highwayType }
func (s *RoadSegment) GetForwardNode() Index { return s.forwardNode }
func (s *RoadSegment) GetBackwardNode() Index { return s.backwardNode }
func (s *RoadSegment) SetEdgeBasedNodes(forward, backward Index) {
	s.forwardNode = forward
	s.backwardNode = backward
}

// RoadNetwork. node-based road network: vertex coordinates + segments.
type RoadNetwork struct {
	vertices []geo.Coordinate
	segments []RoadSegment
}

func NewRoadNetwork() *RoadNetwork {
	return &RoadNetwork{
		vertices: make([]geo.Coordinate, 0),
		segments: make([]RoadSegment, 0),
	}
}

func (rn *RoadNetwork) AddVertex(lat, lon float64) Index {
	rn.vertices = append(rn.vertices, geo.NewCoordinate(lat, lon))
	return Index(len(rn.vertices) - 1)
}

func (rn *RoadNetwork) AddSegment(seg RoadSegment) Index {
	seg.id = Index(len(rn.segments))
	rn.segments = append(rn.segments, seg)
	return seg.id
}

func (rn *RoadNetwork) NumberOfVertices() int {
	return len(rn.vertices)
}

func (rn *RoadNetwork) NumberOfSegments() int {
	return len(rn.segments)
}

func (rn *RoadNetwork) GetVertexCoordinate(v Index) geo.Coordinate {
	return rn.vertices[v]
}

func (rn *RoadNetwork) GetSegment(id Index) *RoadSegment {
	return &rn.segments[id]
}

func (rn *RoadNetwork) ForSegments(handle func(seg *RoadSegment)) {
	for i := range rn.segments {
		handle(&rn.segments[i])
	}
}

// Graph. everything the query engine needs: the road network (for snapping) and
// the edge-based query graph (for searching).
type Graph struct {
	network    *RoadNetwork
	queryGraph *QueryGraph
	contracted bool
	checksum   uint64
}

func NewGraph(network *RoadNetwork, queryGraph *QueryGraph, contracted bool) *Graph {
	g := &Graph{
		network:    network,
		queryGraph: queryGraph,
		contracted: contracted,
	}
	g.checksum = g.computeChecksum()
	return g
}

func (g *Graph) GetRoadNetwork() *RoadNetwork {
	return g.network
}

func (g *Graph) GetQueryGraph() *QueryGraph {
	return g.queryGraph
}

func (g *Graph) IsContracted() bool {
	return g.contracted
}

func (g *Graph) GetChecksum() uint64 {
	return g.checksum
}

func (g *Graph) NumberOfNodes() int {
	return g.queryGraph.NumberOfNodes()
}
