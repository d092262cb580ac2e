package datastructure

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/util"
)

// PhantomNode. a query coordinate snapped onto a road segment.
// edgeBasedNode is the forward-direction approach; when bidirected the companion
// (opposite direction) is edgeBasedNode+1.
type PhantomNode struct {
	edgeBasedNode Index
	weight1       int32 // cost from the start of edgeBasedNode's segment direction to the snapped point
	weight2       int32 // same for the companion direction
	bidirected    bool
	location      geo.Coordinate
	ratio         float64
}

func NewPhantomNode(edgeBasedNode Index, weight1, weight2 int32, bidirected bool,
	location geo.Coordinate, ratio float64) PhantomNode {
	if !bidirected {
		weight2 = 0
	}
	return PhantomNode{
		edgeBasedNode: edgeBasedNode,
		weight1:       weight1,
		weight2:       weight2,
		bidirected:    bidirected,
		location:      location,
		ratio:         ratio,
	}
}

// NewUnresolvedPhantomNode. placeholder for a coordinate that could not be snapped.
func NewUnresolvedPhantomNode(location geo.Coordinate) PhantomNode {
	return PhantomNode{edgeBasedNode: INVALID_NODE_ID, location: location}
}

func (p PhantomNode) IsResolved() bool {
	return p.edgeBasedNode != INVALID_NODE_ID
}

func (p PhantomNode) IsBidirected() bool {
	return p.IsResolved() && p.bidirected
}

func (p PhantomNode) GetSearchNode() Index {
	return p.edgeBasedNode
}

func (p PhantomNode) GetWeightForward() int32 {
	return p.weight1
}

func (p PhantomNode) GetCompanionNode() Index {
	util.AssertPanic(p.IsBidirected(), "companion node of a phantom node that is not bidirected")
	return p.edgeBasedNode + 1
}

func (p PhantomNode) GetWeightReverse() int32 {
	util.AssertPanic(p.IsBidirected(), "reverse weight of a phantom node that is not bidirected")
	return p.weight2
}

// GetOffset. total partial-edge overhead carried by the seeds of this point.
func (p PhantomNode) GetOffset() int32 {
	if p.IsBidirected() {
		return p.weight1 + p.weight2
	}
	return p.weight1
}

func (p PhantomNode) GetLocation() geo.Coordinate {
	return p.location
}

func (p PhantomNode) GetRatio() float64 {
	return p.ratio
}

// IsValid. resolved and pointing inside a graph with numberOfNodes edge-based nodes.
func (p PhantomNode) IsValid(numberOfNodes int) bool {
	if !p.IsResolved() || p.weight1 < 0 || p.weight2 < 0 {
		return false
	}
	last := p.edgeBasedNode
	if p.bidirected {
		last++
	}
	return int(last) < numberOfNodes
}

type phantomNodeWire struct {
	EdgeBasedNode uint32
	Weight1       int32
	Weight2       int32
	Bidirected    bool
	Lat           float64
	Lon           float64
	Ratio         float64
}

var ErrInvalidPhantomNodeEncoding = errors.New("invalid phantom node encoding")

func (p PhantomNode) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	err := binary.Write(&buf, binary.LittleEndian, phantomNodeWire{
		EdgeBasedNode: uint32(p.edgeBasedNode),
		Weight1:       p.weight1,
		Weight2:       p.weight2,
		Bidirected:    p.bidirected,
		Lat:           p.location.Lat,
		Lon:           p.location.Lon,
		Ratio:         p.ratio,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *PhantomNode) UnmarshalBinary(data []byte) error {
	var w phantomNodeWire
	if len(data) != binary.Size(w) {
		return ErrInvalidPhantomNodeEncoding
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &w); err != nil {
		return err
	}
	*p = PhantomNode{
		edgeBasedNode: Index(w.EdgeBasedNode),
		weight1:       w.Weight1,
		weight2:       w.Weight2,
		bidirected:    w.Bidirected,
		location:      geo.NewCoordinate(w.Lat, w.Lon),
		ratio:         w.Ratio,
	}
	return nil
}
