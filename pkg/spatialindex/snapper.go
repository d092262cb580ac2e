package spatialindex

import (
	"math"

	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
)

type SegmentIndex interface {
	SearchWithinRadius(qLat, qLon, radius float64) []da.Index
}

// Snapper resolves query coordinates to phantom nodes on the nearest road segment.
type Snapper struct {
	network *da.RoadNetwork
	index   SegmentIndex
	radius  float64 // km
}

func NewSnapper(network *da.RoadNetwork, index SegmentIndex, radius float64) *Snapper {
	return &Snapper{
		network: network,
		index:   index,
		radius:  radius,
	}
}

// Snap. nearest segment within the search radius wins, ties go to the lower segment id.
// no candidate gives an unresolved phantom node at the query position.
func (s *Snapper) Snap(coord geo.Coordinate) da.PhantomNode {
	candidates := s.index.SearchWithinRadius(coord.Lat, coord.Lon, s.radius)

	best := da.INVALID_SEGMENT_ID
	bestDist := math.Inf(1)
	bestRatio := 0.0
	for _, id := range candidates {
		seg := s.network.GetSegment(id)
		a := s.network.GetVertexCoordinate(seg.GetFrom())
		b := s.network.GetVertexCoordinate(seg.GetTo())

		projected, ratio := geo.ProjectPointToSegment(a, b, coord)
		dist := geo.CalculateHaversineDistance(coord.Lat, coord.Lon, projected.Lat, projected.Lon)
		if dist > s.radius {
			continue
		}
		if dist < bestDist || (dist == bestDist && id < best) {
			best, bestDist, bestRatio = id, dist, ratio
		}
	}

	if best == da.INVALID_SEGMENT_ID {
		return da.NewUnresolvedPhantomNode(coord)
	}
	return PhantomNodeOnSegment(s.network.GetSegment(best), coord, bestRatio)
}

// PhantomNodeOnSegment splits the directed weights of seg at ratio (measured from its start vertex).
func PhantomNodeOnSegment(seg *da.RoadSegment, coord geo.Coordinate, ratio float64) da.PhantomNode {
	forwardPart := int32(math.Round(ratio * float64(seg.GetForwardWeight())))
	backwardPart := int32(math.Round((1 - ratio) * float64(seg.GetBackwardWeight())))

	switch {
	case seg.IsBidirected():
		return da.NewPhantomNode(seg.GetForwardNode(), forwardPart, backwardPart, true, coord, ratio)
	case seg.IsForward():
		return da.NewPhantomNode(seg.GetForwardNode(), forwardPart, 0, false, coord, ratio)
	default:
		return da.NewPhantomNode(seg.GetBackwardNode(), backwardPart, 0, false, coord, ratio)
	}
}
