package spatialindex

import (
	"math"

	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree. spatial index over the road segments of a road network, used to find
// snapping candidates near a query coordinate.
type Rtree struct {
	tr *rtree.RTreeG[da.Index]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[da.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build. one leaf per segment, its bounding box padded by boundingBoxRadius (in km)
func (rt *Rtree) Build(network *da.RoadNetwork, boundingBoxRadius float64, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("segments", network.NumberOfSegments()))

	network.ForSegments(func(s *da.RoadSegment) {
		from := network.GetVertexCoordinate(s.GetFrom())
		to := network.GetVertexCoordinate(s.GetTo())

		lowerFrom, upperFrom := geo.BoundingBox(from.Lat, from.Lon, boundingBoxRadius)
		lowerTo, upperTo := geo.BoundingBox(to.Lat, to.Lon, boundingBoxRadius)

		minLon := math.Min(lowerFrom[0], lowerTo[0])
		minLat := math.Min(lowerFrom[1], lowerTo[1])
		maxLon := math.Max(upperFrom[0], upperTo[0])
		maxLat := math.Max(upperFrom[1], upperTo[1])

		rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, s.GetId())
	})

	log.Info("R-tree spatial index built.", zap.Int("items", rt.tr.Len()))
}

// SearchWithinRadius returns ids of all segments whose box intersects the square of
// half-diagonal radius (km) around (qLat, qLon). the radius alone bounds the result.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []da.Index {
	lower, upper := geo.BoundingBox(qLat, qLon, radius)

	results := make([]da.Index, 0, 8)
	rt.tr.Search(lower, upper,
		func(min, max [2]float64, data da.Index) bool {
			results = append(results, data)
			return true
		})
	return results
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}
