package geo

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/util"
)

/*
BearingTo. initial bearing (degree) untuk edge (p1,p2).
https://www.movable-type.co.uk/scripts/latlong.html
*/
func BearingTo(p1Lat, p1Lon, p2Lat, p2Lon float64) float64 {
	dLon := util.DegreeToRadians(p2Lon - p1Lon)

	lat1 := util.DegreeToRadians(p1Lat)
	lat2 := util.DegreeToRadians(p2Lat)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360.0)
}

// TurnAngle. signed change of heading (degree, in (-180,180]) when going a->b->c. positive = right turn.
func TurnAngle(a, b, c Coordinate) float64 {
	in := BearingTo(a.Lat, a.Lon, b.Lat, b.Lon)
	out := BearingTo(b.Lat, b.Lon, c.Lat, c.Lon)
	delta := out - in
	if delta > 180 {
		delta -= 360
	} else if delta <= -180 {
		delta += 360
	}
	return delta
}

// ProjectPointToSegment. projects snap onto segment (a,b) on the sphere.
// returns the projected coordinate and the ratio (in [0,1]) of the way from a to b.
func ProjectPointToSegment(a, b, snap Coordinate) (Coordinate, float64) {
	pa := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Lat, a.Lon))
	pb := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Lat, b.Lon))
	ps := s2.PointFromLatLng(s2.LatLngFromDegrees(snap.Lat, snap.Lon))

	projection := s2.Project(ps, pa, pb)
	projected := s2.LatLngFromPoint(projection)

	total := pa.Distance(pb).Radians()
	ratio := 0.0
	if total > 0 {
		ratio = util.Clamp(pa.Distance(projection).Radians()/total, 0.0, 1.0)
	}
	return NewCoordinate(projected.Lat.Degrees(), projected.Lng.Degrees()), ratio
}

// PointSegmentDistance. distance (meter) between snap and its projection onto (a,b)
func PointSegmentDistance(a, b, snap Coordinate) float64 {
	projected, _ := ProjectPointToSegment(a, b, snap)
	return CalculateHaversineDistance(snap.Lat, snap.Lon, projected.Lat, projected.Lon) * 1000
}
