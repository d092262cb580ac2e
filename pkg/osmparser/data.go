package osmparser

import (
	"strconv"
	"strings"

	"github.com/lintang-b-s/navigatorx-matrix/pkg"
	"github.com/paulmach/osm"
)

var (
	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
	acceptedHighway = map[string]struct{}{
		"motorway":         {},
		"motorway_link":    {},
		"trunk":            {},
		"trunk_link":       {},
		"primary":          {},
		"primary_link":     {},
		"secondary":        {},
		"secondary_link":   {},
		"residential":      {},
		"residential_link": {},
		"service":          {},
		"tertiary":         {},
		"tertiary_link":    {},
		"road":             {},
		"track":            {},
		"unclassified":     {},
		"undefined":        {},
		"unknown":          {},
		"living_street":    {},
		"private":          {},
		"motorroad":        {},
	}

	// https://wiki.openstreetmap.org/wiki/Key:barrier
	// a barrier node with access=no splits the way into two disconnected segments.
	acceptedBarrierType = map[string]struct{}{
		"bollard":        {},
		"swing_gate":     {},
		"jersey_barrier": {},
		"lift_gate":      {},
		"block":          {},
		"gate":           {},
	}
)

// segmentAttributes. costfunction.EdgeAttributes of one parsed segment
type segmentAttributes struct {
	length      float64
	speed       float64
	highwayType pkg.OsmHighwayType
}

func (s segmentAttributes) GetLength() float64                 { return s.length }
func (s segmentAttributes) GetEdgeSpeed() float64              { return s.speed }
func (s segmentAttributes) GetHighwayType() pkg.OsmHighwayType { return s.highwayType }

func acceptOsmWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 {
		return false
	}
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := acceptedHighway[highway]; ok {
			return true
		}
	} else if junction != "" {
		return true
	}
	return false
}

func isRestricted(value string) bool {
	return value == "no" || value == "restricted"
}

// wayDirection. which directions (relative to node order) a car may drive on way.
func wayDirection(way *osm.Way) (forward, backward bool) {
	forward, backward = true, true

	switch way.Tags.Find("oneway") {
	case "yes", "true", "1":
		backward = false
	case "-1", "reverse":
		forward = false
	case "no", "false", "0":
		return forward, backward
	default:
		if j := way.Tags.Find("junction"); j == "roundabout" || j == "circular" {
			backward = false
		}
		if way.Tags.Find("highway") == "motorway" {
			backward = false
		}
	}

	if isRestricted(way.Tags.Find("vehicle:forward")) || isRestricted(way.Tags.Find("motor_vehicle:forward")) {
		forward = false
	}
	if isRestricted(way.Tags.Find("vehicle:backward")) || isRestricted(way.Tags.Find("motor_vehicle:backward")) {
		backward = false
	}
	return forward, backward
}

// parseMaxSpeed. maxspeed tag in km/h, 0 if absent or unparseable.
func parseMaxSpeed(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(value, "mph"):
		factor = 1.60934
		value = strings.TrimSuffix(value, "mph")
	case strings.HasSuffix(value, "knots"):
		factor = 1.852
		value = strings.TrimSuffix(value, "knots")
	case strings.HasSuffix(value, "km/h"):
		value = strings.TrimSuffix(value, "km/h")
	}

	speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || speed <= 0 {
		return 0
	}
	return speed * factor * pkg.NERF_MAXSPEED_OSM
}

func isBarrier(node *osm.Node) bool {
	barrierType := node.Tags.Find("barrier")
	if barrierType == "" || node.Tags.Find("access") != "no" {
		return false
	}
	_, ok := acceptedBarrierType[barrierType]
	return ok
}
