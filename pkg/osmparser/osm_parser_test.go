package osmparser

import (
	"testing"

	"github.com/lintang-b-s/navigatorx-matrix/pkg"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/costfunction"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWay(id osm.WayID, tags osm.Tags, nodes ...osm.NodeID) *osm.Way {
	wn := make(osm.WayNodes, 0, len(nodes))
	for _, n := range nodes {
		wn = append(wn, osm.WayNode{ID: n})
	}
	return &osm.Way{ID: id, Tags: tags, Nodes: wn}
}

func feed(p *OsmParser, nodes []*osm.Node, ways ...*osm.Way) {
	for _, w := range ways {
		if acceptOsmWay(w) {
			p.markWayNodes(w)
		}
	}
	for _, n := range nodes {
		p.AddNode(n)
	}
	for _, w := range ways {
		if acceptOsmWay(w) {
			p.ProcessWay(w)
		}
	}
}

func TestProcessWay(t *testing.T) {
	nodes := []*osm.Node{
		{ID: 1, Lat: -7.7600, Lon: 110.3700},
		{ID: 2, Lat: -7.7610, Lon: 110.3700},
		{ID: 3, Lat: -7.7620, Lon: 110.3700},
		{ID: 4, Lat: -7.7620, Lon: 110.3710},
		{ID: 9, Lat: -7.7700, Lon: 110.3800},
	}

	p := NewOSMParser(costfunction.NewTimeCostFunction(0), zap.NewNop())
	feed(p, nodes,
		newWay(10, osm.Tags{{Key: "highway", Value: "residential"}}, 1, 2, 3),
		newWay(11, osm.Tags{{Key: "highway", Value: "primary"}, {Key: "oneway", Value: "yes"}, {Key: "maxspeed", Value: "40"}}, 3, 4),
		newWay(12, osm.Tags{{Key: "highway", Value: "footway"}}, 4, 9),
		newWay(13, osm.Tags{{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "-1"}}, 2, 1),
	)

	rn := p.GetRoadNetwork()
	require.Equal(t, 4, rn.NumberOfVertices(), "footway only node must not become a vertex")
	require.Equal(t, 3, rn.NumberOfSegments(), "duplicate 2-1 segment must be skipped")

	s := rn.GetSegment(0)
	assert.True(t, s.IsBidirected())
	assert.Equal(t, pkg.RESIDENTIAL, s.GetHighwayType())
	assert.InDelta(t, 111.2, s.GetLength(), 0.5)
	assert.Equal(t, s.GetForwardWeight(), s.GetBackwardWeight())

	oneway := rn.GetSegment(2)
	assert.True(t, oneway.IsForward())
	assert.False(t, oneway.IsBackward())
	assert.Equal(t, int32(0), oneway.GetBackwardWeight())
	assert.Greater(t, oneway.GetForwardWeight(), int32(0))
}

func TestProcessWayBarrierSplitsVertex(t *testing.T) {
	nodes := []*osm.Node{
		{ID: 1, Lat: 0, Lon: 0},
		{ID: 2, Lat: 0, Lon: 0.001, Tags: osm.Tags{{Key: "barrier", Value: "gate"}, {Key: "access", Value: "no"}}},
		{ID: 3, Lat: 0, Lon: 0.002},
	}
	p := NewOSMParser(costfunction.NewTimeCostFunction(0), zap.NewNop())
	feed(p, nodes, newWay(1, osm.Tags{{Key: "highway", Value: "service"}}, 1, 2, 3))

	rn := p.GetRoadNetwork()
	require.Equal(t, 2, rn.NumberOfSegments())
	assert.NotEqual(t, rn.GetSegment(0).GetTo(), rn.GetSegment(1).GetFrom())
	assert.Equal(t, rn.GetVertexCoordinate(rn.GetSegment(0).GetTo()), rn.GetVertexCoordinate(rn.GetSegment(1).GetFrom()))
}

func TestWayDirection(t *testing.T) {
	testCases := []struct {
		name     string
		tags     osm.Tags
		forward  bool
		backward bool
	}{
		{name: "two way", tags: osm.Tags{{Key: "highway", Value: "primary"}}, forward: true, backward: true},
		{name: "oneway yes", tags: osm.Tags{{Key: "highway", Value: "primary"}, {Key: "oneway", Value: "yes"}}, forward: true, backward: false},
		{name: "oneway reversed", tags: osm.Tags{{Key: "highway", Value: "primary"}, {Key: "oneway", Value: "-1"}}, forward: false, backward: true},
		{name: "roundabout", tags: osm.Tags{{Key: "highway", Value: "primary"}, {Key: "junction", Value: "roundabout"}}, forward: true, backward: false},
		{name: "vehicle backward no", tags: osm.Tags{{Key: "highway", Value: "primary"}, {Key: "vehicle:backward", Value: "no"}}, forward: true, backward: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			f, b := wayDirection(newWay(1, tt.tags, 1, 2))
			assert.Equal(t, tt.forward, f)
			assert.Equal(t, tt.backward, b)
		})
	}
}

func TestParseMaxSpeed(t *testing.T) {
	assert.InDelta(t, 50*pkg.NERF_MAXSPEED_OSM, parseMaxSpeed("50"), 1e-9)
	assert.InDelta(t, 60*pkg.NERF_MAXSPEED_OSM, parseMaxSpeed("60 km/h"), 1e-9)
	assert.InDelta(t, 30*1.60934*pkg.NERF_MAXSPEED_OSM, parseMaxSpeed("30 mph"), 1e-9)
	assert.Equal(t, 0.0, parseMaxSpeed("walk"))
	assert.Equal(t, 0.0, parseMaxSpeed(""))
}
