package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lintang-b-s/navigatorx-matrix/pkg"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

// OsmParser builds a node-based RoadNetwork from an openstreetmap extract.
// every pair of consecutive way nodes becomes one RoadSegment.
type OsmParser struct {
	wayNodes     map[osm.NodeID]struct{}
	nodeCoords   map[osm.NodeID]geo.Coordinate
	barrierNodes map[osm.NodeID]struct{}
	vertexIDMap  map[osm.NodeID]da.Index
	edgeSet      map[[2]da.Index]struct{}
	network      *da.RoadNetwork
	costFunction costfunction.CostFunction
	logger       *zap.Logger
}

func NewOSMParser(costFunction costfunction.CostFunction, logger *zap.Logger) *OsmParser {
	return &OsmParser{
		wayNodes:     make(map[osm.NodeID]struct{}),
		nodeCoords:   make(map[osm.NodeID]geo.Coordinate),
		barrierNodes: make(map[osm.NodeID]struct{}),
		vertexIDMap:  make(map[osm.NodeID]da.Index),
		edgeSet:      make(map[[2]da.Index]struct{}),
		network:      da.NewRoadNetwork(),
		costFunction: costFunction,
		logger:       logger,
	}
}

func (p *OsmParser) Parse(mapFile string) (*da.RoadNetwork, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// first scan: which nodes belong to routable ways
	scanner := osmpbf.New(context.Background(), f, 0)
	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
		}
		countWays++
		p.markWayNodes(way)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan openstreetmap ways: %w", err)
	}
	scanner.Close()

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	// second scan: node coordinates first (pbf order), then segments
	scanner = osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	countNodes := 0
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if (countNodes+1)%500000 == 0 {
				p.logger.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++
			p.AddNode(o)
		case *osm.Way:
			if !acceptOsmWay(o) {
				continue
			}
			p.ProcessWay(o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan openstreetmap nodes: %w", err)
	}

	p.logger.Info("parsed openstreetmap extract",
		zap.String("file", mapFile),
		zap.Int("vertices", p.network.NumberOfVertices()),
		zap.Int("segments", p.network.NumberOfSegments()))
	return p.network, nil
}

func (p *OsmParser) markWayNodes(way *osm.Way) {
	for _, n := range way.Nodes {
		p.wayNodes[n.ID] = struct{}{}
	}
}

// AddNode keeps the coordinate of a node used by a routable way.
func (p *OsmParser) AddNode(node *osm.Node) {
	if _, ok := p.wayNodes[node.ID]; !ok {
		return
	}
	p.nodeCoords[node.ID] = geo.NewCoordinate(node.Lat, node.Lon)
	if isBarrier(node) {
		p.barrierNodes[node.ID] = struct{}{}
	}
}

// ProcessWay appends one segment per consecutive node pair of way.
func (p *OsmParser) ProcessWay(way *osm.Way) {
	forward, backward := wayDirection(way)
	if !forward && !backward {
		return
	}
	highwayType := pkg.GetHighwayType(way.Tags.Find("highway"))
	speed := parseMaxSpeed(way.Tags.Find("maxspeed"))

	for i := 1; i < len(way.Nodes); i++ {
		fromID, toID := way.Nodes[i-1].ID, way.Nodes[i].ID
		fromCoord, okFrom := p.nodeCoords[fromID]
		toCoord, okTo := p.nodeCoords[toID]
		if !okFrom || !okTo || fromID == toID {
			continue
		}

		var from da.Index
		if _, barrier := p.barrierNodes[fromID]; barrier {
			// leaving a barrier starts from a fresh vertex at the same position
			from = p.network.AddVertex(fromCoord.Lat, fromCoord.Lon)
		} else {
			from = p.vertex(fromID, fromCoord)
		}
		to := p.vertex(toID, toCoord)

		key := [2]da.Index{min(from, to), max(from, to)}
		if _, dup := p.edgeSet[key]; dup {
			continue
		}
		p.edgeSet[key] = struct{}{}

		length := geo.CalculateHaversineDistance(fromCoord.Lat, fromCoord.Lon, toCoord.Lat, toCoord.Lon) * 1000
		weight := p.costFunction.GetWeight(segmentAttributes{
			length:      length,
			speed:       speed,
			highwayType: highwayType,
		})

		var forwardWeight, backwardWeight int32
		if forward {
			forwardWeight = weight
		}
		if backward {
			backwardWeight = weight
		}
		p.network.AddSegment(da.NewRoadSegment(from, to, forward, backward,
			forwardWeight, backwardWeight, length, highwayType))
	}
}

func (p *OsmParser) vertex(id osm.NodeID, coord geo.Coordinate) da.Index {
	if v, ok := p.vertexIDMap[id]; ok {
		return v
	}
	v := p.network.AddVertex(coord.Lat, coord.Lon)
	p.vertexIDMap[id] = v
	return v
}

func (p *OsmParser) GetRoadNetwork() *da.RoadNetwork {
	return p.network
}
