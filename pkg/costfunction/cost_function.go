package costfunction

import (
	"github.com/lintang-b-s/navigatorx-matrix/pkg"
)

type EdgeAttributes interface {
	GetLength() float64    // meter
	GetEdgeSpeed() float64 // km/h, 0 if unknown
	GetHighwayType() pkg.OsmHighwayType
}

type CostFunction interface {
	GetWeight(e EdgeAttributes) int32
	GetTurnCost(turnType pkg.TurnType) int32
}
