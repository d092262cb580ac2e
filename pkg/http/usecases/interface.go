package usecases

import (
	"github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
)

type RoutingEngine interface {
	GetGraph() *datastructure.Graph
	ComputeMatrix(origins, destinations []datastructure.PhantomNode) (*routing.Matrix, error)
}

type Snapper interface {
	Snap(coord geo.Coordinate) datastructure.PhantomNode
}
