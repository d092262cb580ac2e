package controllers

import (
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/http/usecases"
)

type MatrixService interface {
	ComputeMatrix(sources, destinations []geo.Coordinate, sourceHints, destinationHints []string,
		checksum uint64) (*usecases.MatrixResult, error)
}
