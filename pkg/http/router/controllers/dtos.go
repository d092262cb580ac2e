package controllers

import (
	"math"

	"github.com/lintang-b-s/navigatorx-matrix/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
)

const (
	matrixVersion       = 0.3
	matrixStatusMessage = "Found matrix"
)

// sentinel values of time_matrix cells
const (
	originInvalidSeconds int64 = -1
	destInvalidSeconds   int64 = -2
	noPathSeconds        int64 = math.MaxInt32/10 + 1
)

type matrixQueryRequest struct {
	Locations []geo.Coordinate `validate:"required,min=2,dive"`
	Hints     []string
	Checksum  uint64
	Jsonp     string `validate:"omitempty,max=64,jsonp"`
}

type matrixRequest struct {
	Sources          []geo.Coordinate `json:"sources" validate:"required,min=1,dive"`
	Destinations     []geo.Coordinate `json:"destinations" validate:"required,min=1,dive"`
	SourceHints      []string         `json:"source_hints"`
	DestinationHints []string         `json:"destination_hints"`
	Checksum         uint64           `json:"checksum"`
}

type matrixResponse struct {
	Version          float64   `json:"version"`
	Status           int       `json:"status"`
	StatusMessage    string    `json:"status_message"`
	TimeMatrix       [][]int64 `json:"time_matrix"`
	Hints            []string  `json:"hints,omitempty"`
	SourceHints      []string  `json:"source_hints,omitempty"`
	DestinationHints []string  `json:"destination_hints,omitempty"`
	Checksum         uint64    `json:"checksum"`
}

// cellSeconds. deciseconds to whole seconds rounded up, sentinels keep their codes.
func cellSeconds(c routing.Cell) int64 {
	switch c.Kind() {
	case routing.CellDistance:
		d, _ := c.Distance()
		if d > 0 {
			return int64(d)/10 + 1
		}
		return 0
	case routing.CellOriginInvalid:
		return originInvalidSeconds
	case routing.CellDestInvalid:
		return destInvalidSeconds
	default:
		return noPathSeconds
	}
}

func NewTimeMatrix(m *routing.Matrix) [][]int64 {
	rows := make([][]int64, m.Rows())
	for i := range rows {
		rows[i] = make([]int64, m.Cols())
		for j := range rows[i] {
			rows[i][j] = cellSeconds(m.Get(i, j))
		}
	}
	return rows
}

func newMatrixResponse(m *routing.Matrix, checksum uint64) matrixResponse {
	return matrixResponse{
		Version:       matrixVersion,
		Status:        0,
		StatusMessage: matrixStatusMessage,
		TimeMatrix:    NewTimeMatrix(m),
		Checksum:      checksum,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
