package routing

import (
	"fmt"

	"github.com/lintang-b-s/navigatorx-matrix/pkg/util"
	"go.uber.org/zap"
)

type CellKind uint8

const (
	cellUnset CellKind = iota
	CellDistance
	CellOriginInvalid
	CellDestInvalid
	CellNoPath
)

func (k CellKind) String() string {
	switch k {
	case CellDistance:
		return "distance"
	case CellOriginInvalid:
		return "origin_invalid"
	case CellDestInvalid:
		return "dest_invalid"
	case CellNoPath:
		return "no_path"
	}
	return "unset"
}

// Cell. one matrix entry: a travel time (deciseconds) or why there is none.
type Cell struct {
	kind     CellKind
	distance int32
}

func DistanceCell(distance int32) Cell {
	util.AssertPanic(distance >= 0, "negative distance cell")
	return Cell{kind: CellDistance, distance: distance}
}

func OriginInvalidCell() Cell { return Cell{kind: CellOriginInvalid} }
func DestInvalidCell() Cell   { return Cell{kind: CellDestInvalid} }
func NoPathCell() Cell        { return Cell{kind: CellNoPath} }

func (c Cell) Kind() CellKind {
	return c.kind
}

func (c Cell) IsDistance() bool {
	return c.kind == CellDistance
}

// Distance. travel time, ok only for distance cells.
func (c Cell) Distance() (int32, bool) {
	return c.distance, c.kind == CellDistance
}

func (c Cell) String() string {
	if c.kind == CellDistance {
		return fmt.Sprintf("%d", c.distance)
	}
	return c.kind.String()
}

// SearchStats counts search work per pass.
type SearchStats struct {
	// ForwardSearches. one per resolved origin; unresolved origins get an
	// ORIGIN_INVALID row without a search, so this equals len(origins) only when all resolve.
	ForwardSearches [2]int
	// ReverseDrains. one per resolved destination, likewise.
	ReverseDrains [2]int
}

// Matrix. rows follow the origin order, columns the destination order.
type Matrix struct {
	rows   int
	cols   int
	cells  []Cell
	sealed bool
	stats  SearchStats
}

func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
}

func (m *Matrix) Rows() int {
	return m.rows
}

func (m *Matrix) Cols() int {
	return m.cols
}

func (m *Matrix) Get(i, j int) Cell {
	return m.cells[i*m.cols+j]
}

func (m *Matrix) Set(i, j int, c Cell) {
	util.AssertPanic(!m.sealed, "write to a sealed matrix")
	util.AssertPanic(c.kind != cellUnset, "write of an unset cell")
	m.cells[i*m.cols+j] = c
}

func (m *Matrix) setRow(i int, c Cell) {
	for j := 0; j < m.cols; j++ {
		m.Set(i, j, c)
	}
}

// Seal asserts that every cell was written; the matrix is read-only afterwards.
func (m *Matrix) Seal() {
	for idx, c := range m.cells {
		if c.kind == cellUnset {
			panic(fmt.Sprintf("matrix cell (%d,%d) was never written", idx/m.cols, idx%m.cols))
		}
	}
	m.sealed = true
}

func (m *Matrix) Stats() SearchStats {
	return m.stats
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []Cell {
	row := make([]Cell, m.cols)
	copy(row, m.cells[i*m.cols:(i+1)*m.cols])
	return row
}

// mergeCell. a real distance beats a sentinel, two distances give the smaller one,
// two sentinels keep the first pass.
func mergeCell(a, b Cell) (Cell, bool) {
	switch {
	case a.IsDistance() && b.IsDistance():
		if b.distance < a.distance {
			return b, true
		}
		return a, true
	case a.IsDistance():
		return a, true
	case b.IsDistance():
		return b, true
	}
	return a, a.kind == b.kind
}

func mergeMatrices(first, second *Matrix, logger *zap.Logger) *Matrix {
	util.AssertPanic(first.rows == second.rows && first.cols == second.cols, "merging matrices of different shape")

	merged := NewMatrix(first.rows, first.cols)
	for i := 0; i < first.rows; i++ {
		for j := 0; j < first.cols; j++ {
			c, agree := mergeCell(first.Get(i, j), second.Get(i, j))
			if !agree {
				logger.Warn("matrix passes disagree on cell validity",
					zap.Int("row", i), zap.Int("col", j),
					zap.String("first", first.Get(i, j).String()),
					zap.String("second", second.Get(i, j).String()))
			}
			merged.Set(i, j, c)
		}
	}
	return merged
}
