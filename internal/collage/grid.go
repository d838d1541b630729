package collage

import (
	"fmt"
	"math"
)

// GridSpec is the number of rows and columns of a collage.
//
// For a non-zero image count Rows*Cols is always at least the count. Both
// fields are zero only when there are no images.
type GridSpec struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Cells returns the number of grid slots.
func (g GridSpec) Cells() int {
	return g.Rows * g.Cols
}

// Position returns the row and column of the i-th image in row-major order.
func (g GridSpec) Position(i int) (row, col int) {
	if g.Cols == 0 {
		return 0, 0
	}
	return i / g.Cols, i % g.Cols
}

func (g GridSpec) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}

// Plan computes the grid for count images.
//
// With colsPerRow > 0 the column count is fixed and rows grow to fit:
//
//	rows = ceil(count / colsPerRow)
//
// With colsPerRow <= 0 the grid is chosen automatically to be close to square,
// favouring extra rows over extra columns:
//
//	rows = ceil(sqrt(count))
//	cols = ceil(count / rows)
//
// A count of zero yields a 0x0 grid and a single image a 1x1 grid.
func Plan(count, colsPerRow int) GridSpec {
	switch {
	case count <= 0:
		return GridSpec{}
	case count == 1:
		return GridSpec{Rows: 1, Cols: 1}
	}

	if colsPerRow > 0 {
		return GridSpec{Rows: ceilDiv(count, colsPerRow), Cols: colsPerRow}
	}

	rows := int(math.Ceil(math.Sqrt(float64(count))))
	return GridSpec{Rows: rows, Cols: ceilDiv(count, rows)}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
