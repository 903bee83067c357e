package physics

import (
	"errors"
	"fmt"
)

// ErrInvalidField is returned when field dimensions are not positive multiples of the cell size.
var ErrInvalidField = errors.New("invalid field dimensions")

// Cell is a grid-aligned position. Coordinates are multiples of the field's cell size.
type Cell struct {
	X, Y int
}

// Field is a fixed-size toroidal playfield made of square cells.
type Field struct {
	Width    int // Total width in coordinate units
	Height   int // Total height in coordinate units
	CellSize int // Edge length of one cell
}

// NewField validates the dimensions and returns a field.
func NewField(width, height, cellSize int) (Field, error) {
	if cellSize <= 0 {
		return Field{}, fmt.Errorf("%w: cell size %d", ErrInvalidField, cellSize)
	}
	if width <= 0 || height <= 0 || width%cellSize != 0 || height%cellSize != 0 {
		return Field{}, fmt.Errorf("%w: %dx%d is not a multiple of %d", ErrInvalidField, width, height, cellSize)
	}
	return Field{Width: width, Height: height, CellSize: cellSize}, nil
}

// Columns returns the number of cells along the x axis.
func (f Field) Columns() int {
	return f.Width / f.CellSize
}

// Rows returns the number of cells along the y axis.
func (f Field) Rows() int {
	return f.Height / f.CellSize
}

// CellAt returns the cell at the given column and row.
func (f Field) CellAt(col, row int) Cell {
	return Cell{X: col * f.CellSize, Y: row * f.CellSize}
}

// Index returns the column and row of a cell.
func (f Field) Index(c Cell) (col, row int) {
	return c.X / f.CellSize, c.Y / f.CellSize
}

// Contains reports whether c lies inside the field.
func (f Field) Contains(c Cell) bool {
	return c.X >= 0 && c.X < f.Width && c.Y >= 0 && c.Y < f.Height
}

// Wrap maps a coordinate that stepped one cell out of [0, bound) back into range.
// Leaving through the low edge lands on the last cell, leaving through the
// high edge lands on 0.
func (f Field) Wrap(coord, bound int) int {
	if coord < 0 {
		return bound - f.CellSize
	}
	if coord >= bound {
		return 0
	}
	return coord
}

// WrapCell wraps both coordinates of c.
func (f Field) WrapCell(c Cell) Cell {
	return Cell{X: f.Wrap(c.X, f.Width), Y: f.Wrap(c.Y, f.Height)}
}

// Occupancy is a per-cell occupied flag for one field.
// The backing slice is reused between calls to Reset to avoid allocations.
type Occupancy struct {
	field Field
	cols  int
	cells []bool
	count int
}

// NewOccupancy creates an empty occupancy grid covering the field.
func NewOccupancy(f Field) *Occupancy {
	return &Occupancy{
		field: f,
		cols:  f.Columns(),
		cells: make([]bool, f.Columns()*f.Rows()),
	}
}

// Reset clears the grid and marks the given cells as occupied.
// Cells outside the field are ignored.
func (o *Occupancy) Reset(cells []Cell) {
	clear(o.cells)
	o.count = 0
	for _, c := range cells {
		o.Mark(c)
	}
}

// Mark flags c as occupied.
func (o *Occupancy) Mark(c Cell) {
	if !o.field.Contains(c) {
		return
	}
	idx := o.index(c)
	if !o.cells[idx] {
		o.cells[idx] = true
		o.count++
	}
}

// Occupied reports whether c is flagged.
func (o *Occupancy) Occupied(c Cell) bool {
	if !o.field.Contains(c) {
		return false
	}
	return o.cells[o.index(c)]
}

// Free returns the number of unoccupied cells.
func (o *Occupancy) Free() int {
	return len(o.cells) - o.count
}

// NthFree returns the n-th unoccupied cell in row-major order.
func (o *Occupancy) NthFree(n int) (Cell, bool) {
	for i, used := range o.cells {
		if used {
			continue
		}
		if n == 0 {
			return o.field.CellAt(i%o.cols, i/o.cols), true
		}
		n--
	}
	return Cell{}, false
}

func (o *Occupancy) index(c Cell) int {
	col, row := o.field.Index(c)
	return row*o.cols + col
}
