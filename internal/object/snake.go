package object

import "github.com/tomz197/sshnake/internal/physics"

// Snake is the player-controlled body. Cells are stored head first.
type Snake struct {
	field   physics.Field
	cells   []physics.Cell
	heading Heading
	length  int // Target body size; the tail is kept while len(cells) < length
}

// NewSnake creates an empty snake bound to a field. Call Reset before use.
func NewSnake(field physics.Field) *Snake {
	return &Snake{field: field}
}

// Reset lays the body out as a straight run trailing behind start,
// with the head on start, heading right.
func (s *Snake) Reset(initialLength int, start physics.Cell) {
	if initialLength < 1 {
		initialLength = 1
	}
	s.heading = HeadingRight
	s.length = initialLength
	s.cells = s.cells[:0]

	step := s.heading.Reverse()
	c := s.field.WrapCell(start)
	for i := 0; i < initialLength; i++ {
		s.cells = append(s.cells, c)
		c = s.field.WrapCell(physics.Cell{
			X: c.X + step.DX*s.field.CellSize,
			Y: c.Y + step.DY*s.field.CellSize,
		})
	}
}

// SetHeading stores h for the next Advance. The exact reverse of the current
// heading, none, and non-unit steps are rejected.
func (s *Snake) SetHeading(h Heading) bool {
	if !h.Valid() || h.IsReverseOf(s.heading) {
		return false
	}
	s.heading = h
	return true
}

// Advance moves the head one cell along the heading, wrapping at the edges,
// and drops tail cells beyond the target length. A snake without a heading
// stays in place.
func (s *Snake) Advance() physics.Cell {
	if len(s.cells) == 0 {
		return physics.Cell{}
	}
	head := s.cells[0]
	if s.heading == HeadingNone {
		return head
	}

	next := s.field.WrapCell(physics.Cell{
		X: head.X + s.heading.DX*s.field.CellSize,
		Y: head.Y + s.heading.DY*s.field.CellSize,
	})

	s.cells = append(s.cells, physics.Cell{})
	copy(s.cells[1:], s.cells)
	s.cells[0] = next

	if len(s.cells) > s.length {
		s.cells = s.cells[:s.length]
	}
	return next
}

// Grow extends the target length by one. The tail is retained on the next Advance.
func (s *Snake) Grow() {
	s.length++
}

// Head returns the head cell.
func (s *Snake) Head() physics.Cell {
	if len(s.cells) == 0 {
		return physics.Cell{}
	}
	return s.cells[0]
}

// Cells returns a copy of the body, head first.
func (s *Snake) Cells() []physics.Cell {
	out := make([]physics.Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// Body returns the live body slice. The caller must not modify or retain it.
func (s *Snake) Body() []physics.Cell {
	return s.cells
}

// Len returns the number of occupied cells.
func (s *Snake) Len() int {
	return len(s.cells)
}

// Length returns the target body size.
func (s *Snake) Length() int {
	return s.length
}

// Heading returns the current heading.
func (s *Snake) Heading() Heading {
	return s.heading
}

// Occupies reports whether any body segment is on c.
func (s *Snake) Occupies(c physics.Cell) bool {
	for _, b := range s.cells {
		if b == c {
			return true
		}
	}
	return false
}
