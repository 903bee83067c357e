// Package object holds the entities that live on the playfield.
package object

import "github.com/tomz197/sshnake/internal/physics"

// Heading is a direction of travel as a unit grid step.
type Heading struct {
	DX, DY int
}

// Predefined headings. Up decreases Y (screen coordinates).
var (
	HeadingNone  = Heading{}
	HeadingUp    = Heading{DX: 0, DY: -1}
	HeadingDown  = Heading{DX: 0, DY: 1}
	HeadingLeft  = Heading{DX: -1, DY: 0}
	HeadingRight = Heading{DX: 1, DY: 0}
)

// Reverse returns the opposite heading.
func (h Heading) Reverse() Heading {
	return Heading{DX: -h.DX, DY: -h.DY}
}

// IsReverseOf reports whether h points exactly opposite to o.
// Two none headings are not reverses of each other.
func (h Heading) IsReverseOf(o Heading) bool {
	return h != HeadingNone && h == o.Reverse()
}

// Valid reports whether h is a single step along exactly one axis.
func (h Heading) Valid() bool {
	switch h {
	case HeadingUp, HeadingDown, HeadingLeft, HeadingRight:
		return true
	default:
		return false
	}
}

// String returns a short name for the heading.
func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "up"
	case HeadingDown:
		return "down"
	case HeadingLeft:
		return "left"
	case HeadingRight:
		return "right"
	case HeadingNone:
		return "none"
	default:
		return "invalid"
	}
}

// Movable is an entity that advances one step per tick.
type Movable interface {
	// SetHeading stores the heading for the next Advance. Returns false if rejected.
	SetHeading(h Heading) bool
	// Advance moves one step and returns the new head cell.
	Advance() physics.Cell
}

// Collidable is an entity occupying cells on the field.
type Collidable interface {
	// Occupies reports whether the entity covers c.
	Occupies(c physics.Cell) bool
}

// Compile-time checks.
var (
	_ Movable    = (*Snake)(nil)
	_ Collidable = (*Snake)(nil)
)
