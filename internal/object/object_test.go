package object

import (
	"testing"

	"github.com/tomz197/sshnake/internal/physics"
)

func testField(t *testing.T) physics.Field {
	t.Helper()
	f, err := physics.NewField(400, 480, 16)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

func TestSnakeReset(t *testing.T) {
	s := NewSnake(testField(t))
	s.Reset(4, physics.Cell{X: 160, Y: 160})

	want := []physics.Cell{{X: 160, Y: 160}, {X: 144, Y: 160}, {X: 128, Y: 160}, {X: 112, Y: 160}}
	got := s.Cells()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cells[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if s.Heading() != HeadingRight {
		t.Fatalf("heading = %v, want right", s.Heading())
	}
	if s.Length() != 4 {
		t.Fatalf("length = %d, want 4", s.Length())
	}
}

func TestSnakeAdvance(t *testing.T) {
	s := NewSnake(testField(t))
	s.Reset(4, physics.Cell{X: 160, Y: 160})

	head := s.Advance()
	if head != (physics.Cell{X: 176, Y: 160}) {
		t.Fatalf("head = %v, want {176 160}", head)
	}
	if s.Len() != 4 {
		t.Fatalf("len = %d, want 4", s.Len())
	}
	if s.Occupies(physics.Cell{X: 112, Y: 160}) {
		t.Fatal("tail should have been dropped")
	}
}

func TestSnakeWrapInvariant(t *testing.T) {
	f := testField(t)
	s := NewSnake(f)
	s.Reset(4, physics.Cell{X: 0, Y: 0})

	headings := []Heading{HeadingUp, HeadingLeft, HeadingDown, HeadingRight}
	for i := 0; i < 400; i++ {
		if i%37 == 0 {
			s.SetHeading(headings[(i/37)%len(headings)])
		}
		head := s.Advance()
		if head.X < 0 || head.X >= f.Width || head.Y < 0 || head.Y >= f.Height {
			t.Fatalf("step %d: head %v outside %dx%d", i, head, f.Width, f.Height)
		}
	}
}

func TestSnakeGrowth(t *testing.T) {
	s := NewSnake(testField(t))
	s.Reset(4, physics.Cell{X: 160, Y: 160})

	const n = 3
	for i := 0; i < n; i++ {
		s.Grow()
	}
	for i := 1; i <= n; i++ {
		s.Advance()
		if s.Len() != 4+i {
			t.Fatalf("after %d advances len = %d, want %d", i, s.Len(), 4+i)
		}
	}
	for i := 0; i < 5; i++ {
		s.Advance()
		if s.Len() != 4+n {
			t.Fatalf("len grew past target: %d", s.Len())
		}
	}
}

func TestSnakeNoReverse(t *testing.T) {
	tests := []struct {
		current, reverse Heading
	}{
		{HeadingRight, HeadingLeft},
		{HeadingLeft, HeadingRight},
		{HeadingUp, HeadingDown},
		{HeadingDown, HeadingUp},
	}
	for _, tt := range tests {
		t.Run(tt.current.String(), func(t *testing.T) {
			s := NewSnake(testField(t))
			s.Reset(4, physics.Cell{X: 160, Y: 160})
			if tt.current != HeadingRight {
				// Turn through a perpendicular axis first so the setup is legal.
				if tt.current == HeadingLeft {
					s.SetHeading(HeadingUp)
					s.Advance()
				}
				if !s.SetHeading(tt.current) {
					t.Fatalf("setup: SetHeading(%v) rejected", tt.current)
				}
			}
			if s.SetHeading(tt.reverse) {
				t.Fatalf("SetHeading(%v) accepted while heading %v", tt.reverse, tt.current)
			}
			if s.Heading() != tt.current {
				t.Fatalf("heading changed to %v", s.Heading())
			}
		})
	}
}

func TestSnakeRejectsInvalidHeading(t *testing.T) {
	s := NewSnake(testField(t))
	s.Reset(4, physics.Cell{X: 160, Y: 160})
	for _, h := range []Heading{HeadingNone, {DX: 1, DY: 1}, {DX: 16, DY: 0}} {
		if s.SetHeading(h) {
			t.Errorf("SetHeading(%+v) accepted", h)
		}
	}
}

func TestSnakeWrapsAcrossEdge(t *testing.T) {
	s := NewSnake(testField(t))
	s.Reset(2, physics.Cell{X: 384, Y: 0})
	if head := s.Advance(); head != (physics.Cell{X: 0, Y: 0}) {
		t.Fatalf("head = %v, want {0 0}", head)
	}
	s.SetHeading(HeadingUp)
	if head := s.Advance(); head != (physics.Cell{X: 0, Y: 464}) {
		t.Fatalf("head = %v, want {0 464}", head)
	}
}

func TestFoodSpawnAvoidsBody(t *testing.T) {
	f := testField(t)
	spawner := NewFoodSpawner(f, 42)
	s := NewSnake(f)
	s.Reset(4, physics.Cell{X: 160, Y: 160})

	for i := 0; i < 500; i++ {
		c, ok := spawner.Spawn(s.Body())
		if !ok {
			t.Fatal("spawn failed on a mostly empty field")
		}
		if s.Occupies(c) {
			t.Fatalf("food %v spawned on snake", c)
		}
		if !f.Contains(c) || c.X%f.CellSize != 0 || c.Y%f.CellSize != 0 {
			t.Fatalf("food %v not a grid cell", c)
		}
	}
}

func TestFoodSpawnNearlyFullField(t *testing.T) {
	f, _ := physics.NewField(48, 48, 16)
	var excluded []physics.Cell
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			if col == 2 && row == 1 {
				continue
			}
			excluded = append(excluded, f.CellAt(col, row))
		}
	}
	spawner := NewFoodSpawner(f, 7)
	c, ok := spawner.Spawn(excluded)
	if !ok || c != f.CellAt(2, 1) {
		t.Fatalf("Spawn = %v %v, want the single free cell", c, ok)
	}

	excluded = append(excluded, f.CellAt(2, 1))
	if _, ok := spawner.Spawn(excluded); ok {
		t.Fatal("Spawn on a full field should fail")
	}
}

func TestFoodSpawnDeterministic(t *testing.T) {
	f := testField(t)
	a := NewFoodSpawner(f, 99)
	b := NewFoodSpawner(f, 99)
	for i := 0; i < 20; i++ {
		ca, _ := a.Spawn(nil)
		cb, _ := b.Spawn(nil)
		if ca != cb {
			t.Fatalf("draw %d: %v != %v", i, ca, cb)
		}
	}
}
