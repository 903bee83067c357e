package object

import (
	"math/rand"

	"github.com/tomz197/sshnake/internal/physics"
)

// maxSpawnDraws bounds the random redraws before falling back to a scan of free cells.
const maxSpawnDraws = 64

// FoodSpawner places food on a uniformly random free cell.
type FoodSpawner struct {
	field    physics.Field
	rng      *rand.Rand
	occupied *physics.Occupancy
}

// NewFoodSpawner creates a spawner with a deterministic random source.
func NewFoodSpawner(field physics.Field, seed int64) *FoodSpawner {
	return &FoodSpawner{
		field:    field,
		rng:      rand.New(rand.NewSource(seed)),
		occupied: physics.NewOccupancy(field),
	}
}

// Spawn returns a grid-aligned cell not contained in excluding.
// Candidates landing on an excluded cell are redrawn; after maxSpawnDraws
// misses a free cell is picked uniformly from the remaining ones.
// Returns false when every cell is excluded.
func (f *FoodSpawner) Spawn(excluding []physics.Cell) (physics.Cell, bool) {
	f.occupied.Reset(excluding)
	if f.occupied.Free() == 0 {
		return physics.Cell{}, false
	}

	cols, rows := f.field.Columns(), f.field.Rows()
	for i := 0; i < maxSpawnDraws; i++ {
		c := f.field.CellAt(f.rng.Intn(cols), f.rng.Intn(rows))
		if !f.occupied.Occupied(c) {
			return c, true
		}
	}

	return f.occupied.NthFree(f.rng.Intn(f.occupied.Free()))
}
