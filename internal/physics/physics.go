// Package physics provides grid geometry and collision detection.
package physics

// CheckFood reports whether the head landed on the food cell.
func CheckFood(head, food Cell) bool {
	return head == food
}

// CheckSelf reports whether any two body cells share coordinates.
// Every pair is considered, not just neighbours: after wraparound a grown
// body can overlap itself far away from the head.
func CheckSelf(cells []Cell) bool {
	if len(cells) < 2 {
		return false
	}
	seen := make(map[Cell]struct{}, len(cells))
	for _, c := range cells {
		if _, dup := seen[c]; dup {
			return true
		}
		seen[c] = struct{}{}
	}
	return false
}

// HeadHitsBody reports whether the head (index 0) overlaps any other segment.
func HeadHitsBody(cells []Cell) bool {
	if len(cells) < 2 {
		return false
	}
	head := cells[0]
	for _, c := range cells[1:] {
		if c == head {
			return true
		}
	}
	return false
}
