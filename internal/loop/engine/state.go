package engine

import (
	"github.com/tomz197/sshnake/internal/leaderboard"
	"github.com/tomz197/sshnake/internal/object"
	"github.com/tomz197/sshnake/internal/physics"
)

// State is the phase of a round.
type State int

const (
	StateReady   State = iota // Constructed, tick loop not started
	StateRunning              // Ticking at the current speed
	StatePaused               // Ticking suspended, snake and food kept
	StateEnded                // Lives exhausted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Result is the outcome of a finished round.
type Result struct {
	FinalScore int
	Distance   int // Ticks moved
}

// Snapshot is an immutable view of a round for rendering.
type Snapshot struct {
	Field          physics.Field
	SnakeCells     []physics.Cell // Head first
	Heading        object.Heading
	Food           physics.Cell
	HasFood        bool
	Score          int
	Lives          int
	Speed          int
	Distance       int
	Tick           uint64
	State          State
	RestartPending bool
	Nickname       string
}

// EventType identifies an engine event.
type EventType int

const (
	EventLifeLost EventType = iota
	EventRoundEnded
	EventRestarted
)

// Event is sent from the engine to its presentation layer.
type Event struct {
	Type        EventType
	Lives       int                 // Lives left after EventLifeLost
	Result      Result              // For EventRoundEnded
	Rank        int                 // 1-based leaderboard rank, 0 if not ranked
	Leaderboard []leaderboard.Entry // Board after recording the round
}
