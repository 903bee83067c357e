package client

import (
	"time"

	"github.com/tomz197/sshnake/internal/input"
	"github.com/tomz197/sshnake/internal/leaderboard"
	"github.com/tomz197/sshnake/internal/loop/engine"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Field on screen; paused and restart prompts come from the snapshot
	GameStateOver                      // Lives exhausted, show result and leaderboard
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-session presentation state.
type ClientState struct {
	Input         input.Input
	GameState     GameState
	prevGameState GameState
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	wasInactive   bool
	tooSmall      bool // Terminal cannot fit the field
	wasTooSmall   bool
	lifeLostTimer float64 // Seconds left to show the lost-life banner
	livesLeft     int
	restarting    bool // Restart sent from the game over screen, engine not caught up yet

	// Result of the last finished round
	Result engine.Result
	Rank   int
	Board  []leaderboard.Entry
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		prevGameState: -1, // Clear on the first frame
		Running:       true,
	}
}
