package engine

import (
	"github.com/tomz197/sshnake/internal/object"
	"github.com/tomz197/sshnake/internal/physics"
)

// TickOutcome reports what happened during one tick.
type TickOutcome struct {
	Moved        bool
	Ate          bool
	LifeLost     bool
	Ended        bool
	SpeedChanged bool
}

// Round is the state machine of one playthrough. It owns the snake and the food.
// Not safe for concurrent use; the Engine serializes access.
type Round struct {
	settings Settings
	snake    *object.Snake
	spawner  *object.FoodSpawner

	food    physics.Cell
	hasFood bool

	score    int
	speed    int
	lives    int
	distance int
	ticks    uint64
	state    State

	intent    object.Heading
	hasIntent bool // At most one heading change per tick

	restartPending bool
	resumeOnCancel bool // The restart request paused a running round
}

// NewRound creates a fresh round in the Ready state.
func NewRound(settings Settings) *Round {
	r := &Round{
		settings: settings,
		snake:    object.NewSnake(settings.Field),
		spawner:  object.NewFoodSpawner(settings.Field, settings.Seed),
	}
	r.reinit()
	return r
}

// reinit resets everything a restart resets.
func (r *Round) reinit() {
	r.score = 0
	r.lives = r.settings.InitialLives
	r.distance = 0
	r.ticks = 0
	r.restartPending = false
	r.resumeOnCancel = false
	r.resetRound()
}

// resetRound recentres the snake, respawns food and drops back to base speed.
// Score, lives and distance are kept.
func (r *Round) resetRound() {
	r.snake.Reset(r.settings.InitialLength, r.settings.Start)
	r.speed = r.settings.BaseSpeed
	r.hasIntent = false
	r.respawnFood()
}

func (r *Round) respawnFood() {
	r.food, r.hasFood = r.spawner.Spawn(r.snake.Body())
}

// Start moves a Ready round to Running.
func (r *Round) Start() bool {
	if r.state != StateReady {
		return false
	}
	r.state = StateRunning
	return true
}

// QueueIntent stores a heading change for the next tick. Dropped when the
// round is not running, when an intent is already queued, when h is invalid,
// reverses the current heading, or equals it.
func (r *Round) QueueIntent(h object.Heading) bool {
	if r.state != StateRunning || r.hasIntent {
		return false
	}
	current := r.snake.Heading()
	if !h.Valid() || h.IsReverseOf(current) || h == current {
		return false
	}
	r.intent = h
	r.hasIntent = true
	return true
}

// Tick advances the simulation by one step. No-op unless Running.
func (r *Round) Tick() TickOutcome {
	var out TickOutcome
	if r.state != StateRunning {
		return out
	}

	if r.hasIntent {
		r.snake.SetHeading(r.intent)
		r.hasIntent = false
	}

	head := r.snake.Advance()
	r.distance++
	r.ticks++
	out.Moved = true

	if r.hasFood && physics.CheckFood(head, r.food) {
		r.snake.Grow()
		r.score++
		out.Ate = true
		if r.score%r.settings.SpeedStep == 0 && r.speed < r.settings.MaxSpeed {
			r.speed++
			out.SpeedChanged = true
		}
		r.respawnFood()
	}

	if physics.CheckSelf(r.snake.Body()) {
		r.lives--
		out.LifeLost = true
		if r.speed != r.settings.BaseSpeed {
			out.SpeedChanged = true
		}
		r.resetRound()
		if r.lives <= 0 {
			r.lives = 0
			r.state = StateEnded
			out.Ended = true
		}
	}

	if !r.hasFood {
		// The field was full; try again now that the body has moved.
		r.respawnFood()
	}

	return out
}

// TogglePause switches between Running and Paused.
// Ignored in other states and while a restart awaits confirmation.
func (r *Round) TogglePause() bool {
	if r.restartPending {
		return false
	}
	switch r.state {
	case StateRunning:
		r.state = StatePaused
	case StatePaused:
		r.state = StateRunning
	default:
		return false
	}
	return true
}

// RequestRestart marks a restart as awaiting confirmation, pausing a running round.
func (r *Round) RequestRestart() bool {
	if r.restartPending {
		return false
	}
	r.restartPending = true
	r.resumeOnCancel = r.state == StateRunning
	if r.resumeOnCancel {
		r.state = StatePaused
	}
	return true
}

// ConfirmRestart reinitializes the whole round and starts it.
func (r *Round) ConfirmRestart() {
	r.reinit()
	r.state = StateRunning
}

// CancelRestart drops a pending restart, resuming the round if the request paused it.
func (r *Round) CancelRestart() bool {
	if !r.restartPending {
		return false
	}
	r.restartPending = false
	if r.resumeOnCancel && r.state == StatePaused {
		r.state = StateRunning
	}
	r.resumeOnCancel = false
	return true
}

// PlaceFood puts the food on c. Rejected if c is not a free cell of the field.
func (r *Round) PlaceFood(c physics.Cell) bool {
	f := r.settings.Field
	if !f.Contains(c) || c.X%f.CellSize != 0 || c.Y%f.CellSize != 0 || r.snake.Occupies(c) {
		return false
	}
	r.food = c
	r.hasFood = true
	return true
}

// State returns the current phase.
func (r *Round) State() State { return r.state }

// Score returns the current score.
func (r *Round) Score() int { return r.score }

// Lives returns the remaining lives.
func (r *Round) Lives() int { return r.lives }

// Speed returns the current ticks per second.
func (r *Round) Speed() int { return r.speed }

// Distance returns the number of ticks moved this round.
func (r *Round) Distance() int { return r.distance }

// Food returns the food cell and whether food is on the field.
func (r *Round) Food() (physics.Cell, bool) { return r.food, r.hasFood }

// Snake returns the snake. Callers must not mutate it.
func (r *Round) Snake() *object.Snake { return r.snake }

// RestartPending reports whether a restart awaits confirmation.
func (r *Round) RestartPending() bool { return r.restartPending }

// Result returns the round outcome so far.
func (r *Round) Result() Result {
	return Result{FinalScore: r.score, Distance: r.distance}
}

// Snapshot captures the round for rendering.
func (r *Round) Snapshot(nickname string) *Snapshot {
	return &Snapshot{
		Field:          r.settings.Field,
		SnakeCells:     r.snake.Cells(),
		Heading:        r.snake.Heading(),
		Food:           r.food,
		HasFood:        r.hasFood,
		Score:          r.score,
		Lives:          r.lives,
		Speed:          r.speed,
		Distance:       r.distance,
		Tick:           r.ticks,
		State:          r.state,
		RestartPending: r.restartPending,
		Nickname:       nickname,
	}
}
