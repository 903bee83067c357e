// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield, measured in cells. Coordinates are cell index * CellSize.
const (
	DefaultCellSize = 16 // Coordinate units per cell
	FieldColumns    = 25 // 400 units wide at the default cell size
	FieldRows       = 30 // 480 units tall at the default cell size
)

// Snake
const (
	InitialLength = 4
	StartColumn   = 10 // Start cell (160,160) at the default cell size
	StartRow      = 10
)

// Round
const (
	InitialLives  = 3
	BaseSpeed     = 5                     // Ticks per second at round start and after a lost life
	SpeedStep     = 5                     // Score interval at which speed increases by one
	MinTickPeriod = 50 * time.Millisecond // Speed is clamped so ticks never come faster
)

// Input
const (
	IntentCooldown = 100 * time.Millisecond // Minimum time between forwarded heading intents
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS

	HUDRows = 2 // Terminal rows reserved above and below the field

	LifeLostBannerSeconds = 1.5
)
