package engine

import (
	"fmt"
	"time"

	envconfig "github.com/tomz197/sshnake/internal/config"
	"github.com/tomz197/sshnake/internal/loop/config"
	"github.com/tomz197/sshnake/internal/physics"
)

// Settings holds the per-round constants of the simulation.
type Settings struct {
	Field         physics.Field
	Start         physics.Cell // Head position after every reset
	InitialLength int
	InitialLives  int
	BaseSpeed     int // Ticks per second
	MaxSpeed      int // Upper bound derived from the minimum tick period
	SpeedStep     int // Speed rises by one each time the score reaches a multiple of this
	Seed          int64
}

// DefaultSettings returns the standard game: 25x30 cells of 16 units.
func DefaultSettings() Settings {
	s, err := NewSettings(config.DefaultCellSize, config.BaseSpeed, 1)
	if err != nil {
		panic(err) // constants are valid
	}
	return s
}

// NewSettings derives a full configuration from the cell size and base speed.
func NewSettings(cellSize, baseSpeed int, seed int64) (Settings, error) {
	field, err := physics.NewField(config.FieldColumns*cellSize, config.FieldRows*cellSize, cellSize)
	if err != nil {
		return Settings{}, err
	}
	s := Settings{
		Field:         field,
		Start:         field.CellAt(config.StartColumn, config.StartRow),
		InitialLength: config.InitialLength,
		InitialLives:  config.InitialLives,
		BaseSpeed:     baseSpeed,
		MaxSpeed:      int(time.Second / config.MinTickPeriod),
		SpeedStep:     config.SpeedStep,
		Seed:          seed,
	}
	return s, s.Validate()
}

// SettingsFromEnv reads SNAKE_CELL_SIZE, SNAKE_BASE_SPEED and SNAKE_SEED.
// A zero seed is replaced by the current time.
func SettingsFromEnv() (Settings, error) {
	cellSize, err := envconfig.GetEnvInt("SNAKE_CELL_SIZE", config.DefaultCellSize)
	if err != nil {
		return Settings{}, err
	}
	baseSpeed, err := envconfig.GetEnvInt("SNAKE_BASE_SPEED", config.BaseSpeed)
	if err != nil {
		return Settings{}, err
	}
	seed, err := envconfig.GetEnvInt64("SNAKE_SEED", 0)
	if err != nil {
		return Settings{}, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewSettings(cellSize, baseSpeed, seed)
}

// Validate checks that the settings describe a playable round.
func (s Settings) Validate() error {
	if _, err := physics.NewField(s.Field.Width, s.Field.Height, s.Field.CellSize); err != nil {
		return err
	}
	if !s.Field.Contains(s.Start) || s.Start.X%s.Field.CellSize != 0 || s.Start.Y%s.Field.CellSize != 0 {
		return fmt.Errorf("start cell %v is not a cell of the field", s.Start)
	}
	if s.InitialLength < 1 || s.InitialLength > s.Field.Columns() {
		return fmt.Errorf("initial length %d out of range", s.InitialLength)
	}
	if s.InitialLives < 1 {
		return fmt.Errorf("initial lives %d must be positive", s.InitialLives)
	}
	if s.BaseSpeed < 1 || s.BaseSpeed > s.MaxSpeed {
		return fmt.Errorf("base speed %d outside 1..%d", s.BaseSpeed, s.MaxSpeed)
	}
	if s.SpeedStep < 1 {
		return fmt.Errorf("speed step %d must be positive", s.SpeedStep)
	}
	return nil
}

// TickPeriod returns the time between ticks at the given speed.
func TickPeriod(speed int) time.Duration {
	if speed < 1 {
		speed = 1
	}
	period := time.Second / time.Duration(speed)
	if period < config.MinTickPeriod {
		period = config.MinTickPeriod
	}
	return period
}
