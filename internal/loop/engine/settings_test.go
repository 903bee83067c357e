package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/tomz197/sshnake/internal/physics"
)

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("SNAKE_CELL_SIZE", "8")
	t.Setenv("SNAKE_BASE_SPEED", "7")
	t.Setenv("SNAKE_SEED", "99")

	s, err := SettingsFromEnv()
	if err != nil {
		t.Fatalf("SettingsFromEnv: %v", err)
	}
	if s.Field.CellSize != 8 || s.Field.Width != 25*8 || s.Field.Height != 30*8 {
		t.Errorf("field = %+v", s.Field)
	}
	if s.Start != (physics.Cell{X: 80, Y: 80}) {
		t.Errorf("start = %v, want (80,80)", s.Start)
	}
	if s.BaseSpeed != 7 || s.Seed != 99 {
		t.Errorf("speed %d seed %d", s.BaseSpeed, s.Seed)
	}
}

func TestSettingsFromEnvDefaults(t *testing.T) {
	t.Setenv("SNAKE_CELL_SIZE", "")
	t.Setenv("SNAKE_BASE_SPEED", "")
	t.Setenv("SNAKE_SEED", "")

	s, err := SettingsFromEnv()
	if err != nil {
		t.Fatalf("SettingsFromEnv: %v", err)
	}
	if s.Field.Width != 400 || s.Field.Height != 480 || s.BaseSpeed != 5 || s.MaxSpeed != 20 {
		t.Errorf("defaults = %+v", s)
	}
	if s.Seed == 0 {
		t.Error("zero seed was not replaced")
	}
}

func TestSettingsFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"zero cell size", "SNAKE_CELL_SIZE", "0"},
		{"non numeric cell size", "SNAKE_CELL_SIZE", "big"},
		{"speed above cap", "SNAKE_BASE_SPEED", "30"},
		{"zero speed", "SNAKE_BASE_SPEED", "0"},
		{"bad seed", "SNAKE_SEED", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SNAKE_CELL_SIZE", "")
			t.Setenv("SNAKE_BASE_SPEED", "")
			t.Setenv("SNAKE_SEED", "")
			t.Setenv(tt.key, tt.value)
			if _, err := SettingsFromEnv(); err == nil {
				t.Fatalf("%s=%q accepted", tt.key, tt.value)
			}
		})
	}
}

func TestNewSettingsInvalidCellSize(t *testing.T) {
	_, err := NewSettings(-4, 5, 1)
	if !errors.Is(err, physics.ErrInvalidField) {
		t.Fatalf("err = %v, want ErrInvalidField", err)
	}
}

func TestTickPeriod(t *testing.T) {
	tests := []struct {
		speed int
		want  time.Duration
	}{
		{5, 200 * time.Millisecond},
		{8, 125 * time.Millisecond},
		{20, 50 * time.Millisecond},
		{40, 50 * time.Millisecond},
		{0, time.Second},
	}
	for _, tt := range tests {
		if got := TickPeriod(tt.speed); got != tt.want {
			t.Errorf("TickPeriod(%d) = %v, want %v", tt.speed, got, tt.want)
		}
	}
}
