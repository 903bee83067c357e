package client

import (
	"bufio"
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/muesli/termenv"
	"github.com/tomz197/sshnake/internal/input"
	"github.com/tomz197/sshnake/internal/leaderboard"
	"github.com/tomz197/sshnake/internal/loop/engine"
	"github.com/tomz197/sshnake/internal/object"
)

// fakeController records the calls a client makes.
type fakeController struct {
	mu     sync.Mutex
	snap   *engine.Snapshot
	events chan engine.Event
	calls  []string
	intent []object.Heading
}

func newFakeController(t *testing.T) *fakeController {
	t.Helper()
	snap := engine.NewRound(engine.DefaultSettings()).Snapshot("tester")
	return &fakeController{snap: snap, events: make(chan engine.Event, 4)}
}

func (f *fakeController) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeController) Start() { f.record("start") }
func (f *fakeController) OnPauseToggle() { f.record("pause") }
func (f *fakeController) RequestRestart() { f.record("request-restart") }
func (f *fakeController) OnRestartConfirm() { f.record("confirm") }
func (f *fakeController) OnRestartCancel() { f.record("cancel") }
func (f *fakeController) OnHeadingIntent(h object.Heading) {
	f.mu.Lock()
	f.intent = append(f.intent, h)
	f.mu.Unlock()
}
func (f *fakeController) Snapshot() *engine.Snapshot { return f.snap }
func (f *fakeController) Events() <-chan engine.Event { return f.events }

func (f *fakeController) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func newTestClient(t *testing.T, ctrl *fakeController, out *bytes.Buffer, shutdown chan struct{}) *Client {
	t.Helper()
	return NewClient(ctrl, bufio.NewReader(strings.NewReader("")), out, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return 80, 24, nil },
		Username:     "tester",
		Profile:      termenv.Ascii,
		Leaderboard:  leaderboard.New(nil, nil),
		Shutdown:     shutdown,
	})
}

func TestClientStartsRound(t *testing.T) {
	ctrl := newFakeController(t)
	c := newTestClient(t, ctrl, &bytes.Buffer{}, nil)

	c.state.Input = input.Input{Enter: true}
	c.updateStartState()
	if !ctrl.called("start") || c.state.GameState != GameStatePlaying {
		t.Fatalf("calls = %v state = %v", ctrl.calls, c.state.GameState)
	}
}

func TestClientForwardsFilteredIntents(t *testing.T) {
	ctrl := newFakeController(t)
	ctrl.snap.State = engine.StateRunning
	c := newTestClient(t, ctrl, &bytes.Buffer{}, nil)
	c.state.GameState = GameStatePlaying

	c.state.Input = input.Parse([]byte("a")) // Reverse of right
	c.updatePlayingState()
	c.state.Input = input.Parse([]byte("w"))
	c.updatePlayingState()
	c.state.Input = input.Parse([]byte("s")) // Inside the cooldown
	c.updatePlayingState()

	if len(ctrl.intent) != 1 || ctrl.intent[0] != object.HeadingUp {
		t.Fatalf("forwarded intents = %v, want [up]", ctrl.intent)
	}
}

func TestClientRestartConfirmation(t *testing.T) {
	ctrl := newFakeController(t)
	ctrl.snap.State = engine.StateRunning
	c := newTestClient(t, ctrl, &bytes.Buffer{}, nil)
	c.state.GameState = GameStatePlaying

	c.state.Input = input.Parse([]byte("r"))
	c.updatePlayingState()
	if !ctrl.called("request-restart") {
		t.Fatal("restart not requested")
	}

	ctrl.snap.State = engine.StatePaused
	ctrl.snap.RestartPending = true
	c.state.Input = input.Parse([]byte("p")) // Ignored while confirming
	c.updatePlayingState()
	if ctrl.called("pause") {
		t.Fatal("pause toggled during confirmation")
	}
	c.state.Input = input.Parse([]byte("y"))
	c.updatePlayingState()
	if !ctrl.called("confirm") {
		t.Fatal("restart not confirmed")
	}
}

func TestClientRoundEndedEvent(t *testing.T) {
	ctrl := newFakeController(t)
	c := newTestClient(t, ctrl, &bytes.Buffer{}, nil)
	c.state.GameState = GameStatePlaying

	board := []leaderboard.Entry{{Name: "tester", Score: 7}}
	ctrl.events <- engine.Event{Type: engine.EventLifeLost, Lives: 0}
	ctrl.events <- engine.Event{Type: engine.EventRoundEnded, Result: engine.Result{FinalScore: 7, Distance: 40}, Rank: 1, Leaderboard: board}
	c.processEngineEvents()

	if c.state.GameState != GameStateOver || c.state.Rank != 1 || c.state.Result.FinalScore != 7 {
		t.Fatalf("state = %+v", c.state)
	}

	ctrl.snap.State = engine.StateEnded
	c.state.Input = input.Input{Enter: true}
	c.updateOverState()
	if !ctrl.called("confirm") || c.state.GameState != GameStatePlaying {
		t.Fatal("play again did not restart")
	}
	// The engine has not applied the restart yet; the client must not bounce back.
	c.state.Input = input.Input{}
	c.updatePlayingState()
	if c.state.GameState != GameStatePlaying {
		t.Fatal("client returned to game over before the restart applied")
	}
}

func TestClientShutdown(t *testing.T) {
	ctrl := newFakeController(t)
	ctrl.snap.State = engine.StateRunning
	shutdown := make(chan struct{})
	c := newTestClient(t, ctrl, &bytes.Buffer{}, shutdown)
	c.state.GameState = GameStatePlaying

	c.processShutdown()
	if c.state.GameState != GameStatePlaying {
		t.Fatal("shutdown screen before the signal")
	}
	close(shutdown)
	c.processShutdown()
	if c.state.GameState != GameStateShutdown || !ctrl.called("pause") {
		t.Fatalf("state = %v calls = %v", c.state.GameState, ctrl.calls)
	}
}

func TestClientDrawsPlayingFrame(t *testing.T) {
	ctrl := newFakeController(t)
	ctrl.snap.State = engine.StateRunning
	var out bytes.Buffer
	c := newTestClient(t, ctrl, &out, nil)
	c.state.GameState = GameStatePlaying

	c.updateScreen()
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	frame := out.String()
	for _, want := range []string{"Score 0", "Lives 3", "┌", "▀"} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestClientTooSmallTerminal(t *testing.T) {
	ctrl := newFakeController(t)
	var out bytes.Buffer
	c := NewClient(ctrl, bufio.NewReader(strings.NewReader("")), &out, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return 20, 10, nil },
		Profile:      termenv.Ascii,
	})
	c.state.GameState = GameStatePlaying
	c.updateScreen()
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "Terminal too small") {
		t.Fatal("too-small message not drawn")
	}
}
