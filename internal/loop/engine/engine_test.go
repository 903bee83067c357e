package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomz197/sshnake/internal/leaderboard"
	"github.com/tomz197/sshnake/internal/object"
)

type fakeTicker struct {
	mu      sync.Mutex
	ch      chan time.Time
	period  time.Duration
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Reset(d time.Duration) {
	t.mu.Lock()
	t.period = d
	t.mu.Unlock()
}

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *fakeTicker) Period() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

func (t *fakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// fakeClock hands out manually fired tickers.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time, 1), period: d}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

// active returns the newest ticker if it has not been stopped.
func (c *fakeClock) active() *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		return nil
	}
	t := c.tickers[len(c.tickers)-1]
	if t.Stopped() {
		return nil
	}
	return t
}

func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestEngine(t *testing.T, clock *fakeClock, board Recorder) *Engine {
	t.Helper()
	e, err := New(testSettings(t), Options{Nickname: "tester", Clock: clock, Leaderboard: board})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.InitialLives = 0
	if _, err := New(s, Options{}); err == nil {
		t.Fatal("expected an error for zero lives")
	}
}

func TestEngineInitialSnapshot(t *testing.T) {
	e := newTestEngine(t, newFakeClock(), nil)
	snap := e.Snapshot()
	if snap == nil {
		t.Fatal("no snapshot published")
	}
	if snap.State != StateReady || snap.Lives != 3 || snap.Speed != 5 || snap.Nickname != "tester" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.SnakeCells) != 4 {
		t.Fatalf("snake cells = %v", snap.SnakeCells)
	}
}

func TestEngineTickerFollowsState(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(t, clock, nil)

	if e.tickC() != nil {
		t.Fatal("ticker running before start")
	}
	e.handle(command{kind: cmdStart})
	tk := clock.active()
	if tk == nil || tk.Period() != 200*time.Millisecond {
		t.Fatalf("ticker after start = %+v", tk)
	}

	e.handle(command{kind: cmdPause})
	if clock.active() != nil || e.tickC() != nil {
		t.Fatal("ticker still running while paused")
	}

	e.handle(command{kind: cmdPause})
	if clock.active() == nil || clock.count() != 2 {
		t.Fatalf("ticker not recreated on resume, %d tickers", clock.count())
	}
}

func TestEngineTickerFollowsSpeed(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(t, clock, nil)
	e.handle(command{kind: cmdStart})

	for i := 0; i < 5; i++ {
		if !e.round.PlaceFood(nextHead(e.round)) {
			t.Fatal("PlaceFood failed")
		}
		e.tick()
	}
	if e.round.Speed() != 6 {
		t.Fatalf("speed = %d, want 6", e.round.Speed())
	}
	if got := clock.active().Period(); got != time.Second/6 {
		t.Fatalf("period = %v, want %v", got, time.Second/6)
	}
	if e.Snapshot().Score != 5 {
		t.Fatalf("snapshot score = %d", e.Snapshot().Score)
	}
}

func TestEngineDropsSecondIntentInTick(t *testing.T) {
	e := newTestEngine(t, newFakeClock(), nil)
	e.handle(command{kind: cmdStart})
	e.handle(command{kind: cmdIntent, heading: object.HeadingDown})
	e.handle(command{kind: cmdIntent, heading: object.HeadingUp})
	park(t, e.round)
	e.tick()
	if h := e.Snapshot().Heading; h != object.HeadingDown {
		t.Fatalf("heading = %v, want down", h)
	}
}

func TestEngineRoundEndRecordsLeaderboard(t *testing.T) {
	clock := newFakeClock()
	board := leaderboard.New(leaderboard.NewMemoryStore(), nil)
	e := newTestEngine(t, clock, board)
	e.handle(command{kind: cmdStart})

	lifeLost := 0
	for i := 0; i < 3; i++ {
		crashEngine(t, e)
	}
	var ended *Event
	for ended == nil {
		select {
		case ev := <-e.Events():
			switch ev.Type {
			case EventLifeLost:
				lifeLost++
			case EventRoundEnded:
				ended = &ev
			}
		default:
			t.Fatal("no round-ended event")
		}
	}
	if lifeLost != 3 {
		t.Fatalf("life-lost events = %d, want 3", lifeLost)
	}
	if ended.Rank != 1 || len(ended.Leaderboard) != 1 {
		t.Fatalf("rank = %d board = %v", ended.Rank, ended.Leaderboard)
	}
	entry := ended.Leaderboard[0]
	if entry.Name != "tester" || entry.Score != ended.Result.FinalScore || entry.Distance != ended.Result.Distance {
		t.Fatalf("entry = %+v result = %+v", entry, ended.Result)
	}
	if e.Snapshot().State != StateEnded || clock.active() != nil {
		t.Fatal("engine still running after the round ended")
	}
}

func TestEngineRestartEvent(t *testing.T) {
	e := newTestEngine(t, newFakeClock(), nil)
	e.handle(command{kind: cmdStart})
	e.handle(command{kind: cmdRequestRestart})
	if s := e.Snapshot(); s.State != StatePaused || !s.RestartPending {
		t.Fatalf("snapshot = %+v", s)
	}
	e.handle(command{kind: cmdConfirmRestart})
	if ev := <-e.Events(); ev.Type != EventRestarted || ev.Lives != 3 {
		t.Fatalf("event = %+v", ev)
	}
	if e.Snapshot().State != StateRunning {
		t.Fatalf("state = %v", e.Snapshot().State)
	}
}

func TestEngineRun(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(t, clock, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)

	e.Start()
	waitFor(t, "ticker", func() bool { return clock.active() != nil })

	clock.active().ch <- time.Now()
	waitFor(t, "first tick", func() bool { return e.Snapshot().Tick == 1 })

	e.OnHeadingIntent(object.HeadingDown)
	waitFor(t, "intent dequeued", func() bool { return len(e.commands) == 0 })
	clock.active().ch <- time.Now()
	waitFor(t, "second tick", func() bool { return e.Snapshot().Tick == 2 })
	if h := e.Snapshot().Heading; h != object.HeadingDown {
		t.Fatalf("heading = %v, want down", h)
	}

	e.OnPauseToggle()
	waitFor(t, "pause", func() bool { return e.Snapshot().State == StatePaused })
	if clock.active() != nil {
		t.Fatal("ticker running while paused")
	}

	cancel()
	select {
	case <-e.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// Commands after shutdown must not block.
	e.OnPauseToggle()
	e.OnRestartCancel()
}

// crashEngine drives one self-collision through the engine.
func crashEngine(t *testing.T, e *Engine) {
	t.Helper()
	if e.round.Snake().Len() < 5 {
		e.round.PlaceFood(nextHead(e.round))
		e.tick()
		park(t, e.round)
		e.tick()
	}
	for _, h := range []object.Heading{object.HeadingUp, object.HeadingLeft, object.HeadingDown} {
		e.handle(command{kind: cmdIntent, heading: h})
		park(t, e.round)
		e.tick()
	}
}
