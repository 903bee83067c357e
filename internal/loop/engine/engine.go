// Package engine runs the snake simulation: a Round state machine driven by
// a cancellable ticker, with external commands processed between ticks.
package engine

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/sshnake/internal/leaderboard"
	"github.com/tomz197/sshnake/internal/object"
)

// Controller is the interface the presentation layer uses to drive an engine.
// Decouples the Client from the concrete Engine implementation.
type Controller interface {
	Start()
	OnHeadingIntent(h object.Heading)
	OnPauseToggle()
	RequestRestart()
	OnRestartConfirm()
	OnRestartCancel()
	Snapshot() *Snapshot
	Events() <-chan Event
}

// Recorder receives finished rounds. Implemented by *leaderboard.Leaderboard.
type Recorder interface {
	Record(e leaderboard.Entry) (rank int, entries []leaderboard.Entry)
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Nickname    string
	Clock       Clock
	Logger      *log.Logger
	Leaderboard Recorder
}

// Compile-time check that Engine implements Controller.
var _ Controller = (*Engine)(nil)

type commandKind int

const (
	cmdStart commandKind = iota
	cmdIntent
	cmdPause
	cmdRequestRestart
	cmdConfirmRestart
	cmdCancelRestart
)

type command struct {
	kind    commandKind
	heading object.Heading
}

// Engine owns one Round and the ticker that drives it.
// All round mutation happens on the goroutine running Run.
type Engine struct {
	round    *Round
	nickname string
	clock    Clock
	logger   *log.Logger
	board    Recorder

	ticker      Ticker
	tickerSpeed int

	commands chan command
	events   chan Event
	snapshot atomic.Pointer[Snapshot]
	done     chan struct{}
}

// New creates an engine with a fresh round in the Ready state.
func New(settings Settings, opts Options) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		round:    NewRound(settings),
		nickname: leaderboard.SanitizeName(opts.Nickname),
		clock:    clock,
		logger:   logger,
		board:    opts.Leaderboard,
		commands: make(chan command, 64),
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
	e.publish()
	return e, nil
}

// Run processes ticks and commands until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)
	defer e.stopTicker()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-e.commands:
			e.handle(cmd)
		case <-e.tickC():
			e.tick()
		}
	}
}

// Start begins a Ready round.
func (e *Engine) Start() { e.send(command{kind: cmdStart}) }

// OnHeadingIntent requests a heading change for the next tick.
// Dropped when the command queue is full.
func (e *Engine) OnHeadingIntent(h object.Heading) {
	select {
	case e.commands <- command{kind: cmdIntent, heading: h}:
	default:
	}
}

// OnPauseToggle switches between running and paused.
func (e *Engine) OnPauseToggle() { e.send(command{kind: cmdPause}) }

// RequestRestart asks for a restart; the round pauses until confirmed or cancelled.
func (e *Engine) RequestRestart() { e.send(command{kind: cmdRequestRestart}) }

// OnRestartConfirm restarts the round from scratch.
func (e *Engine) OnRestartConfirm() { e.send(command{kind: cmdConfirmRestart}) }

// OnRestartCancel drops a pending restart.
func (e *Engine) OnRestartCancel() { e.send(command{kind: cmdCancelRestart}) }

// Snapshot returns the latest published state.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Events returns the channel of engine events.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Done is closed once Run has returned.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// send enqueues a control command, blocking until accepted or the engine stopped.
func (e *Engine) send(cmd command) {
	select {
	case e.commands <- cmd:
	case <-e.done:
	}
}

// handle applies one command to the round.
func (e *Engine) handle(cmd command) {
	r := e.round
	before := r.State()

	switch cmd.kind {
	case cmdStart:
		r.Start()
	case cmdIntent:
		if !r.QueueIntent(cmd.heading) {
			return
		}
	case cmdPause:
		r.TogglePause()
	case cmdRequestRestart:
		r.RequestRestart()
	case cmdConfirmRestart:
		r.ConfirmRestart()
		e.emit(Event{Type: EventRestarted, Lives: r.Lives()})
		e.logger.Debug("round restarted", "player", e.nickname)
	case cmdCancelRestart:
		r.CancelRestart()
	}

	if after := r.State(); after != before {
		e.logger.Debug("state change", "player", e.nickname, "from", before, "to", after)
	}
	e.syncTicker()
	e.publish()
}

// tick runs one simulation step.
func (e *Engine) tick() {
	r := e.round
	out := r.Tick()
	if !out.Moved {
		return
	}

	if out.LifeLost {
		e.logger.Debug("life lost", "player", e.nickname, "lives", r.Lives(), "score", r.Score())
		e.emit(Event{Type: EventLifeLost, Lives: r.Lives()})
	}
	if out.Ended {
		e.finish()
	}

	e.syncTicker()
	e.publish()
}

// finish records the round result and notifies the presentation layer.
func (e *Engine) finish() {
	result := e.round.Result()
	ev := Event{Type: EventRoundEnded, Result: result}

	if e.board != nil {
		ev.Rank, ev.Leaderboard = e.board.Record(leaderboard.Entry{
			Name:      e.nickname,
			Score:     result.FinalScore,
			Distance:  result.Distance,
			Timestamp: e.clock.Now(),
		})
	}

	e.logger.Info("round ended", "player", e.nickname, "score", result.FinalScore, "distance", result.Distance, "rank", ev.Rank)
	e.emit(ev)
}

// syncTicker keeps the ticker running exactly while the round is running,
// at the period matching the current speed.
func (e *Engine) syncTicker() {
	running := e.round.State() == StateRunning
	speed := e.round.Speed()

	switch {
	case running && e.ticker == nil:
		e.ticker = e.clock.NewTicker(TickPeriod(speed))
		e.tickerSpeed = speed
	case running && e.tickerSpeed != speed:
		e.ticker.Reset(TickPeriod(speed))
		e.tickerSpeed = speed
	case !running:
		e.stopTicker()
	}
}

func (e *Engine) stopTicker() {
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
}

// tickC returns the ticker channel, or nil (never ready) when stopped.
func (e *Engine) tickC() <-chan time.Time {
	if e.ticker == nil {
		return nil
	}
	return e.ticker.C()
}

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		// Events channel full, drop event
	}
}

func (e *Engine) publish() {
	e.snapshot.Store(e.round.Snapshot(e.nickname))
}
