package client

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/tomz197/sshnake/internal/draw"
	"github.com/tomz197/sshnake/internal/input"
	"github.com/tomz197/sshnake/internal/leaderboard"
	"github.com/tomz197/sshnake/internal/loop/config"
	"github.com/tomz197/sshnake/internal/loop/engine"
)

// Board lists the current leaderboard for the start screen.
type Board interface {
	List() []leaderboard.Entry
}

// Client handles rendering and input for a single player.
type Client struct {
	engine       engine.Controller
	state        *ClientState
	layout       layout
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	intents      *input.IntentFilter
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	styles       styles
	board        Board
	logger       *log.Logger
	shutdown     <-chan struct{}
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Profile      termenv.Profile // Colour profile of the player's terminal
	Leaderboard  Board           // Shown on the start screen; optional
	Logger       *log.Logger
	Shutdown     <-chan struct{} // Closed when the server is going down; optional
}

// NewClient creates a client driving the given engine.
func NewClient(ctrl engine.Controller, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(opts.Profile)

	return &Client{
		engine:       ctrl,
		state:        NewClientState(),
		canvas:       draw.NewCanvas(0, 0, newFieldPalette(opts.Profile)),
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		intents:      input.NewIntentFilter(config.IntentCooldown),
		lastInput:    time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		styles:       newStyles(renderer),
		board:        opts.Leaderboard,
		logger:       logger,
		shutdown:     opts.Shutdown,
	}
}

// Run starts the client loop. Blocks until the player quits, the input
// closes, or the shutdown countdown ends.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processEngineEvents()
		c.processShutdown()
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateOver:
			c.updateOverState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads the frame's input and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.state.Input.Closed {
		c.state.Running = false
		return
	}

	idle := time.Since(c.lastInput).Seconds()
	switch {
	case len(c.state.Input.Pressed) > 0:
		c.lastInput = time.Now()
		c.state.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.logger.Info("disconnecting inactive player", "user", c.username)
		c.state.Running = false
	case idle > config.InactivityWarnUser:
		if !c.state.isInactive {
			c.pauseIfRunning()
		}
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processEngineEvents drains events from the engine.
func (c *Client) processEngineEvents() {
	for {
		select {
		case ev := <-c.engine.Events():
			switch ev.Type {
			case engine.EventLifeLost:
				c.state.lifeLostTimer = config.LifeLostBannerSeconds
				c.state.livesLeft = ev.Lives
			case engine.EventRoundEnded:
				c.enterOverState(ev.Result, ev.Rank, ev.Leaderboard)
			case engine.EventRestarted:
				c.state.lifeLostTimer = 0
				c.intents.Reset()
			}
		default:
			return
		}
	}
}

// processShutdown switches to the shutdown screen once the server announces it.
func (c *Client) processShutdown() {
	if c.state.GameState == GameStateShutdown {
		return
	}
	select {
	case <-c.shutdown:
		c.pauseIfRunning()
		c.state.GameState = GameStateShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	default:
	}
}

// updateScreen lays the field out for the current terminal size. On actual
// size changes, clears the terminal to remove residual pixels.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	if termWidth == c.layout.termWidth && termHeight == c.layout.termHeight {
		return
	}

	field := c.engine.Snapshot().Field
	c.layout = computeLayout(termWidth, termHeight, field.Columns(), field.Rows())
	c.state.tooSmall = !c.layout.ok

	c.chunkWriter.Clear()
	c.canvas.Resize(c.layout.width, c.layout.height)
	c.canvas.SetOffset(c.layout.offsetCol, c.layout.offsetRow)
	c.canvas.ForceRedraw()
}

// updateStartState handles the title screen.
func (c *Client) updateStartState() {
	if c.state.Input.Enter || c.state.Input.Space {
		c.intents.Reset()
		c.engine.Start()
		c.state.GameState = GameStatePlaying
	}
}

// updatePlayingState forwards the frame's input to the engine.
func (c *Client) updatePlayingState() {
	in := c.state.Input
	snap := c.engine.Snapshot()

	if c.state.lifeLostTimer > 0 {
		c.state.lifeLostTimer -= c.state.delta.Seconds()
	}

	if snap.State != engine.StateEnded {
		c.state.restarting = false
	}

	switch {
	case snap.State == engine.StateEnded && c.state.restarting:
		// Waiting for the engine to apply the restart.
	case snap.State == engine.StateEnded:
		// The round-ended event was dropped; rebuild the result from the snapshot.
		var entries []leaderboard.Entry
		if c.board != nil {
			entries = c.board.List()
		}
		c.enterOverState(engine.Result{FinalScore: snap.Score, Distance: snap.Distance}, 0, entries)
	case snap.RestartPending:
		if in.Confirm {
			c.engine.OnRestartConfirm()
		} else if in.Cancel {
			c.engine.OnRestartCancel()
		}
	case in.Restart:
		c.engine.RequestRestart()
	case in.Pause:
		c.engine.OnPauseToggle()
	case snap.State == engine.StateRunning && in.Heading.Valid():
		if c.intents.Allow(in.Heading, snap.Heading, time.Now()) {
			c.engine.OnHeadingIntent(in.Heading)
		}
	}
}

// updateOverState handles the game over screen.
func (c *Client) updateOverState() {
	in := c.state.Input
	if in.Enter || in.Space || in.Restart {
		c.state.restarting = true
		c.engine.OnRestartConfirm()
		c.state.GameState = GameStatePlaying
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

func (c *Client) enterOverState(result engine.Result, rank int, board []leaderboard.Entry) {
	c.state.GameState = GameStateOver
	c.state.Result = result
	c.state.Rank = rank
	c.state.Board = board
	c.state.lifeLostTimer = 0
}

func (c *Client) pauseIfRunning() {
	if snap := c.engine.Snapshot(); snap.State == engine.StateRunning && !snap.RestartPending {
		c.engine.OnPauseToggle()
	}
}
