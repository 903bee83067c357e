package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/sshnake/internal/leaderboard"
	"github.com/tomz197/sshnake/internal/loop/config"
	"github.com/tomz197/sshnake/internal/loop/engine"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	sizeChanged := c.state.tooSmall != c.state.wasTooSmall
	if stateChanged || inactiveChanged || sizeChanged {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.wasTooSmall = c.state.tooSmall
	}

	centerX := c.layout.termWidth / 2
	centerY := c.layout.termHeight / 2

	switch {
	case c.state.GameState == GameStateShutdown:
		c.drawShutdownScreen(centerX, centerY)
	case c.state.isInactive:
		c.drawInactivityScreen(centerX, centerY)
	case c.state.tooSmall:
		c.drawTooSmallScreen(centerX, centerY)
	case c.state.GameState == GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case c.state.GameState == GameStateOver:
		c.drawOverScreen(centerX, centerY)
	default:
		c.drawPlaying()
	}

	return c.chunkWriter.Flush()
}

// drawPlaying renders the field, its border, the HUD and any overlay.
func (c *Client) drawPlaying() {
	snap := c.engine.Snapshot()

	c.drawField(snap)
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawPlayingHUD(snap)

	switch {
	case snap.RestartPending:
		c.drawOverlay(c.styles.panel.Render(
			c.styles.title.Render("Restart the round?") + "\n\n" +
				"Your score will be lost.\n\n" +
				c.styles.accent.Render("y") + " restart   " + c.styles.accent.Render("n") + " keep playing",
		))
	case snap.State == engine.StatePaused:
		c.drawOverlay(c.styles.panel.Render(
			c.styles.title.Render("PAUSED") + "\n\n" +
				c.styles.accent.Render("p") + " resume\n" +
				c.styles.accent.Render("r") + " restart\n" +
				c.styles.accent.Render("q") + " quit",
		))
	case c.state.lifeLostTimer > 0:
		c.drawOverlay(c.styles.warn.Render(livesMessage(c.state.livesLeft)))
	}
}

// drawField paints food and snake onto the canvas.
func (c *Client) drawField(snap *engine.Snapshot) {
	c.canvas.Clear()
	scale := c.layout.scale
	f := snap.Field

	if snap.HasFood {
		col, row := f.Index(snap.Food)
		c.canvas.FillRect(col*scale, row*scale, scale, scale, colorFood)
	}
	for i := len(snap.SnakeCells) - 1; i >= 0; i-- {
		col, row := f.Index(snap.SnakeCells[i])
		color := colorSnake
		if i == 0 {
			color = colorHead
		}
		c.canvas.FillRect(col*scale, row*scale, scale, scale, color)
	}
}

// drawPlayingHUD draws score, lives and speed above the field and key hints below it.
// Text fields use fixed-width formatting so shrinking values don't leave residual characters.
func (c *Client) drawPlayingHUD(snap *engine.Snapshot) {
	cw := c.chunkWriter
	l := c.layout

	score := c.styles.hud.Render(fmt.Sprintf("Score %-5d", snap.Score))
	cw.WriteAt(l.leftCol(), l.hudRow(), score)

	status := c.styles.hud.Render(fmt.Sprintf("Lives %d Spd %-2d", snap.Lives, snap.Speed))
	cw.WriteAt(l.rightCol()-lipgloss.Width(status)+1, l.hudRow(), status)

	name := snap.Nickname
	if l.width >= 60 {
		cw.WriteAt(l.centerCol()-lipgloss.Width(name)/2, l.hudRow(), c.styles.accent.Render(name))
	}

	hint := "p pause  r restart  q quit"
	if lipgloss.Width(hint) > l.width+2 {
		hint = "p  r  q"
	}
	cw.WriteAt(l.centerCol()-lipgloss.Width(hint)/2, l.hintRow(), c.styles.hint.Render(hint))
}

// drawOverlay centres a rendered block over the field and marks the covered
// canvas cells dirty so they are repainted once the overlay goes away.
func (c *Client) drawOverlay(block string) {
	lines, width := blockLines(block)
	col := c.layout.centerCol() - width/2
	row := c.layout.centerRow() - len(lines)/2
	for i, line := range lines {
		c.chunkWriter.WriteAt(col, row+i, line)
		c.canvas.MarkTextDirty(col, row+i, width)
	}
}

// writeCentered writes each line of block centred on centerX, starting at row top.
// Returns the row after the block.
func (c *Client) writeCentered(centerX, top int, block string) int {
	lines, width := blockLines(block)
	for i, line := range lines {
		c.chunkWriter.WriteAt(centerX-width/2, top+i, line)
	}
	return top + len(lines)
}

var titleArt = []string{
	` ___ ___ _  _ _  _   _   _  _____ `,
	`/ __/ __| || | \| | /_\ | |/ / __|`,
	`\__ \__ \ __ | .' |/ _ \| ' <| _| `,
	`|___/___/_||_|_|\_/_/ \_\_|\_\___|`,
}

var gameOverArt = []string{
	`  ___   _   __  __ ___    _____   _____ ___ `,
	` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \`,
	`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   /`,
	` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\`,
}

// drawStartScreen draws the title screen with controls and the leaderboard.
func (c *Client) drawStartScreen(centerX, centerY int) {
	s := c.styles
	row := centerY - 12
	if row < 1 {
		row = 1
	}

	row = c.writeCentered(centerX, row, s.title.Render(strings.Join(titleArt, "\n")))
	row = c.writeCentered(centerX, row+1, "~ Snake in your terminal ~")

	controls := strings.Join([]string{
		"Arrows / WASD / IJKL . . . Steer",
		"P / SPACE  . . . . . . . . Pause",
		"R  . . . . . . . . . . . Restart",
		"Q  . . . . . . . . . . . . .Quit",
	}, "\n")
	row = c.writeCentered(centerX, row+1, s.accent.Render("Controls")+"\n"+controls)

	var board []leaderboard.Entry
	if c.board != nil {
		board = c.board.List()
	}
	row = c.writeCentered(centerX, row+1, s.leaderboardTable(board, 0))

	if c.username != "" {
		row = c.writeCentered(centerX, row+1, "Playing as "+s.accent.Render(c.username))
	}

	// Blinking start prompt
	prompt := ">>  Press ENTER to Start  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = strings.Repeat(" ", len(prompt))
	}
	c.writeCentered(centerX, row+1, s.hud.Render(prompt))
}

// drawOverScreen draws the game over screen with the result and leaderboard.
func (c *Client) drawOverScreen(centerX, centerY int) {
	s := c.styles
	row := centerY - 10
	if row < 1 {
		row = 1
	}

	row = c.writeCentered(centerX, row, s.warn.Render(strings.Join(gameOverArt, "\n")))

	result := fmt.Sprintf("Score: %d   Distance: %d", c.state.Result.FinalScore, c.state.Result.Distance)
	row = c.writeCentered(centerX, row+1, s.hud.Render(result))

	rank := "Not on the leaderboard this time."
	if c.state.Rank > 0 {
		rank = s.accent.Render(fmt.Sprintf("New entry at #%d!", c.state.Rank))
	}
	row = c.writeCentered(centerX, row+1, rank)

	row = c.writeCentered(centerX, row+1, s.leaderboardTable(c.state.Board, c.state.Rank))

	prompt := ">>  Press ENTER to Play Again  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = strings.Repeat(" ", len(prompt))
	}
	row = c.writeCentered(centerX, row+1, s.hud.Render(prompt))
	c.writeCentered(centerX, row, s.hint.Render("Q to quit"))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, c.styles.warn.Render(title))

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %3d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawTooSmallScreen asks for a bigger terminal.
func (c *Client) drawTooSmallScreen(centerX, centerY int) {
	field := c.engine.Snapshot().Field
	minW, minH := minTermSize(field.Columns(), field.Rows())

	lines := []string{
		"Terminal too small",
		fmt.Sprintf("Need %dx%d, have %dx%d", minW, minH, c.layout.termWidth, c.layout.termHeight),
	}
	for i, line := range lines {
		col := centerX - len(line)/2
		if col < 1 {
			col = 1
		}
		c.chunkWriter.WriteAt(col, centerY+i, line)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-3, c.styles.warn.Render(title))

	msg1 := "The server is restarting for maintenance."
	cw.WriteAt(centerX-len(msg1)/2, centerY-1, msg1)

	msg2 := "Your finished rounds are saved. Please reconnect in a moment."
	cw.WriteAt(centerX-len(msg2)/2, centerY, msg2)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %2d seconds...", remaining)
	cw.WriteAt(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(centerX-len(hint)/2, centerY+4, hint)
}

func livesMessage(lives int) string {
	switch lives {
	case 0:
		return " No lives left "
	case 1:
		return " Ouch! 1 life left "
	default:
		return fmt.Sprintf(" Ouch! %d lives left ", lives)
	}
}
