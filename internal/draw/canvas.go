package draw

import (
	"io"
	"strings"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Each sub-pixel holds a palette Color; ColorNone is empty.
// Render only rewrites terminal cells that changed since the previous frame.
type Canvas struct {
	termWidth      int     // Terminal columns covered by the canvas
	termHeight     int     // Terminal rows covered by the canvas
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]

	prev  []cellKey // What is on screen per terminal cell, from the last Render
	valid []bool    // prev entries that are known to match the screen

	// Offset for centering the render area in a larger terminal.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	palette   *Palette
	renderBuf strings.Builder
}

// cellKey is the pair of sub-pixel colours shown in one terminal cell.
type cellKey struct {
	top, bottom Color
}

// NewCanvas creates a canvas covering width x height terminal cells.
func NewCanvas(width, height int, palette *Palette) *Canvas {
	c := &Canvas{palette: palette}
	c.Resize(width, height)
	return c
}

// Resize updates the canvas for new terminal dimensions. Reallocating forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	if termWidth == c.termWidth && termHeight == c.termHeight && c.pixels != nil {
		return
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]Color, c.subPixelHeight*termWidth)
	c.prev = make([]cellKey, termWidth*termHeight)
	c.valid = make([]bool, termWidth*termHeight)
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render rewrite every cell.
func (c *Canvas) ForceRedraw() {
	clear(c.valid)
}

// MarkTextDirty invalidates n cells starting at the 1-based terminal position
// (col, row), so text written over the canvas is replaced on the next Render.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1 - c.offsetRow
	if r < 0 || r >= c.termHeight {
		return
	}
	start := col - 1 - c.offsetCol
	for x := start; x < start+n; x++ {
		if x >= 0 && x < c.termWidth {
			c.valid[r*c.termWidth+x] = false
		}
	}
}

// Set colours the sub-pixel at (x, y). Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int, color Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = color
	}
}

// At returns the colour of the sub-pixel at (x, y).
func (c *Canvas) At(x, y int) Color {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return ColorNone
}

// FillRect colours a w x h block of sub-pixels with its top-left corner at (x, y).
func (c *Canvas) FillRect(x, y, w, h int, color Color) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			c.Set(px, py, color)
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes the changed cells to w using half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	cur := ""  // Active SGR sequence
	next := -1 // Flat index the cursor sits on after the last write

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			idx := row*c.termWidth + col
			key := cellKey{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			if c.valid[idx] && c.prev[idx] == key {
				continue
			}
			c.prev[idx] = key
			c.valid[idx] = true

			if idx != next {
				writeCursor(&c.renderBuf, col+1+c.offsetCol, row+1+c.offsetRow)
			}
			ch, sgr := c.glyph(key)
			if sgr != cur {
				c.renderBuf.WriteString(ColorReset)
				c.renderBuf.WriteString(sgr)
				cur = sgr
			}
			c.renderBuf.WriteRune(ch)
			next = idx + 1
			if col == c.termWidth-1 {
				next = -1 // Cursor wraps off the canvas row
			}
		}
	}
	if cur != "" {
		c.renderBuf.WriteString(ColorReset)
	}

	writeChunked(w, c.renderBuf.String())
}

// glyph picks the character and colour sequence for one terminal cell.
func (c *Canvas) glyph(k cellKey) (rune, string) {
	switch {
	case k.top == ColorNone && k.bottom == ColorNone:
		return BlockEmpty, ""
	case k.top == k.bottom:
		return BlockFull, c.palette.Foreground(k.top)
	case k.bottom == ColorNone:
		return BlockUpperHalf, c.palette.Foreground(k.top)
	case k.top == ColorNone:
		return BlockLowerHalf, c.palette.Foreground(k.bottom)
	default:
		return BlockUpperHalf, c.palette.Foreground(k.top) + c.palette.Background(k.bottom)
	}
}

// RenderBorder draws a box border around the canvas area when the offsets
// leave room for it. Draws horizontal borders when there is vertical offset,
// vertical borders when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	line := strings.Repeat("─", c.termWidth)

	if hasV {
		if hasH {
			writeCursor(&buf, left, top)
			buf.WriteString("┌" + line + "┐")
			writeCursor(&buf, left, bottom)
			buf.WriteString("└" + line + "┘")
		} else {
			writeCursor(&buf, c.offsetCol+1, top)
			buf.WriteString(line)
			writeCursor(&buf, c.offsetCol+1, bottom)
			buf.WriteString(line)
		}
	}

	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			writeCursor(&buf, left, row)
			buf.WriteString("│")
			writeCursor(&buf, right, row)
			buf.WriteString("│")
		}
	}

	io.WriteString(w, buf.String())
}

// TerminalWidth returns the terminal column count covered by the canvas.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the terminal row count covered by the canvas.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// SubPixelHeight returns the vertical resolution in sub-pixels.
func (c *Canvas) SubPixelHeight() int {
	return c.subPixelHeight
}
