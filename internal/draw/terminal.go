package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Control sequences.
const (
	ColorReset  = "\033[0m"
	clearScreen = "\033[H\033[2J"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// ChunkWriter collects one frame of cursor-addressed output and hands it to
// the terminal in chunks no larger than maxChunkSize, which keeps SSH packets
// small. Nothing reaches the underlying writer before Flush.
type ChunkWriter struct {
	buf  strings.Builder
	bufw *bufio.Writer
}

var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{bufw: bufio.NewWriterSize(w, 8192)}
}

// Write lets Canvas.Render draw into the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.buf.Write(p)
}

// WriteString appends s at the current cursor position.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s at a 1-based terminal position. Positions left of or
// above the screen are dropped.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	if col < 1 || row < 1 {
		return
	}
	writeCursor(&cw.buf, col, row)
	cw.buf.WriteString(s)
}

// Clear queues a full screen clear.
func (cw *ChunkWriter) Clear() {
	cw.buf.WriteString(clearScreen)
}

// Len returns the number of bytes waiting for Flush.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

// Flush sends the frame and empties the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	if err := writeChunked(cw.bufw, data); err != nil {
		return err
	}
	return cw.bufw.Flush()
}

func writeChunked(w io.Writer, s string) error {
	for len(s) > 0 {
		n := min(len(s), maxChunkSize)
		if _, err := io.WriteString(w, s[:n]); err != nil {
			return err
		}
		s = s[n:]
	}
	return nil
}

// writeCursor appends a cursor position sequence for 1-based col and row.
func writeCursor(b *strings.Builder, col, row int) {
	var num [20]byte
	b.WriteString("\033[")
	b.Write(strconv.AppendInt(num[:0], int64(row), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(num[:0], int64(col), 10))
	b.WriteByte('H')
}

// TermSizeFunc reports the terminal size in columns and rows.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) { io.WriteString(w, clearScreen) }

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) { io.WriteString(w, hideCursor) }

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) { io.WriteString(w, showCursor) }
