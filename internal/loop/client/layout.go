package client

import "github.com/tomz197/sshnake/internal/loop/config"

// layout places the field on the terminal. Each field cell becomes a
// scale x scale square of sub-pixels (one column by half a row each).
type layout struct {
	termWidth  int
	termHeight int
	scale      int
	width      int // Canvas columns
	height     int // Canvas rows
	offsetCol  int
	offsetRow  int
	ok         bool // The field fits at scale 1 or more
}

// computeLayout picks the largest integer scale that fits the field plus its
// border and HUD rows into the terminal, and centres the canvas.
func computeLayout(termWidth, termHeight, columns, rows int) layout {
	l := layout{termWidth: termWidth, termHeight: termHeight}
	if columns <= 0 || rows <= 0 {
		return l
	}

	availWidth := termWidth - 2 // Left and right border
	availHeight := termHeight - 2*config.HUDRows

	scale := availWidth / columns
	if s := availHeight * 2 / rows; s < scale {
		scale = s
	}
	if scale < 1 {
		return l
	}

	l.scale = scale
	l.width = columns * scale
	l.height = (rows*scale + 1) / 2
	l.offsetCol = (termWidth - l.width) / 2
	l.offsetRow = config.HUDRows + (availHeight-l.height)/2
	l.ok = true
	return l
}

// minTermSize is the smallest terminal that fits the field at scale 1.
func minTermSize(columns, rows int) (width, height int) {
	return columns + 2, (rows+1)/2 + 2*config.HUDRows
}

// hudRow is the row above the top border.
func (l layout) hudRow() int {
	return l.offsetRow - 1
}

// hintRow is the row below the bottom border.
func (l layout) hintRow() int {
	return l.offsetRow + l.height + 2
}

// leftCol and rightCol are the border columns.
func (l layout) leftCol() int  { return l.offsetCol }
func (l layout) rightCol() int { return l.offsetCol + l.width + 1 }

// centerCol and centerRow are the middle of the field on the terminal.
func (l layout) centerCol() int { return l.offsetCol + 1 + l.width/2 }
func (l layout) centerRow() int { return l.offsetRow + 1 + l.height/2 }
