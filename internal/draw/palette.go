package draw

import (
	"strings"

	"github.com/muesli/termenv"
)

// Color indexes a Palette. ColorNone is the empty pixel.
type Color uint8

// ColorNone marks an empty sub-pixel.
const ColorNone Color = 0

// Palette maps colour indices to SGR sequences for one terminal's colour profile.
type Palette struct {
	fg []string
	bg []string
}

// NewPalette builds a palette from hex colours. colors[0] becomes Color(1).
// Colours are degraded to what the profile supports; Ascii yields no sequences.
func NewPalette(profile termenv.Profile, colors ...string) *Palette {
	p := &Palette{
		fg: make([]string, len(colors)+1),
		bg: make([]string, len(colors)+1),
	}
	for i, hex := range colors {
		c := profile.Color(hex)
		if c == nil {
			continue
		}
		if seq := c.Sequence(false); seq != "" {
			p.fg[i+1] = termenv.CSI + seq + "m"
		}
		if seq := c.Sequence(true); seq != "" {
			p.bg[i+1] = termenv.CSI + seq + "m"
		}
	}
	return p
}

// Foreground returns the SGR sequence setting c as the text colour.
func (p *Palette) Foreground(c Color) string {
	if p == nil || int(c) >= len(p.fg) {
		return ""
	}
	return p.fg[c]
}

// Background returns the SGR sequence setting c as the cell background.
func (p *Palette) Background(c Color) string {
	if p == nil || int(c) >= len(p.bg) {
		return ""
	}
	return p.bg[c]
}

// ProfileFor picks a colour profile from a remote terminal's TERM and COLORTERM values.
func ProfileFor(term, colorTerm string) termenv.Profile {
	colorTerm = strings.ToLower(colorTerm)
	term = strings.ToLower(term)
	switch {
	case term == "" || term == "dumb":
		return termenv.Ascii
	case colorTerm == "truecolor" || colorTerm == "24bit":
		return termenv.TrueColor
	case strings.Contains(term, "256color"), strings.Contains(term, "kitty"), strings.Contains(term, "alacritty"):
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}
