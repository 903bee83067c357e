package input

import (
	"bufio"

	"github.com/tomz197/sshnake/internal/object"
)

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Up      bool
	Down    bool
	Left    bool
	Right   bool
	Pause   bool // p or space
	Restart bool
	Confirm bool
	Cancel  bool // n or a lone Escape
	Enter   bool
	Space   bool
	Escape  bool
	Closed  bool // The underlying reader returned an error

	// Heading is the last direction pressed during the frame, HeadingNone if none.
	Heading object.Heading
	Pressed []byte
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and parses them.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Parse(buf)
	in.Closed = s.closed
	return in
}

// Parse decodes a frame's worth of raw terminal bytes.
// Handles CSI (ESC [) and SS3 (ESC O) arrow sequences.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			if i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				if h, ok := arrowHeading(buf[i+2]); ok {
					in.setHeading(h)
					i += 2
					continue
				}
			}
			in.Escape = true
			in.Cancel = true
			continue
		}

		applyByte(&in, b)
	}

	return in
}

func arrowHeading(b byte) (object.Heading, bool) {
	switch b {
	case 'A':
		return object.HeadingUp, true
	case 'B':
		return object.HeadingDown, true
	case 'C':
		return object.HeadingRight, true
	case 'D':
		return object.HeadingLeft, true
	}
	return object.HeadingNone, false
}

// applyByte updates the input from a single key byte.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'w', 'W', 'i', 'I':
		in.setHeading(object.HeadingUp)
	case 's', 'S', 'k', 'K':
		in.setHeading(object.HeadingDown)
	case 'a', 'A', 'j', 'J':
		in.setHeading(object.HeadingLeft)
	case 'd', 'D', 'l', 'L':
		in.setHeading(object.HeadingRight)
	case 'p', 'P':
		in.Pause = true
	case ' ':
		in.Space = true
		in.Pause = true
	case 'r', 'R':
		in.Restart = true
	case 'y', 'Y':
		in.Confirm = true
	case 'n', 'N':
		in.Cancel = true
	case '\n', '\r':
		in.Enter = true
	}
}

func (in *Input) setHeading(h object.Heading) {
	in.Heading = h
	switch h {
	case object.HeadingUp:
		in.Up = true
	case object.HeadingDown:
		in.Down = true
	case object.HeadingLeft:
		in.Left = true
	case object.HeadingRight:
		in.Right = true
	}
}
