// Package lineedit turns single keystrokes into an edited line. It keeps its
// own buffer and echo, so it works with the terminal's canonical mode and
// echo switched off.
package lineedit

import (
	"strings"

	"github.com/pplanner/pplanner/internal/conz"
	"github.com/pplanner/pplanner/internal/rawterm"
)

const (
	keyBackspaceEcho = 8
	keyEnter         = 10
	keyEscape        = 27
	keyBracket       = 91
	keyUp            = 65
	keyDown          = 66
	keyRight         = 67
	keyLeft          = 68
	keyBackspace     = 127
)

const cursorRight = "\x1b[1C"

type escState int

const (
	idle escState = iota
	sawEscape
	sawBracket
)

// Editor reads lines from a ByteSource. Arrow keys only move the visible
// cursor; new bytes are always appended at the end of the buffer.
type Editor struct {
	src rawterm.ByteSource
	out *conz.Printer
}

func New(src rawterm.ByteSource, out *conz.Printer) *Editor {
	return &Editor{src: src, out: out}
}

// Prompt prints msg in the Prompt category and reads one line.
func (e *Editor) Prompt(msg string) (string, error) {
	e.out.Print(conz.Prompt, msg)
	return e.ReadLine()
}

// ReadLine blocks until enter and returns the buffer without the newline.
// A read error is returned together with whatever was typed so far.
func (e *Editor) ReadLine() (string, error) {
	var buf []byte
	state := idle
	e.out.Begin(conz.Normal)
	for {
		b, err := e.src.ReadByte()
		if err != nil {
			e.out.End()
			return string(buf), err
		}
		switch {
		case b == keyEnter:
			e.out.End()
			e.out.Raw("\n")
			return string(buf), nil
		case b == keyBackspace:
			if len(buf) == 0 {
				continue
			}
			buf = buf[:len(buf)-1]
			e.out.Raw(strings.Repeat(string(rune(keyBackspaceEcho)), len(buf)+1))
			e.out.Raw(string(buf) + " ")
			e.out.Raw(string(rune(keyBackspaceEcho)))
			state = idle
		case b == keyEscape:
			state = sawEscape
		case b == keyBracket && state == sawEscape:
			state = sawBracket
		case (b == keyUp || b == keyDown) && state == sawBracket:
			state = idle
		case b == keyRight && state == sawBracket:
			e.out.Raw(cursorRight)
			state = idle
		case b == keyLeft && state == sawBracket:
			e.out.Raw(string(rune(keyBackspaceEcho)))
			state = idle
		default:
			buf = append(buf, b)
			e.out.Raw(string([]byte{b}))
			state = idle
		}
	}
}
