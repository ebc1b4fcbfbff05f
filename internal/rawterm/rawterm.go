// Package rawterm reads single keystrokes from a terminal without waiting
// for the line discipline to deliver a full line.
package rawterm

import (
	"bufio"
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrTerminal wraps failures to query or change terminal attributes.
var ErrTerminal = errors.New("terminal")

// ByteSource yields one input byte per call.
type ByteSource interface {
	ReadByte() (byte, error)
}

// Open returns a raw byte source for f. When f is not a terminal (a pipe or
// a redirected file) the bytes are read as they come, with no mode changes.
func Open(f *os.File) ByteSource {
	if term.IsTerminal(int(f.Fd())) {
		if t := openTerminal(f); t != nil {
			return t
		}
	}
	return NewPlain(f)
}

// Plain reads bytes from any reader with no terminal handling.
type Plain struct {
	r *bufio.Reader
}

func NewPlain(r io.Reader) *Plain {
	return &Plain{r: bufio.NewReader(r)}
}

func (p *Plain) ReadByte() (byte, error) {
	return p.r.ReadByte()
}
