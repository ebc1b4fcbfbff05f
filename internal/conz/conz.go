// Package conz writes categorized, colored console output.
package conz

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

type MsgType int

const (
	Normal MsgType = iota
	Error
	Prompt
	Highlight
	Value
)

var palette = map[MsgType]termenv.ANSIColor{
	Normal:    termenv.ANSIGreen,
	Error:     termenv.ANSIRed,
	Prompt:    termenv.ANSICyan,
	Highlight: termenv.ANSIWhite,
	Value:     termenv.ANSIYellow,
}

func (t MsgType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Error:
		return "error"
	case Prompt:
		return "prompt"
	case Highlight:
		return "highlight"
	case Value:
		return "value"
	default:
		return fmt.Sprintf("msgtype(%d)", int(t))
	}
}

// Printable is implemented by anything that knows how to show itself.
type Printable interface {
	Print(p *Printer)
}

// Printer is the single sink for user-facing output. Every fragment carries
// one MsgType; the color profile decides whether escape codes are emitted.
type Printer struct {
	w       io.Writer
	profile termenv.Profile
}

func New(w io.Writer, profile termenv.Profile) *Printer {
	return &Printer{w: w, profile: profile}
}

// Profile picks the color profile for f. mode is "always", "never" or
// "auto"; NO_COLOR and noColor always win.
func Profile(f *os.File, mode string, noColor bool) termenv.Profile {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "never":
		return termenv.Ascii
	case "always":
		if p := termenv.EnvColorProfile(); p != termenv.Ascii {
			return p
		}
		return termenv.ANSI
	}
	if !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Colored reports whether escape codes are written at all.
func (p *Printer) Colored() bool { return p.profile != termenv.Ascii }

func (p *Printer) style(t MsgType, s string) string {
	c, ok := palette[t]
	if !ok {
		c = palette[Normal]
	}
	return p.profile.String(s).Foreground(p.profile.Convert(c)).String()
}

func (p *Printer) Print(t MsgType, s string) {
	_, _ = io.WriteString(p.w, p.style(t, s))
}

func (p *Printer) Println(t MsgType, s string) {
	_, _ = io.WriteString(p.w, p.style(t, s)+"\n")
}

// Begin switches the output to t's color until End. Text written with Raw
// in between carries the color, so multi-byte characters written a byte at
// a time stay intact. Nothing is written when colors are off.
func (p *Printer) Begin(t MsgType) {
	if !p.Colored() {
		return
	}
	c, ok := palette[t]
	if !ok {
		c = palette[Normal]
	}
	if seq := p.profile.Convert(c).Sequence(false); seq != "" {
		_, _ = io.WriteString(p.w, termenv.CSI+seq+"m")
	}
}

func (p *Printer) End() {
	if !p.Colored() {
		return
	}
	_, _ = io.WriteString(p.w, termenv.CSI+termenv.ResetSeq+"m")
}

// Raw writes control bytes (cursor movement, newlines) untouched.
func (p *Printer) Raw(s string) {
	_, _ = io.WriteString(p.w, s)
}

// PrintError prints pre and post as Error with mid highlighted between them,
// then ends the line.
func (p *Printer) PrintError(pre, mid, post string) {
	p.Print(Error, pre)
	p.Print(Highlight, mid)
	p.Println(Error, post)
}

func (p *Printer) Item(v Printable) {
	v.Print(p)
}
