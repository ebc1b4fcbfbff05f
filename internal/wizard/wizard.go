// Package wizard collects structured input one field at a time, taking
// answers from a pre-supplied queue first and prompting for the rest.
package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pplanner/pplanner/internal/conz"
	"github.com/pplanner/pplanner/internal/dt"
)

var (
	ErrAborted = errors.New("aborted")
	ErrInvalid = errors.New("invalid input")
)

type InputType int

const (
	Text InputType = iota
	DateTime
	U16
	Bool
	Choice
)

type Field struct {
	Prompt   string
	Type     InputType
	Required bool
	Options  []string
}

// Value is one answer. Set is false when an optional field was left empty.
type Value struct {
	Set    bool
	Text   string
	DT     dt.DT
	U16    uint16
	Bool   bool
	Choice string
}

// Prompter reads one line after showing msg.
type Prompter interface {
	Prompt(msg string) (string, error)
}

type Wizard struct {
	in  Prompter
	out *conz.Printer
}

func New(in Prompter, out *conz.Printer) *Wizard {
	return &Wizard{in: in, out: out}
}

// Optional returns a copy of fields where an empty answer keeps the old
// value instead of aborting.
func Optional(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Required = false
		out[i] = f
	}
	return out
}

// Run asks every field in order. A queued answer that does not parse fails
// the whole run; an interactive one is asked again. An empty answer to a
// required field aborts.
func (w *Wizard) Run(fields []Field, q *Queue) ([]Value, error) {
	values := make([]Value, 0, len(fields))
	for _, f := range fields {
		v, err := w.field(f, q)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (w *Wizard) field(f Field, q *Queue) (Value, error) {
	for {
		line, queued, err := w.next(f.Prompt, q)
		if err != nil {
			return Value{}, err
		}
		if line == "" {
			if f.Required {
				w.out.Println(conz.Error, "Aborted: a required field was left empty.")
				return Value{}, ErrAborted
			}
			return Value{}, nil
		}
		v, err := parseValue(f, line)
		if err == nil {
			return v, nil
		}
		if queued {
			w.out.PrintError("Error: could not use \"", line, "\": "+err.Error())
			return Value{}, err
		}
		w.out.PrintError("Error: ", err.Error(), ", try again.")
	}
}

func (w *Wizard) next(prompt string, q *Queue) (string, bool, error) {
	if v, ok := q.Pop(); ok {
		return v, true, nil
	}
	line, err := w.in.Prompt(prompt)
	return strings.TrimSpace(line), false, err
}

// ReadLine returns the next queued answer, or prompts when none is left.
func (w *Wizard) ReadLine(prompt string, q *Queue) (string, error) {
	line, _, err := w.next(prompt, q)
	return line, err
}

// ReadBool asks a yes/no question. See ParseBool for what counts as yes.
func (w *Wizard) ReadBool(prompt string, q *Queue) (bool, error) {
	line, _, err := w.next(prompt, q)
	if err != nil {
		return false, err
	}
	return ParseBool(line), nil
}

func ParseBool(s string) bool {
	switch s {
	case "y", "ye", "yes", "ok", "+":
		return true
	default:
		return false
	}
}

func parseValue(f Field, s string) (Value, error) {
	switch f.Type {
	case Text:
		return Value{Set: true, Text: s}, nil
	case DateTime:
		d, err := dt.Parse(s)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		return Value{Set: true, DT: d}, nil
	case U16:
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return Value{}, fmt.Errorf("%w: want a number from 0 to 65535", ErrInvalid)
		}
		return Value{Set: true, U16: uint16(n)}, nil
	case Bool:
		return Value{Set: true, Bool: ParseBool(s)}, nil
	case Choice:
		c, err := matchChoice(f.Options, s)
		if err != nil {
			return Value{}, err
		}
		return Value{Set: true, Choice: c}, nil
	default:
		return Value{}, fmt.Errorf("%w: unknown field type %d", ErrInvalid, f.Type)
	}
}

// matchChoice accepts an option case-insensitively or by unique prefix.
func matchChoice(options []string, s string) (string, error) {
	lower := strings.ToLower(s)
	var hits []string
	for _, o := range options {
		if strings.ToLower(o) == lower {
			return o, nil
		}
		if strings.HasPrefix(strings.ToLower(o), lower) {
			hits = append(hits, o)
		}
	}
	if len(hits) == 1 {
		return hits[0], nil
	}
	return "", fmt.Errorf("%w: want one of %s", ErrInvalid, strings.Join(options, ", "))
}
