package wizard

import (
	"bytes"
	"io"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pplanner/pplanner/internal/conz"
)

type scripted struct {
	lines   []string
	prompts []string
}

func (s *scripted) Prompt(msg string) (string, error) {
	s.prompts = append(s.prompts, msg)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

func newWizard(lines ...string) (*Wizard, *scripted, *bytes.Buffer) {
	var out bytes.Buffer
	in := &scripted{lines: lines}
	return New(in, conz.New(&out, termenv.Ascii)), in, &out
}

func TestReadBoolFromQueue(t *testing.T) {
	w, in, _ := newWizard()
	ok, err := w.ReadBool("Sure?: ", NewQueue([]string{"yes"}))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, in.prompts)
}

func TestReadBoolFallsBackToPrompt(t *testing.T) {
	tests := []struct {
		name  string
		queue *Queue
	}{
		{"nil queue", nil},
		{"empty queue", NewQueue(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, in, _ := newWizard("ok")
			ok, err := w.ReadBool("Sure?: ", tt.queue)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []string{"Sure?: "}, in.prompts)
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"y", "ye", "yes", "ok", "+"} {
		assert.True(t, ParseBool(s), s)
	}
	for _, s := range []string{"", "n", "no", "Yes", "yes please", "-"} {
		assert.False(t, ParseBool(s), s)
	}
}

func TestRunMixesQueueAndPrompt(t *testing.T) {
	fields := []Field{
		{Prompt: "title: ", Type: Text, Required: true},
		{Prompt: "urgency: ", Type: U16, Required: true},
		{Prompt: "kind: ", Type: Choice, Required: true, Options: []string{"todo", "longterm", "idea"}},
	}
	w, in, _ := newWizard("long")
	got, err := w.Run(fields, NewQueue([]string{"buy milk", "3"}))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "buy milk", got[0].Text)
	assert.Equal(t, uint16(3), got[1].U16)
	assert.Equal(t, "longterm", got[2].Choice)
	assert.Equal(t, []string{"kind: "}, in.prompts)
}

func TestRunRetriesInvalidInteractiveAnswer(t *testing.T) {
	w, in, out := newWizard("tomorrowish", "2026-10-18 10:00")
	got, err := w.Run([]Field{{Prompt: "deadline: ", Type: DateTime, Required: true}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18 10:00", got[0].DT.DateTime())
	assert.Len(t, in.prompts, 2)
	assert.Contains(t, out.String(), "try again")
}

func TestRunFailsOnInvalidQueuedAnswer(t *testing.T) {
	w, in, _ := newWizard()
	_, err := w.Run([]Field{{Prompt: "urgency: ", Type: U16, Required: true}}, NewQueue([]string{"70000"}))
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, in.prompts)
}

func TestRunAbortsOnEmptyRequired(t *testing.T) {
	w, _, _ := newWizard("")
	_, err := w.Run([]Field{{Prompt: "title: ", Type: Text, Required: true}}, nil)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestOptionalKeepsEmpty(t *testing.T) {
	fields := Optional([]Field{
		{Prompt: "title: ", Type: Text, Required: true},
		{Prompt: "urgency: ", Type: U16, Required: true},
	})
	w, _, _ := newWizard("", "9")
	got, err := w.Run(fields, nil)
	require.NoError(t, err)
	assert.False(t, got[0].Set)
	assert.True(t, got[1].Set)
	assert.Equal(t, uint16(9), got[1].U16)
}

func TestRunPropagatesEOF(t *testing.T) {
	w, _, _ := newWizard()
	_, err := w.Run([]Field{{Prompt: "title: ", Type: Text, Required: true}}, nil)
	assert.ErrorIs(t, err, io.EOF)
}

func TestParseQueue(t *testing.T) {
	q := ParseQueue(" buy milk , 3,todo ")
	assert.Equal(t, []string{"buy milk", "3", "todo"}, q.Remaining())
	assert.Equal(t, 0, ParseQueue("  ").Len())
	assert.True(t, ParseQueue("").Supplied())

	var nilQ *Queue
	_, ok := nilQ.Pop()
	assert.False(t, ok)
	assert.False(t, nilQ.Supplied())
}
