package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/pplanner/pplanner/internal/cmdtrie"
	"github.com/pplanner/pplanner/internal/conz"
	"github.com/pplanner/pplanner/internal/lineedit"
	"github.com/pplanner/pplanner/internal/rawterm"
	"github.com/pplanner/pplanner/internal/store"
	"github.com/pplanner/pplanner/internal/wizard"
)

const promptText = "cmd > "

// Args is what a handler gets: every token of the command line, matched
// command words included, and the answers given after ':' if any.
type Args struct {
	Tokens []string
	Inputs *wizard.Queue
}

type Handler func(ctx context.Context, s *Session, args Args) error

// Session is the state shared by all handlers for the life of the process.
type Session struct {
	ws     *store.Workspace
	in     rawterm.ByteSource
	out    *conz.Printer
	editor *lineedit.Editor
	wiz    *wizard.Wizard
	cmds   *cmdtrie.Trie[Handler]
	log    *slog.Logger
}

// NewSession wires the editor and wizard to in and out and registers every
// command. Registering the same path twice panics.
func NewSession(ws *store.Workspace, in rawterm.ByteSource, out *conz.Printer, log *slog.Logger) *Session {
	editor := lineedit.New(in, out)
	s := &Session{
		ws:     ws,
		in:     in,
		out:    out,
		editor: editor,
		wiz:    wizard.New(editor, out),
		cmds:   cmdtrie.New[Handler](),
		log:    log,
	}
	register(s.cmds)
	return s
}

// Commands lists every valid command name.
func (s *Session) Commands() []string {
	return s.cmds.Paths()
}

func (s *Session) isCommand(name string) bool {
	_, err := s.cmds.Lookup(strings.Fields(name))
	return err == nil
}

func (s *Session) banner() {
	s.out.Println(conz.Prompt, "Henlo Fren!")
	s.out.Println(conz.Prompt, "pplanner: a ascii cli time management tool.")
	s.out.Println(conz.Prompt, "Made by Cody Bloemhard.")
}

// Loop runs the interactive prompt until q, quit or end of input. Only
// input failures end it early.
func (s *Session) Loop(ctx context.Context) error {
	s.banner()
	for {
		line, err := s.editor.Prompt(promptText)
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "q" || trimmed == "quit" {
			break
		}
		// Blank lines are looked up like any other and are not found; only
		// the empty tail of a piped input is skipped.
		if !eof || trimmed != "" {
			if err := s.Dispatch(ctx, line); isFatal(err) {
				if errors.Is(err, io.EOF) {
					break
				}
				return err
			}
		}
		if eof {
			s.out.Raw("\n")
			break
		}
	}
	s.out.Println(conz.Prompt, "Bye!")
	return nil
}

// Dispatch runs one command line. Errors are reported to the user before
// they are returned; the caller only decides whether to go on.
func (s *Session) Dispatch(ctx context.Context, line string) error {
	tokens, inputs := parseLine(line)
	h, err := s.cmds.Lookup(tokens)
	if err != nil {
		s.log.Debug("command not found", "line", line)
		s.out.PrintError("Error: Command not found: \"", line, "\"!")
		return err
	}
	s.log.Debug("dispatch", "command", strings.Join(tokens, " "), "inputs", inputs.Len())
	if err := h(ctx, s, Args{Tokens: tokens, Inputs: inputs}); err != nil {
		s.log.Debug("command failed", "command", strings.Join(tokens, " "), "error", err)
		s.report(err)
		return err
	}
	return nil
}

// parseLine splits off the answer list after the first ':' and tokenizes
// the rest on whitespace.
func parseLine(line string) ([]string, *wizard.Queue) {
	cmd, answers, ok := strings.Cut(line, ":")
	tokens := strings.Fields(cmd)
	if !ok {
		return tokens, nil
	}
	return tokens, wizard.ParseQueue(answers)
}

func isFatal(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, rawterm.ErrTerminal)
}

// Close writes whatever is still dirty.
func (s *Session) Close(ctx context.Context) error {
	if s.ws.IsClean() {
		return nil
	}
	if err := s.ws.Flush(ctx); err != nil {
		s.log.Error("flush on exit", "error", err)
		s.out.PrintError("Error: could not flush files: ", err.Error(), "")
		return err
	}
	s.log.Debug("flushed on exit")
	return nil
}

// reportedError marks an error whose message has already been printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// fail prints msg as an error line and returns err marked as reported.
func (s *Session) fail(err error, msg string) error {
	s.out.Println(conz.Error, msg)
	return &reportedError{err: err}
}

func (s *Session) report(err error) {
	var rep *reportedError
	var conflict *store.MatchConflictError
	switch {
	case errors.As(err, &rep):
	case isFatal(err):
	case errors.Is(err, wizard.ErrAborted), errors.Is(err, wizard.ErrInvalid):
		// the wizard has said why
	case errors.As(err, &conflict):
		s.out.Println(conz.Error, "Fail: more than one result.")
		for _, t := range conflict.Titles {
			s.out.Print(conz.Normal, "  - ")
			s.out.Println(conz.Highlight, t)
		}
	case errors.Is(err, store.ErrNotFound):
		s.out.Println(conz.Error, "Fail: no results found.")
	default:
		s.out.PrintError("Error: ", err.Error(), "")
	}
}

func (s *Session) warnUnusedInputs(args Args) {
	if args.Inputs.Supplied() {
		s.out.Println(conz.Error, "Warning: this command takes no inputs, they are ignored.")
	}
}
