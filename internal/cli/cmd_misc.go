package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/pplanner/pplanner/internal/conz"
	"github.com/pplanner/pplanner/internal/dt"
	"github.com/pplanner/pplanner/internal/store"
)

const keyEOT = 4

func cmdNow(_ context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	s.out.Println(conz.Normal, "Today:")
	dt.Now().Print(s.out)
	return nil
}

func cmdHelp(_ context.Context, s *Session, args Args) error {
	name, _ := args.Inputs.Pop()
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		s.out.Print(conz.Normal, "Help, type ")
		s.out.Print(conz.Highlight, "help : <command> ")
		s.out.Println(conz.Normal, "to find help.")
		s.out.Print(conz.Normal, "For example: ")
		s.out.Print(conz.Highlight, "help : mk point")
		s.out.Println(conz.Normal, ".")
		s.out.Print(conz.Normal, "To list all commands use ")
		s.out.Print(conz.Highlight, "ls commands")
		s.out.Println(conz.Normal, ".")
		return nil
	}
	if !s.isCommand(name) {
		return s.fail(store.ErrNotFound, "Fail: command does not exist, so help for it neither.")
	}
	text, err := s.helpText(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.fail(store.ErrNotFound, "Error: help file not found.")
		}
		return s.fail(err, "Error: could not read file.")
	}
	s.out.Print(conz.Normal, "Command: ")
	s.out.Println(conz.Highlight, name)
	rendered, err := s.renderMarkdown(text)
	if err != nil {
		s.log.Debug("markdown render failed", "error", err)
		rendered = text
	}
	s.out.Raw(rendered)
	if !strings.HasSuffix(rendered, "\n") {
		s.out.Raw("\n")
	}
	return nil
}

// helpText reads the page for name from the first existing of the
// configured help_dir, ./help and <root>/help, then from the built-in pages.
func (s *Session) helpText(name string) (string, error) {
	var dirs []string
	if d := s.ws.Config().HelpDir; d != "" {
		dirs = append(dirs, d)
	}
	dirs = append(dirs, "help", filepath.Join(s.ws.Root, "help"))
	for _, d := range dirs {
		if st, err := os.Stat(d); err != nil || !st.IsDir() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(d, helpFileName(name)))
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		s.log.Debug("help page missing", "dir", d, "command", name)
		break
	}
	return builtinHelp(name)
}

func (s *Session) renderMarkdown(text string) (string, error) {
	style := glamour.WithAutoStyle()
	if !s.out.Colored() {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

func cmdLicense(_ context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	b, err := os.ReadFile(filepath.Join(s.ws.Root, "LICENSE"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.fail(store.ErrNotFound, "Error: Could not find license file.")
		}
		return s.fail(err, "Error: could not read file.")
	}
	s.out.Println(conz.Normal, string(b))
	return nil
}

func cmdLsCommands(_ context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	s.out.Println(conz.Normal, "All commands: ")
	for _, c := range s.Commands() {
		s.out.Println(conz.Normal, c)
	}
	return nil
}

// cmdInit creates the store and installs the help pages. "init : yes"
// overwrites pages that already exist.
func cmdInit(_ context.Context, s *Session, args Args) error {
	force := false
	if args.Inputs.Supplied() {
		var err error
		if force, err = s.wiz.ReadBool("overwrite help pages?: ", args.Inputs); err != nil {
			return err
		}
	}
	if err := s.ws.Init(); err != nil {
		return err
	}
	n, err := installHelpPages(filepath.Join(s.ws.Root, "help"), force)
	if err != nil {
		return s.fail(err, "Error: could not write help pages: "+err.Error())
	}
	s.out.Print(conz.Highlight, "Initialized pplanner store at: ")
	s.out.Println(conz.Value, s.ws.Root)
	s.out.Print(conz.Normal, "Help pages written: ")
	s.out.Println(conz.Value, fmt.Sprint(n))
	return nil
}

func cmdStatus(ctx context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	quiet := Args{Tokens: args.Tokens}
	for _, h := range []Handler{cmdNow, cmdLsPoints, cmdLsTodos, cmdLsDeadlines} {
		if err := h(ctx, s, quiet); err != nil {
			return err
		}
	}
	return nil
}

func cmdFlush(ctx context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	if s.ws.IsClean() {
		s.out.Println(conz.Highlight, "All files clean, nothing to do.")
		return nil
	}
	if err := s.ws.Flush(ctx); err != nil {
		s.log.Error("flush", "error", err)
		return s.fail(err, "Error: Could not flush all dirty files.")
	}
	s.out.Println(conz.Highlight, "Success: Flushed all dirty files.")
	return nil
}

type exportSnapshot struct {
	ExportedAt time.Time        `json:"exported_at"`
	Points     []exportPoint    `json:"points"`
	Todos      []exportTodo     `json:"todos"`
	Deadlines  []exportDeadline `json:"deadlines"`
}

type exportPoint struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	At    time.Time `json:"at"`
}

type exportTodo struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Urgency uint16   `json:"urgency"`
	Kind    string   `json:"kind"`
	Tags    []string `json:"tags,omitempty"`
}

type exportDeadline struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Due   time.Time `json:"due"`
}

// cmdExport writes a JSON snapshot of all live items to <root>/exports.
func cmdExport(_ context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	snap := exportSnapshot{
		ExportedAt: time.Now().UTC(),
		Points:     []exportPoint{},
		Todos:      []exportTodo{},
		Deadlines:  []exportDeadline{},
	}
	for _, p := range s.ws.Points.Items() {
		snap.Points = append(snap.Points, exportPoint{ID: p.ID, Title: p.Title, At: p.At.Time()})
	}
	for _, d := range s.ws.Deadlines.Items() {
		snap.Deadlines = append(snap.Deadlines, exportDeadline{ID: d.ID, Title: d.Title, Due: d.Due.Time()})
	}
	for _, t := range s.ws.Todos.Items() {
		snap.Todos = append(snap.Todos, exportTodo{ID: t.ID, Title: t.Title, Urgency: t.Urgency, Kind: t.Kind, Tags: t.Tags})
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	path, err := writeExportFile(filepath.Join(s.ws.Root, "exports"), "pplanner", "json", data)
	if err != nil {
		return s.fail(err, "Error: could not write export: "+err.Error())
	}
	s.out.Print(conz.Highlight, "Wrote JSON to: ")
	s.out.Println(conz.Value, path)
	return nil
}

func writeExportFile(dir, base, ext string, data []byte) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("export directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ts := time.Now().UTC().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", base, ts, ext))
	for i := 1; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%s-%d.%s", base, ts, i, ext))
	}
	if err := atomicWriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// cmdTestKeys echoes the code of every key pressed until Ctrl-D.
func cmdTestKeys(_ context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	s.out.Println(conz.Normal, "Testing keys, press any key to get its id, Ctrl-D to stop.")
	for {
		b, err := s.in.ReadByte()
		if err != nil {
			s.out.Raw("\n")
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if b == keyEOT {
			s.out.Raw("\n")
			return nil
		}
		s.out.Print(conz.Value, fmt.Sprintf("%d ", b))
	}
}
