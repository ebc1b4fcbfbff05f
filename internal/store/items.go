package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/pplanner/pplanner/internal/conz"
	"github.com/pplanner/pplanner/internal/dt"
)

const (
	KindTodo     = "todo"
	KindLongterm = "longterm"
	KindIdea     = "idea"
)

// TodoKinds in listing order.
var TodoKinds = []string{KindTodo, KindLongterm, KindIdea}

// Point is an appointment: something that happens at a given moment.
type Point struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	At        dt.DT     `yaml:"at"`
	CreatedAt time.Time `yaml:"created_at"`
}

type Todo struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Urgency   uint16    `yaml:"urgency"`
	Kind      string    `yaml:"kind"`
	Tags      []string  `yaml:"tags,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}

type Deadline struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Due       dt.DT     `yaml:"due"`
	CreatedAt time.Time `yaml:"created_at"`
}

func NewPoint(title string, at dt.DT) (Point, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Point{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	return Point{ID: newULID(), Title: title, At: at, CreatedAt: timeNow()}, nil
}

func NewTodo(title string, urgency uint16, kind string) (Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Todo{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	k, err := NormalizeKind(kind)
	if err != nil {
		return Todo{}, err
	}
	return Todo{
		ID:        newULID(),
		Title:     title,
		Urgency:   urgency,
		Kind:      k,
		Tags:      extractTags(title),
		CreatedAt: timeNow(),
	}, nil
}

func NewDeadline(title string, due dt.DT) (Deadline, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Deadline{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	return Deadline{ID: newULID(), Title: title, Due: due, CreatedAt: timeNow()}, nil
}

// NormalizeKind maps an empty kind to "todo" and rejects unknown kinds.
func NormalizeKind(kind string) (string, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case "":
		return KindTodo, nil
	case KindTodo, KindLongterm, KindIdea:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: unknown todo kind %q", ErrInvalid, kind)
	}
}

// Retitle changes the title and re-derives the tags from it.
func (t *Todo) Retitle(title string) {
	t.Title = strings.TrimSpace(title)
	t.Tags = extractTags(t.Title)
}

func (p Point) RecordID() string       { return p.ID }
func (p Point) RecordTitle() string    { return p.Title }
func (t Todo) RecordID() string        { return t.ID }
func (t Todo) RecordTitle() string     { return t.Title }
func (d Deadline) RecordID() string    { return d.ID }
func (d Deadline) RecordTitle() string { return d.Title }

func lessPoint(a, b Point) bool {
	if !a.At.Time().Equal(b.At.Time()) {
		return a.At.Before(b.At)
	}
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}

func lessTodo(a, b Todo) bool {
	if a.Urgency != b.Urgency {
		return a.Urgency > b.Urgency
	}
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}

func lessDeadline(a, b Deadline) bool {
	if !a.Due.Time().Equal(b.Due.Time()) {
		return a.Due.Before(b.Due)
	}
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}

func (p Point) Print(pr *conz.Printer) {
	pr.Print(conz.Normal, "Point: ")
	pr.Println(conz.Highlight, p.Title)
	pr.Print(conz.Normal, "At: ")
	p.At.Print(pr)
}

func (t Todo) Print(pr *conz.Printer) {
	pr.Print(conz.Normal, "Todo: ")
	pr.Println(conz.Highlight, t.Title)
	pr.Print(conz.Normal, "Urgency: ")
	pr.Println(conz.Value, fmt.Sprint(t.Urgency))
	pr.Print(conz.Normal, "Kind: ")
	pr.Println(conz.Value, t.Kind)
	if len(t.Tags) > 0 {
		pr.Print(conz.Normal, "Tags: ")
		pr.Println(conz.Value, strings.Join(t.Tags, ", "))
	}
}

func (d Deadline) Print(pr *conz.Printer) {
	pr.Print(conz.Normal, "Deadline: ")
	pr.Println(conz.Highlight, d.Title)
	pr.Print(conz.Normal, "Due: ")
	d.Due.Print(pr)
}
