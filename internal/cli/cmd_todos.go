package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/pplanner/pplanner/internal/conz"
	"github.com/pplanner/pplanner/internal/store"
	"github.com/pplanner/pplanner/internal/wizard"
)

var todoFields = []wizard.Field{
	{Prompt: "title: ", Type: wizard.Text, Required: true},
	{Prompt: "urgency: ", Type: wizard.U16, Required: true},
	{Prompt: "kind(todo/longterm/idea): ", Type: wizard.Choice, Options: store.TodoKinds},
}

var todoColumns = []conz.Column{{Title: "title", Width: 40}, {Title: "urgency", Width: 7}, {Title: "tags", Width: 20}}

func cmdMkTodo(ctx context.Context, s *Session, args Args) error {
	s.out.Println(conz.Normal, "Add todo: ")
	vals, err := s.wiz.Run(todoFields, args.Inputs)
	if err != nil {
		return err
	}
	t, err := store.NewTodo(vals[0].Text, vals[1].U16, vals[2].Choice)
	if err != nil {
		return err
	}
	s.ws.Todos.Add(t)
	return save(ctx, s, s.ws.Todos, "Success: Todo saved.")
}

// cmdLsTodos lists todos grouped by kind. An optional input filters on a
// tag: "ls todos : #home".
func cmdLsTodos(_ context.Context, s *Session, args Args) error {
	tag, _ := args.Inputs.Pop()
	if args.Inputs.Len() > 0 {
		s.out.Println(conz.Error, "Warning: only one tag is used, the other inputs are ignored.")
	}
	groups := map[string][]store.Todo{}
	for _, t := range s.ws.Todos.Items() {
		if tag != "" && !t.HasTag(tag) {
			continue
		}
		groups[t.Kind] = append(groups[t.Kind], t)
	}
	for _, kind := range store.TodoKinds {
		s.out.Println(conz.Normal, strings.ToUpper(kind[:1])+kind[1:]+":")
		printTodos(s.out, groups[kind])
	}
	return nil
}

func printTodos(out *conz.Printer, todos []store.Todo) {
	rows := make([][]conz.Cell, 0, len(todos))
	for _, t := range todos {
		rows = append(rows, []conz.Cell{
			{Text: t.Title, Type: conz.Highlight},
			{Text: fmt.Sprint(t.Urgency), Type: conz.Value},
			{Text: strings.Join(t.Tags, ","), Type: conz.Normal},
		})
	}
	out.Table(todoColumns, rows)
}

func cmdLsTodosArchive(ctx context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	entries, err := s.ws.Todos.Archive().Read(ctx)
	if err != nil {
		return err
	}
	s.out.Println(conz.Normal, "Archived todos:")
	rows := make([][]conz.Cell, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []conz.Cell{
			{Text: e.Item.Title, Type: conz.Highlight},
			{Text: e.Item.Kind, Type: conz.Value},
			{Text: e.ArchivedAt.Local().Format("2006-01-02 15:04"), Type: conz.Normal},
		})
	}
	s.out.Table([]conz.Column{{Title: "title", Width: 40}, {Title: "kind", Width: 8}, {Title: "archived", Width: 16}}, rows)
	return nil
}

func cmdRmTodos(ctx context.Context, s *Session, args Args) error {
	return removeItems(ctx, s, s.ws.Todos, "todos", args.Inputs)
}

func cmdEditTodos(ctx context.Context, s *Session, args Args) error {
	return editItem(ctx, s, s.ws.Todos, "todo", todoFields, func(t store.Todo, vals []wizard.Value) (store.Todo, error) {
		if vals[0].Set {
			t.Retitle(vals[0].Text)
		}
		if vals[1].Set {
			t.Urgency = vals[1].U16
		}
		if vals[2].Set {
			t.Kind = vals[2].Choice
		}
		return t, nil
	}, args.Inputs)
}
