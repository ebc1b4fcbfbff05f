package cli

import (
	"context"

	"github.com/pplanner/pplanner/internal/conz"
	"github.com/pplanner/pplanner/internal/dt"
	"github.com/pplanner/pplanner/internal/store"
	"github.com/pplanner/pplanner/internal/wizard"
)

var deadlineFields = []wizard.Field{
	{Prompt: "title: ", Type: wizard.Text, Required: true},
	{Prompt: "deadline: ", Type: wizard.DateTime, Required: true},
}

func cmdMkDeadline(ctx context.Context, s *Session, args Args) error {
	s.out.Println(conz.Normal, "Add deadline: ")
	vals, err := s.wiz.Run(deadlineFields, args.Inputs)
	if err != nil {
		return err
	}
	d, err := store.NewDeadline(vals[0].Text, vals[1].DT)
	if err != nil {
		return err
	}
	s.ws.Deadlines.Add(d)
	return save(ctx, s, s.ws.Deadlines, "Success: deadline saved")
}

func cmdLsDeadlines(_ context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	now := dt.Now()
	deadlines := s.ws.Deadlines.Items()
	rows := make([][]conz.Cell, 0, len(deadlines))
	for _, d := range deadlines {
		span := now.Diff(d.Due)
		left := conz.Value
		if span.Neg {
			left = conz.Error
		}
		rows = append(rows, []conz.Cell{
			{Text: d.Title, Type: conz.Highlight},
			{Text: d.Due.DateTime(), Type: conz.Value},
			{Text: d.Due.DayName(), Type: conz.Normal},
			{Text: span.String(), Type: left},
		})
	}
	s.out.Println(conz.Normal, "Deadlines:")
	s.out.Table([]conz.Column{{Title: "title", Width: 32}, {Title: "due", Width: 16}, {Title: "day", Width: 9}, {Title: "left", Width: 16}}, rows)
	return nil
}

func cmdLsDeadlinesArchive(ctx context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	entries, err := s.ws.Deadlines.Archive().Read(ctx)
	if err != nil {
		return err
	}
	s.out.Println(conz.Normal, "Archived deadlines:")
	rows := make([][]conz.Cell, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []conz.Cell{
			{Text: e.Item.Title, Type: conz.Highlight},
			{Text: e.Item.Due.DateTime(), Type: conz.Value},
			{Text: e.ArchivedAt.Local().Format("2006-01-02 15:04"), Type: conz.Normal},
		})
	}
	s.out.Table([]conz.Column{{Title: "title", Width: 32}, {Title: "due", Width: 16}, {Title: "archived", Width: 16}}, rows)
	return nil
}

func cmdRmDeadlines(ctx context.Context, s *Session, args Args) error {
	return removeItems(ctx, s, s.ws.Deadlines, "deadlines", args.Inputs)
}

func cmdCleanDeadlines(ctx context.Context, s *Session, args Args) error {
	now := dt.Now()
	return cleanItems(ctx, s, s.ws.Deadlines, "deadlines", func(d store.Deadline) bool {
		return d.Due.Before(now)
	}, args.Inputs)
}

func cmdEditDeadlines(ctx context.Context, s *Session, args Args) error {
	return editItem(ctx, s, s.ws.Deadlines, "deadline", deadlineFields, func(d store.Deadline, vals []wizard.Value) (store.Deadline, error) {
		if vals[0].Set {
			d.Title = vals[0].Text
		}
		if vals[1].Set {
			d.Due = vals[1].DT
		}
		return d, nil
	}, args.Inputs)
}
