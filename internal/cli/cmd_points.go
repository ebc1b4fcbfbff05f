package cli

import (
	"context"

	"github.com/pplanner/pplanner/internal/conz"
	"github.com/pplanner/pplanner/internal/dt"
	"github.com/pplanner/pplanner/internal/store"
	"github.com/pplanner/pplanner/internal/wizard"
)

var pointFields = []wizard.Field{
	{Prompt: "title: ", Type: wizard.Text, Required: true},
	{Prompt: "time: ", Type: wizard.DateTime, Required: true},
}

func cmdMkPoint(ctx context.Context, s *Session, args Args) error {
	s.out.Println(conz.Normal, "Add point: ")
	vals, err := s.wiz.Run(pointFields, args.Inputs)
	if err != nil {
		return err
	}
	p, err := store.NewPoint(vals[0].Text, vals[1].DT)
	if err != nil {
		return err
	}
	s.ws.Points.Add(p)
	return save(ctx, s, s.ws.Points, "Success: Point saved.")
}

func cmdLsPoints(_ context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	printPoints(s.out, s.ws.Points.Items(), dt.Now())
	return nil
}

func cmdLsPointsArchive(ctx context.Context, s *Session, args Args) error {
	s.warnUnusedInputs(args)
	entries, err := s.ws.Points.Archive().Read(ctx)
	if err != nil {
		return err
	}
	s.out.Println(conz.Normal, "Archived points:")
	rows := make([][]conz.Cell, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []conz.Cell{
			{Text: e.Item.Title, Type: conz.Highlight},
			{Text: e.Item.At.DateTime(), Type: conz.Value},
			{Text: e.ArchivedAt.Local().Format("2006-01-02 15:04"), Type: conz.Normal},
		})
	}
	s.out.Table([]conz.Column{{Title: "title", Width: 32}, {Title: "time", Width: 16}, {Title: "archived", Width: 16}}, rows)
	return nil
}

func printPoints(out *conz.Printer, points []store.Point, now dt.DT) {
	rows := make([][]conz.Cell, 0, len(points))
	for _, p := range points {
		span := now.Diff(p.At)
		spanType := conz.Value
		if span.Neg {
			spanType = conz.Error
		}
		rows = append(rows, []conz.Cell{
			{Text: p.Title, Type: conz.Highlight},
			{Text: p.At.DateTime(), Type: conz.Value},
			{Text: p.At.DayName(), Type: conz.Normal},
			{Text: span.String(), Type: spanType},
		})
	}
	out.Table([]conz.Column{{Title: "title", Width: 32}, {Title: "time", Width: 16}, {Title: "day", Width: 9}, {Title: "until", Width: 16}}, rows)
}

func cmdRmPoints(ctx context.Context, s *Session, args Args) error {
	return removeItems(ctx, s, s.ws.Points, "points", args.Inputs)
}

func cmdCleanPoints(ctx context.Context, s *Session, args Args) error {
	now := dt.Now()
	return cleanItems(ctx, s, s.ws.Points, "points", func(p store.Point) bool {
		return p.At.Before(now)
	}, args.Inputs)
}

func cmdEditPoints(ctx context.Context, s *Session, args Args) error {
	return editItem(ctx, s, s.ws.Points, "point", pointFields, func(p store.Point, vals []wizard.Value) (store.Point, error) {
		if vals[0].Set {
			p.Title = vals[0].Text
		}
		if vals[1].Set {
			p.At = vals[1].DT
		}
		return p, nil
	}, args.Inputs)
}

func cmdInspectPoint(_ context.Context, s *Session, args Args) error {
	s.out.Println(conz.Normal, "Inspect point(search first): ")
	i, err := searchOne(s, s.ws.Points, args.Inputs)
	if err != nil {
		return err
	}
	p := s.ws.Points.Items()[i]
	s.out.Item(p)
	dt.Now().Diff(p.At).Print(s.out)
	return nil
}
