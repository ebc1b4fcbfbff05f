package conz

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type Column struct {
	Title string
	Width int
}

type Cell struct {
	Text string
	Type MsgType
}

const columnSep = " | "

// Table prints rows aligned under cols. Cells are padded by display width
// before coloring so escape codes never skew the layout.
func (p *Printer) Table(cols []Column, rows [][]Cell) {
	for i, c := range cols {
		if i > 0 {
			p.Print(Normal, columnSep)
		}
		p.Print(Highlight, fit(c.Title, c.Width))
	}
	p.Raw("\n")
	if len(rows) == 0 {
		p.Println(Normal, "(none)")
		return
	}
	for _, row := range rows {
		for i, c := range cols {
			if i > 0 {
				p.Print(Normal, columnSep)
			}
			cell := Cell{Type: Normal}
			if i < len(row) {
				cell = row[i]
			}
			p.Print(cell.Type, fit(cell.Text, c.Width))
		}
		p.Raw("\n")
	}
}

func fit(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 {
		return s
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "~")
	}
	return runewidth.FillRight(s, width)
}
