// Package dt holds the date-time values used by points and deadlines.
package dt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pplanner/pplanner/internal/conz"
)

var (
	ErrInvalid = errors.New("invalid date-time")
	timeNow    = time.Now
)

const (
	displayLayout = "2006-01-02 15:04"
	storeLayout   = time.RFC3339
)

var inputLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02",
	"02-01-2006 15:04",
	"02-01-2006",
}

// DT is a moment with minute resolution in local time.
type DT struct {
	t time.Time
}

func Now() DT {
	return From(timeNow())
}

func From(t time.Time) DT {
	return DT{t: t.Truncate(time.Minute)}
}

// Parse accepts an ISO date with an optional time, a day-first date, or the
// words "now", "today" and "tomorrow". A date without a time means 00:00.
func Parse(s string) (DT, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return DT{}, fmt.Errorf("%w: empty", ErrInvalid)
	case "now":
		return Now(), nil
	case "today":
		return Now().StartOfDay(), nil
	case "tomorrow":
		return Now().StartOfDay().AddDays(1), nil
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return From(t), nil
		}
	}
	return DT{}, fmt.Errorf("%w: %q", ErrInvalid, s)
}

func (d DT) Time() time.Time { return d.t }

func (d DT) StartOfDay() DT {
	y, m, day := d.t.Date()
	return DT{t: time.Date(y, m, day, 0, 0, 0, 0, d.t.Location())}
}

func (d DT) AddDays(n int) DT {
	return DT{t: d.t.AddDate(0, 0, n)}
}

func (d DT) Before(o DT) bool { return d.t.Before(o.t) }

func (d DT) DateTime() string { return d.t.Format(displayLayout) }
func (d DT) DayName() string  { return d.t.Weekday().String() }
func (d DT) String() string   { return d.DateTime() }

// Diff returns the span from d to o. The span is negative when o lies
// before d.
func (d DT) Diff(o DT) Span {
	delta := o.t.Sub(d.t)
	s := Span{}
	if delta < 0 {
		s.Neg = true
		delta = -delta
	}
	total := int(delta / time.Minute)
	s.Days = total / (24 * 60)
	s.Hours = (total / 60) % 24
	s.Minutes = total % 60
	return s
}

func (d DT) Print(p *conz.Printer) {
	p.Print(conz.Value, d.DateTime())
	p.Print(conz.Normal, " ")
	p.Println(conz.Value, d.DayName())
}

func (d DT) MarshalYAML() (interface{}, error) {
	if d.t.IsZero() {
		return "", nil
	}
	return d.t.Format(storeLayout), nil
}

func (d *DT) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*d = DT{}
		return nil
	}
	t, err := time.Parse(storeLayout, s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	*d = From(t.In(time.Local))
	return nil
}

// Span is a duration split into days, hours and minutes.
type Span struct {
	Neg     bool
	Days    int
	Hours   int
	Minutes int
}

func (s Span) String() string {
	body := fmt.Sprintf("%dd %dh %dm", s.Days, s.Hours, s.Minutes)
	if s.Neg {
		return body + " ago"
	}
	return "in " + body
}

func (s Span) Print(p *conz.Printer) {
	if s.Neg {
		p.Print(conz.Value, fmt.Sprintf("%dd %dh %dm", s.Days, s.Hours, s.Minutes))
		p.Println(conz.Normal, " ago")
		return
	}
	p.Print(conz.Normal, "in ")
	p.Println(conz.Value, fmt.Sprintf("%dd %dh %dm", s.Days, s.Hours, s.Minutes))
}
