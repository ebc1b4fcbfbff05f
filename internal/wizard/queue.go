package wizard

import "strings"

// Queue holds answers supplied on the command line ahead of time. A nil
// Queue is valid and always empty.
type Queue struct {
	items []string
}

func NewQueue(items []string) *Queue {
	return &Queue{items: append([]string(nil), items...)}
}

// ParseQueue splits a comma separated answer list. Entries are trimmed;
// empty entries are kept so a field can be skipped on purpose.
func ParseQueue(s string) *Queue {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 1 && parts[0] == "" {
		return NewQueue(nil)
	}
	return NewQueue(parts)
}

func (q *Queue) Pop() (string, bool) {
	if q == nil || len(q.items) == 0 {
		return "", false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Supplied reports whether answers were given at all, even if all of them
// have been consumed since.
func (q *Queue) Supplied() bool {
	return q != nil
}

func (q *Queue) Remaining() []string {
	if q == nil {
		return nil
	}
	return append([]string(nil), q.items...)
}
