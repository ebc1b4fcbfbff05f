package cli

import (
	"strings"

	"github.com/pplanner/pplanner/internal/cmdtrie"
)

func register(t *cmdtrie.Trie[Handler]) {
	for _, c := range []struct {
		path string
		h    Handler
	}{
		{"now", cmdNow},
		{"help", cmdHelp},
		{"license", cmdLicense},
		{"ls commands", cmdLsCommands},
		{"init", cmdInit},
		{"status", cmdStatus},
		{"flush", cmdFlush},
		{"export", cmdExport},
		{"test keys", cmdTestKeys},

		{"mk point", cmdMkPoint},
		{"ls points", cmdLsPoints},
		{"ls points archive", cmdLsPointsArchive},
		{"rm points", cmdRmPoints},
		{"clean points", cmdCleanPoints},
		{"edit points", cmdEditPoints},
		{"inspect point", cmdInspectPoint},

		{"mk todo", cmdMkTodo},
		{"ls todos", cmdLsTodos},
		{"ls todos archive", cmdLsTodosArchive},
		{"rm todos", cmdRmTodos},
		{"edit todos", cmdEditTodos},

		{"mk deadline", cmdMkDeadline},
		{"add deadline", cmdMkDeadline},
		{"ls deadlines", cmdLsDeadlines},
		{"ls deadlines archive", cmdLsDeadlinesArchive},
		{"rm deadlines", cmdRmDeadlines},
		{"clean deadlines", cmdCleanDeadlines},
		{"edit deadlines", cmdEditDeadlines},
	} {
		t.MustInsert(strings.Fields(c.path), c.h)
	}
}
