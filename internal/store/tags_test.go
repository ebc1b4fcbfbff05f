package store

import "testing"

func TestExtractTagsNormalizes(t *testing.T) {
	tags := extractTags("Call @Mom about #garden-plan and #Garden-plan again")
	want := []string{"garden-plan", "mom"}
	if len(tags) != len(want) {
		t.Fatalf("expected %d tags, got %d: %#v", len(want), len(tags), tags)
	}
	for i, tag := range tags {
		if tag != want[i] {
			t.Fatalf("expected tag %q at index %d, got %q", want[i], i, tag)
		}
	}
}

func TestExtractTagsSkipsGluedMarkers(t *testing.T) {
	tags := extractTags("mail me@home about issue#12 # and #ok")
	if len(tags) != 1 || tags[0] != "ok" {
		t.Fatalf("expected [ok], got %#v", tags)
	}
}

func TestTodoHasTag(t *testing.T) {
	todo, err := NewTodo("water plants #home", 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if !todo.HasTag("#Home") {
		t.Fatalf("expected tag home in %#v", todo.Tags)
	}
	if todo.HasTag("work") {
		t.Fatalf("unexpected tag work in %#v", todo.Tags)
	}
}
