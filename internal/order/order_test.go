package order

import (
	"errors"
	"reflect"
	"testing"

	"ticklist/internal/model"
)

func dt(t *testing.T, s string) *model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return &d
}

func ids(items []model.ChecklistItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func fixture(t *testing.T) []model.ChecklistItem {
	t.Helper()
	return []model.ChecklistItem{
		{ID: "a", Text: "late", Deadline: dt(t, "2024-03-01")},
		{ID: "b", Text: "no deadline one"},
		{ID: "c", Text: "early", Deadline: dt(t, "2024-01-01")},
		{ID: "d", Text: "no deadline two"},
		{ID: "e", Text: "mid", Deadline: dt(t, "2024-02-01")},
	}
}

func TestDisplayManualIsIdentity(t *testing.T) {
	items := fixture(t)
	got := Display(items, model.SortManual)
	if !reflect.DeepEqual(ids(got), []string{"a", "b", "c", "d", "e"}) {
		t.Fatalf("manual order changed: %v", ids(got))
	}
	// Display returns a copy.
	got[0].Text = "mutated"
	if items[0].Text != "late" {
		t.Fatalf("Display must not alias the stored slice")
	}
}

func TestDisplayDeadlineModes(t *testing.T) {
	items := fixture(t)

	asc := Display(items, model.SortDeadlineAsc)
	if !reflect.DeepEqual(ids(asc), []string{"c", "e", "a", "b", "d"}) {
		t.Fatalf("asc: %v", ids(asc))
	}

	desc := Display(items, model.SortDeadlineDesc)
	if !reflect.DeepEqual(ids(desc), []string{"a", "e", "c", "b", "d"}) {
		t.Fatalf("desc: %v", ids(desc))
	}

	// asc restricted to dated items is the reverse of desc; deadline-less
	// items hold their relative position in both.
	datedAsc := ids(asc)[:3]
	datedDesc := ids(desc)[:3]
	for i := range datedAsc {
		if datedAsc[i] != datedDesc[len(datedDesc)-1-i] {
			t.Fatalf("asc/desc not mirrored: %v vs %v", datedAsc, datedDesc)
		}
	}

	// Underlying array untouched.
	if !reflect.DeepEqual(ids(items), []string{"a", "b", "c", "d", "e"}) {
		t.Fatalf("stored order mutated: %v", ids(items))
	}
}

func TestDisplayStableForEqualDeadlines(t *testing.T) {
	items := []model.ChecklistItem{
		{ID: "x", Text: "first", Deadline: dt(t, "2024-01-01")},
		{ID: "y", Text: "second", Deadline: dt(t, "2024-01-01")},
	}
	got := Display(items, model.SortDeadlineAsc)
	if !reflect.DeepEqual(ids(got), []string{"x", "y"}) {
		t.Fatalf("equal deadlines must keep stored order: %v", ids(got))
	}
}

func TestMoveManual(t *testing.T) {
	items := fixture(t)
	if err := Move(items, 0, 3, model.SortManual); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !reflect.DeepEqual(ids(items), []string{"b", "c", "d", "a", "e"}) {
		t.Fatalf("after move down: %v", ids(items))
	}
	if err := Move(items, 3, 0, model.SortManual); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !reflect.DeepEqual(ids(items), []string{"a", "b", "c", "d", "e"}) {
		t.Fatalf("after move up: %v", ids(items))
	}
}

func TestMoveRejectedUnderDeadlineMode(t *testing.T) {
	items := fixture(t)
	before := ids(items)

	err := Move(items, 0, 2, model.SortDeadlineAsc)
	if err == nil {
		t.Fatalf("expected error")
	}
	var me ModeError
	if !errors.As(err, &me) {
		t.Fatalf("expected ModeError, got %T", err)
	}
	if !reflect.DeepEqual(ids(items), before) {
		t.Fatalf("items mutated by rejected reorder: %v", ids(items))
	}
}

func TestMoveOutOfRange(t *testing.T) {
	items := fixture(t)
	if err := Move(items, -1, 0, model.SortManual); err == nil {
		t.Fatalf("expected error for from=-1")
	}
	if err := Move(items, 0, len(items), model.SortManual); err == nil {
		t.Fatalf("expected error for to=len")
	}
}
