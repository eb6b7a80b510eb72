package model

import (
	"testing"
	"time"
)

func TestNormalizeRepairsMalformedChecklist(t *testing.T) {
	at := time.Now()
	c := Checklist{
		ID:         "chk-1",
		Title:      "  Groceries  ",
		SortMode:   SortMode("bogus"),
		Pinned:     true,
		Archived:   true,
		ArchivedAt: &at,
		Items: []ChecklistItem{
			{ID: "item-1", Text: " milk "},
			{ID: "", Text: "no id"},
			{ID: "item-2", Text: "   "},
		},
	}
	c.Normalize()

	if c.Title != "Groceries" {
		t.Fatalf("title: %q", c.Title)
	}
	if c.SortMode != SortManual {
		t.Fatalf("sort mode: %q", c.SortMode)
	}
	if len(c.Items) != 1 || c.Items[0].Text != "milk" {
		t.Fatalf("items: %+v", c.Items)
	}
	if c.Pinned {
		t.Fatalf("archived list must not stay pinned")
	}
	if c.ArchivedAt == nil {
		t.Fatalf("archivedAt cleared for archived list")
	}

	c.Archived = false
	c.Normalize()
	if c.ArchivedAt != nil {
		t.Fatalf("archivedAt must be nil for active list")
	}
}

func TestNormalizeChecklistsDropsInvalid(t *testing.T) {
	lists := []Checklist{
		{ID: "chk-1", Title: "Keep"},
		{ID: "", Title: "No id"},
		{ID: "chk-2", Title: "   "},
	}
	out := NormalizeChecklists(lists)
	if len(out) != 1 || out[0].ID != "chk-1" {
		t.Fatalf("got %+v", out)
	}
	if NormalizeChecklists(nil) == nil {
		t.Fatalf("nil input must yield empty slice")
	}
}

func TestStatsAt(t *testing.T) {
	today, _ := ParseDate("2024-01-01")
	later, _ := ParseDate("2024-02-01")
	clk := FixedClock{T: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}

	c := Checklist{
		ID:    "chk-1",
		Title: "Ship it",
		Items: []ChecklistItem{
			{ID: "item-1", Text: "Run tests", Done: true, Deadline: &today},
			{ID: "item-2", Text: "Write notes", Deadline: &later},
			{ID: "item-3", Text: "Celebrate"},
		},
	}
	st := c.StatsAt(clk)
	if st.TotalItems != 3 || st.CompletedItems != 1 || st.DueToday != 1 {
		t.Fatalf("stats: %+v", st)
	}
	if st.CompletedItems > st.TotalItems {
		t.Fatalf("completed exceeds total")
	}
}
