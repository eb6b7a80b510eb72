package store

import (
	"strings"
	"testing"
	"time"

	"ticklist/internal/model"
)

func TestBackupRoundTripPreservesTextsAndDoneFlags(t *testing.T) {
	db := &DB{
		Version: 1,
		Checklists: []model.Checklist{
			{
				ID:       "chk-src",
				Title:    "Ship it",
				SortMode: model.SortDeadlineAsc,
				Items: []model.ChecklistItem{
					{ID: "item-1", Text: "Run tests", Done: true, Deadline: date(t, "2024-01-01")},
					{ID: "item-2", Text: "Write notes"},
				},
			},
		},
	}

	clk := model.FixedClock{T: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	payload := ExportBackup(db.Checklists, clk)
	data, err := MarshalBackup(payload)
	if err != nil {
		t.Fatalf("MarshalBackup: %v", err)
	}

	target := &DB{Version: 1}
	imported, err := ImportBackup(target, data)
	if err != nil {
		t.Fatalf("ImportBackup: %v", err)
	}
	if len(imported) != 1 {
		t.Fatalf("imported %d lists", len(imported))
	}

	got := imported[0]
	if got.Title != "Ship it" || got.SortMode != model.SortDeadlineAsc {
		t.Fatalf("metadata: %+v", got)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items: %+v", got.Items)
	}
	if got.Items[0].Text != "Run tests" || !got.Items[0].Done {
		t.Fatalf("item 0: %+v", got.Items[0])
	}
	if got.Items[1].Text != "Write notes" || got.Items[1].Done {
		t.Fatalf("item 1: %+v", got.Items[1])
	}
	if got.Items[0].Deadline == nil || got.Items[0].Deadline.String() != "2024-01-01" {
		t.Fatalf("deadline: %v", got.Items[0].Deadline)
	}

	// Ids are regenerated on import.
	if got.ID == "chk-src" || got.Items[0].ID == "item-1" {
		t.Fatalf("ids must be regenerated: %+v", got)
	}
	if len(target.Checklists) != 1 {
		t.Fatalf("import must append to target db")
	}
}

func TestImportBackupRejectsMalformedInput(t *testing.T) {
	db := &DB{Version: 1, Checklists: []model.Checklist{{ID: "chk-keep", Title: "Keep"}}}

	cases := []string{
		"{not json",
		`{"checklists": []}`,                                     // missing version
		`{"version": 1, "checklists": "nope"}`,                   // wrong type
		`{"version": 1, "checklists": [{"items": []}]}`,          // missing title
		`{"version": 1, "checklists": [{"title": "x"}]}`,         // missing items
		`{"version": 0, "checklists": []}`,                       // version below minimum
		`{"version": 1, "checklists": [{"title":"x","items":[{"text":"y","deadline":"01-02-2024"}]}]}`, // bad date shape
	}
	for _, in := range cases {
		_, err := ImportBackup(db, []byte(in))
		if err == nil {
			t.Fatalf("expected rejection for %s", in)
		}
		if !strings.Contains(err.Error(), "could not parse") {
			t.Fatalf("error must be a parse message, got %v", err)
		}
	}

	if len(db.Checklists) != 1 || db.Checklists[0].ID != "chk-keep" {
		t.Fatalf("rejected imports must not touch existing state: %+v", db.Checklists)
	}
}

func TestImportBackupTolerantOfNullDeadline(t *testing.T) {
	db := &DB{Version: 1}
	in := `{"version": 1, "checklists": [{"title":"x","items":[{"text":"y","deadline":null}]}]}`
	lists, err := ImportBackup(db, []byte(in))
	if err != nil {
		t.Fatalf("ImportBackup: %v", err)
	}
	if lists[0].Items[0].Deadline != nil {
		t.Fatalf("null deadline must import as nil")
	}
}
