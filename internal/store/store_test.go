package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"ticklist/internal/model"
)

func date(t *testing.T, s string) *model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return &d
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	in := &DB{
		Version: 1,
		Checklists: []model.Checklist{
			{
				ID:       "chk-a",
				Title:    "Groceries",
				SortMode: model.SortManual,
				Pinned:   true,
				Items: []model.ChecklistItem{
					{ID: "item-1", Text: "milk", Done: true},
					{ID: "item-2", Text: "bread", Deadline: date(t, "2024-04-01")},
					{ID: "item-3", Text: "eggs"},
				},
			},
			{
				ID:       "chk-b",
				Title:    "Chores",
				SortMode: model.SortDeadlineAsc,
				Items:    []model.ChecklistItem{},
			},
		},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(out.Checklists, in.Checklists) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", out.Checklists, in.Checklists)
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(db.Checklists) != 0 || db.Version != 1 {
		t.Fatalf("empty store: %+v", db)
	}
}

func TestLegacyJSONImportedOnce(t *testing.T) {
	dir := t.TempDir()
	legacy := `[
		{"id":"chk-old","title":"Old list","sortMode":"manual","items":[
			{"id":"item-old","text":"carry over","done":true}
		]}
	]`
	if err := os.WriteFile(filepath.Join(dir, legacyFileName), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy: %v", err)
	}

	s := Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(db.Checklists) != 1 || db.Checklists[0].Title != "Old list" {
		t.Fatalf("legacy import: %+v", db.Checklists)
	}
	if !db.Checklists[0].Items[0].Done {
		t.Fatalf("done flag lost in import")
	}

	// SQLite is now the source of truth: removing the legacy file changes
	// nothing.
	if err := os.Remove(filepath.Join(dir, legacyFileName)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	db2, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(db2.Checklists) != 1 {
		t.Fatalf("import did not persist: %+v", db2.Checklists)
	}
}

func TestMalformedLegacyJSONDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, legacyFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load must not fail on malformed legacy data: %v", err)
	}
	if len(db.Checklists) != 0 {
		t.Fatalf("expected empty, got %+v", db.Checklists)
	}
}

func TestVisiblePartition(t *testing.T) {
	db := &DB{
		Version: 1,
		Checklists: []model.Checklist{
			{ID: "chk-1", Title: "Plain"},
			{ID: "chk-2", Title: "Pinned", Pinned: true},
			{ID: "chk-3", Title: "Gone", Archived: true},
		},
	}

	vis := db.Visible()
	if len(vis) != 2 || vis[0].ID != "chk-2" || vis[1].ID != "chk-1" {
		t.Fatalf("visible: %+v", vis)
	}
	arch := db.Archived()
	if len(arch) != 1 || arch[0].ID != "chk-3" {
		t.Fatalf("archived: %+v", arch)
	}
}

func TestNextIDUnique(t *testing.T) {
	db := &DB{Version: 1}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := db.NextID("chk")
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
		db.Checklists = append(db.Checklists, model.Checklist{ID: id, Title: "x"})
	}
}
