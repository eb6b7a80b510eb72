package server

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ticklist/internal/model"
)

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "server.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testUser(id, email string) model.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return model.User{
		ID: id, Email: email, Name: "Tester",
		PasswordHash: "x", SyncCode: "code-" + id,
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestSQLiteUsers(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	u := testUser("user-1", "a@example.com")
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := repo.CreateUser(ctx, testUser("user-2", "A@Example.com")); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: err = %v", err)
	}

	got, err := repo.UserByEmail(ctx, "A@Example.com")
	if err != nil || got.ID != "user-1" {
		t.Fatalf("UserByEmail = %+v, %v", got, err)
	}

	got.Name = "Renamed"
	if err := repo.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	back, err := repo.UserByID(ctx, "user-1")
	if err != nil || back.Name != "Renamed" {
		t.Fatalf("UserByID = %+v, %v", back, err)
	}

	if _, err := repo.UserByID(ctx, "user-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user: err = %v", err)
	}
}

func TestSQLiteChecklists(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, testUser("user-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	first := model.Checklist{ID: "chk-1", Title: "First", SortMode: model.SortManual,
		Items: []model.ChecklistItem{{ID: "item-1", Text: "a"}}}
	second := model.Checklist{ID: "chk-2", Title: "Second", SortMode: model.SortDeadlineAsc,
		Items: []model.ChecklistItem{}}
	for _, c := range []model.Checklist{first, second} {
		if err := repo.PutChecklist(ctx, "user-1", c); err != nil {
			t.Fatalf("PutChecklist(%s): %v", c.ID, err)
		}
	}

	// Replacing the first list keeps it in first position.
	first.Title = "First renamed"
	if err := repo.PutChecklist(ctx, "user-1", first); err != nil {
		t.Fatalf("PutChecklist replace: %v", err)
	}
	lists, err := repo.Checklists(ctx, "user-1")
	if err != nil {
		t.Fatalf("Checklists: %v", err)
	}
	if len(lists) != 2 || lists[0].Title != "First renamed" || lists[1].ID != "chk-2" {
		t.Fatalf("unexpected order: %+v", lists)
	}

	if err := repo.DeleteChecklist(ctx, "user-1", "chk-1"); err != nil {
		t.Fatalf("DeleteChecklist: %v", err)
	}
	if err := repo.DeleteChecklist(ctx, "user-1", "chk-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: err = %v", err)
	}

	if err := repo.ReplaceChecklists(ctx, "user-1", []model.Checklist{second}); err != nil {
		t.Fatalf("ReplaceChecklists: %v", err)
	}
	lists, err = repo.Checklists(ctx, "user-1")
	if err != nil || len(lists) != 1 || lists[0].ID != "chk-2" {
		t.Fatalf("after replace: %+v, %v", lists, err)
	}

	if _, err := repo.Checklists(ctx, "user-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: err = %v", err)
	}
}
