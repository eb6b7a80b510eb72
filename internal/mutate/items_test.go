package mutate

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"ticklist/internal/model"
	"ticklist/internal/order"
	"ticklist/internal/store"
)

func itemTexts(items []model.ChecklistItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text)
	}
	return out
}

// End-to-end slice of the common workflow: create with prefill, toggle,
// assign a deadline, switch to deadline-asc, and check the projection.
func TestPrefillToggleDeadlineScenario(t *testing.T) {
	db := &store.DB{Version: 1}
	c, err := CreateChecklist(db, "Ship it", "Run tests\nWrite notes")
	if err != nil {
		t.Fatalf("CreateChecklist: %v", err)
	}
	if got := itemTexts(c.Items); !reflect.DeepEqual(got, []string{"Run tests", "Write notes"}) {
		t.Fatalf("prefill: %v", got)
	}
	for _, it := range c.Items {
		if it.Done {
			t.Fatalf("prefill items must start not done")
		}
	}

	clk := model.FixedClock{T: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	if _, err := ToggleItem(db, c.ID, c.Items[0].ID); err != nil {
		t.Fatalf("ToggleItem: %v", err)
	}
	st := c.StatsAt(clk)
	if st.CompletedItems != 1 || st.TotalItems != 2 {
		t.Fatalf("stats after toggle: %+v", st)
	}

	if _, err := SetItemDeadline(db, c.ID, c.Items[0].ID, "2024-01-01"); err != nil {
		t.Fatalf("SetItemDeadline: %v", err)
	}
	if _, err := SetSortMode(db, c.ID, model.SortDeadlineAsc); err != nil {
		t.Fatalf("SetSortMode: %v", err)
	}

	display := order.Display(c.Items, c.SortMode)
	if display[0].Text != "Run tests" {
		t.Fatalf("dated item must come before deadline-less item: %v", itemTexts(display))
	}
}

func TestSetItemDeadlineRejectsBadInputUntouched(t *testing.T) {
	db := &store.DB{Version: 1}
	c, _ := CreateChecklist(db, "List", "task")
	id := c.Items[0].ID

	if _, err := SetItemDeadline(db, c.ID, id, "2024-06-01"); err != nil {
		t.Fatalf("SetItemDeadline: %v", err)
	}
	prior := *c.Items[0].Deadline

	_, err := SetItemDeadline(db, c.ID, id, "06/01/2024")
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if c.Items[0].Deadline == nil || *c.Items[0].Deadline != prior {
		t.Fatalf("rejected input must leave prior deadline: %v", c.Items[0].Deadline)
	}

	if _, err := ClearItemDeadline(db, c.ID, id); err != nil {
		t.Fatalf("ClearItemDeadline: %v", err)
	}
	if c.Items[0].Deadline != nil {
		t.Fatalf("deadline not cleared")
	}
}

func TestClearCompleted(t *testing.T) {
	db := &store.DB{Version: 1}
	c, _ := CreateChecklist(db, "List", "one\ntwo\nthree")
	if _, err := ToggleItem(db, c.ID, c.Items[0].ID); err != nil {
		t.Fatalf("ToggleItem: %v", err)
	}
	if _, err := ToggleItem(db, c.ID, c.Items[2].ID); err != nil {
		t.Fatalf("ToggleItem: %v", err)
	}

	removed, err := ClearCompleted(db, c.ID)
	if err != nil {
		t.Fatalf("ClearCompleted: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed: %d", removed)
	}
	if got := itemTexts(c.Items); !reflect.DeepEqual(got, []string{"two"}) {
		t.Fatalf("items: %v", got)
	}
}

func TestMoveItemRespectsSortMode(t *testing.T) {
	db := &store.DB{Version: 1}
	c, _ := CreateChecklist(db, "List", "one\ntwo\nthree")

	if _, err := MoveItem(db, c.ID, 0, 2); err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if got := itemTexts(c.Items); !reflect.DeepEqual(got, []string{"two", "three", "one"}) {
		t.Fatalf("after move: %v", got)
	}

	if _, err := SetSortMode(db, c.ID, model.SortDeadlineDesc); err != nil {
		t.Fatalf("SetSortMode: %v", err)
	}
	before := itemTexts(c.Items)
	_, err := MoveItem(db, c.ID, 0, 1)
	var me order.ModeError
	if !errors.As(err, &me) {
		t.Fatalf("expected order.ModeError, got %v", err)
	}
	if !reflect.DeepEqual(itemTexts(c.Items), before) {
		t.Fatalf("rejected reorder mutated items: %v", itemTexts(c.Items))
	}
}

func TestItemNotFound(t *testing.T) {
	db := &store.DB{Version: 1}
	c, _ := CreateChecklist(db, "List", "one")

	var nf NotFoundError
	if _, err := ToggleItem(db, c.ID, "item-missing"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if _, err := ToggleItem(db, "chk-missing", c.Items[0].ID); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAddItemValidation(t *testing.T) {
	db := &store.DB{Version: 1}
	c, _ := CreateChecklist(db, "List", "")

	var ve ValidationError
	if _, err := AddItem(db, c.ID, "   ", ""); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, err := AddItem(db, c.ID, "dated", "not-a-date"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(c.Items) != 0 {
		t.Fatalf("rejected adds must not append")
	}

	res, err := AddItem(db, c.ID, "dated", "2024-03-04")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if res.Item.Deadline == nil || res.Item.Deadline.String() != "2024-03-04" {
		t.Fatalf("deadline: %v", res.Item.Deadline)
	}
}
