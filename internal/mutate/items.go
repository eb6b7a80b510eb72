package mutate

import (
	"strings"

	"ticklist/internal/model"
	"ticklist/internal/order"
	"ticklist/internal/store"
)

type ItemResult struct {
	Checklist *model.Checklist
	Item      *model.ChecklistItem
	Changed   bool
}

func writableChecklist(db *store.DB, checklistID string) (*model.Checklist, error) {
	c, ok := db.FindChecklist(checklistID)
	if !ok {
		return nil, NotFoundError{Kind: "checklist", ID: checklistID}
	}
	if c.Archived {
		return nil, ArchivedError{ChecklistID: c.ID}
	}
	return c, nil
}

func findItem(c *model.Checklist, itemID string) (*model.ChecklistItem, int, bool) {
	itemID = strings.TrimSpace(itemID)
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i], i, true
		}
	}
	return nil, -1, false
}

// AddItem appends a new not-done item. deadline is an optional strict
// YYYY-MM-DD string; empty means no deadline.
func AddItem(db *store.DB, checklistID, text, deadline string) (ItemResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ItemResult{}, errValidation("item text is empty")
	}
	c, err := writableChecklist(db, checklistID)
	if err != nil {
		return ItemResult{}, err
	}

	it := model.ChecklistItem{ID: db.NextID("item"), Text: text}
	if strings.TrimSpace(deadline) != "" {
		d, err := model.ParseDate(deadline)
		if err != nil {
			return ItemResult{}, ValidationError{Msg: err.Error()}
		}
		it.Deadline = &d
	}

	c.Items = append(c.Items, it)
	return ItemResult{Checklist: c, Item: &c.Items[len(c.Items)-1], Changed: true}, nil
}

func ToggleItem(db *store.DB, checklistID, itemID string) (ItemResult, error) {
	c, err := writableChecklist(db, checklistID)
	if err != nil {
		return ItemResult{}, err
	}
	it, _, ok := findItem(c, itemID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	it.Done = !it.Done
	return ItemResult{Checklist: c, Item: it, Changed: true}, nil
}

func EditItemText(db *store.DB, checklistID, itemID, text string) (ItemResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ItemResult{}, errValidation("item text is empty")
	}
	c, err := writableChecklist(db, checklistID)
	if err != nil {
		return ItemResult{}, err
	}
	it, _, ok := findItem(c, itemID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if it.Text == text {
		return ItemResult{Checklist: c, Item: it, Changed: false}, nil
	}
	it.Text = text
	return ItemResult{Checklist: c, Item: it, Changed: true}, nil
}

// SetItemDeadline validates raw strictly before touching the item; on a
// validation error the prior deadline is kept.
func SetItemDeadline(db *store.DB, checklistID, itemID, raw string) (ItemResult, error) {
	c, err := writableChecklist(db, checklistID)
	if err != nil {
		return ItemResult{}, err
	}
	it, _, ok := findItem(c, itemID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return ItemResult{}, ValidationError{Msg: err.Error()}
	}
	it.Deadline = &d
	return ItemResult{Checklist: c, Item: it, Changed: true}, nil
}

func ClearItemDeadline(db *store.DB, checklistID, itemID string) (ItemResult, error) {
	c, err := writableChecklist(db, checklistID)
	if err != nil {
		return ItemResult{}, err
	}
	it, _, ok := findItem(c, itemID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if it.Deadline == nil {
		return ItemResult{Checklist: c, Item: it, Changed: false}, nil
	}
	it.Deadline = nil
	return ItemResult{Checklist: c, Item: it, Changed: true}, nil
}

func RemoveItem(db *store.DB, checklistID, itemID string) (ItemResult, error) {
	c, err := writableChecklist(db, checklistID)
	if err != nil {
		return ItemResult{}, err
	}
	_, idx, ok := findItem(c, itemID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return ItemResult{Checklist: c, Changed: true}, nil
}

// ClearCompleted removes all done items and reports how many were removed.
func ClearCompleted(db *store.DB, checklistID string) (int, error) {
	c, err := writableChecklist(db, checklistID)
	if err != nil {
		return 0, err
	}
	kept := c.Items[:0]
	removed := 0
	for _, it := range c.Items {
		if it.Done {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	c.Items = kept
	return removed, nil
}

// MoveItem performs a manual drag reorder. The order engine rejects it when
// the list is not in manual sort mode.
func MoveItem(db *store.DB, checklistID string, from, to int) (ItemResult, error) {
	c, err := writableChecklist(db, checklistID)
	if err != nil {
		return ItemResult{}, err
	}
	if err := order.Move(c.Items, from, to, c.SortMode); err != nil {
		return ItemResult{}, err
	}
	return ItemResult{Checklist: c, Changed: from != to}, nil
}
