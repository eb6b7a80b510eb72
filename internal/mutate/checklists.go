package mutate

import (
	"strings"

	"ticklist/internal/model"
	"ticklist/internal/store"
)

type ChecklistResult struct {
	Checklist *model.Checklist
	Changed   bool
}

// CreateChecklist creates a list with an optional multi-line prefill: each
// non-empty line becomes one not-done item, in line order.
func CreateChecklist(db *store.DB, title, prefill string) (*model.Checklist, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errValidation("checklist title is empty")
	}

	c := model.Checklist{
		ID:       db.NextID("chk"),
		Title:    title,
		Items:    []model.ChecklistItem{},
		SortMode: model.SortManual,
	}
	for _, line := range strings.Split(prefill, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.Items = append(c.Items, model.ChecklistItem{
			ID:   db.NextID("item"),
			Text: line,
		})
	}

	db.Checklists = append(db.Checklists, c)
	return &db.Checklists[len(db.Checklists)-1], nil
}

func RenameChecklist(db *store.DB, checklistID, title string) (ChecklistResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return ChecklistResult{}, errValidation("checklist title is empty")
	}
	c, ok := db.FindChecklist(checklistID)
	if !ok {
		return ChecklistResult{}, NotFoundError{Kind: "checklist", ID: checklistID}
	}
	if c.Archived {
		return ChecklistResult{}, ArchivedError{ChecklistID: c.ID}
	}
	if c.Title == title {
		return ChecklistResult{Checklist: c, Changed: false}, nil
	}
	c.Title = title
	return ChecklistResult{Checklist: c, Changed: true}, nil
}

// SetSortMode switches the display-ordering policy. Switching away from
// manual never rewrites the stored item order; it only changes the
// projection.
func SetSortMode(db *store.DB, checklistID string, mode model.SortMode) (ChecklistResult, error) {
	if !mode.Valid() {
		return ChecklistResult{}, errValidation("invalid sort mode %q (expected manual|deadline-asc|deadline-desc)", string(mode))
	}
	c, ok := db.FindChecklist(checklistID)
	if !ok {
		return ChecklistResult{}, NotFoundError{Kind: "checklist", ID: checklistID}
	}
	if c.Archived {
		return ChecklistResult{}, ArchivedError{ChecklistID: c.ID}
	}
	if c.SortMode == mode {
		return ChecklistResult{Checklist: c, Changed: false}, nil
	}
	c.SortMode = mode
	return ChecklistResult{Checklist: c, Changed: true}, nil
}

func SetPinned(db *store.DB, checklistID string, pinned bool) (ChecklistResult, error) {
	c, ok := db.FindChecklist(checklistID)
	if !ok {
		return ChecklistResult{}, NotFoundError{Kind: "checklist", ID: checklistID}
	}
	if c.Archived {
		return ChecklistResult{}, ArchivedError{ChecklistID: c.ID}
	}
	if c.Pinned == pinned {
		return ChecklistResult{Checklist: c, Changed: false}, nil
	}
	c.Pinned = pinned
	return ChecklistResult{Checklist: c, Changed: true}, nil
}

// DeleteChecklist permanently removes an archived checklist. Active lists are
// rejected; callers gate this behind an explicit confirmation.
func DeleteChecklist(db *store.DB, checklistID string) error {
	c, ok := db.FindChecklist(checklistID)
	if !ok {
		return NotFoundError{Kind: "checklist", ID: checklistID}
	}
	if !c.Archived {
		return NotArchivedError{ChecklistID: c.ID}
	}
	kept := db.Checklists[:0]
	for i := range db.Checklists {
		if db.Checklists[i].ID == c.ID {
			continue
		}
		kept = append(kept, db.Checklists[i])
	}
	db.Checklists = kept
	return nil
}
