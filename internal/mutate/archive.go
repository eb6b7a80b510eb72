package mutate

import (
	"ticklist/internal/model"
	"ticklist/internal/store"
)

// ArchiveChecklist moves a list to the read-only archived state. archivedAt
// comes from clk; pinned is cleared (archived lists are hidden by default, a
// pin would be meaningless).
func ArchiveChecklist(db *store.DB, checklistID string, clk model.Clock) (ChecklistResult, error) {
	c, ok := db.FindChecklist(checklistID)
	if !ok {
		return ChecklistResult{}, NotFoundError{Kind: "checklist", ID: checklistID}
	}
	if c.Archived {
		return ChecklistResult{Checklist: c, Changed: false}, nil
	}
	if clk == nil {
		clk = model.SystemClock{}
	}
	now := clk.Now()
	c.Archived = true
	c.ArchivedAt = &now
	c.Pinned = false
	return ChecklistResult{Checklist: c, Changed: true}, nil
}

// RestoreChecklist returns an archived list to the active state with its item
// array untouched (order and content survive the round trip).
func RestoreChecklist(db *store.DB, checklistID string) (ChecklistResult, error) {
	c, ok := db.FindChecklist(checklistID)
	if !ok {
		return ChecklistResult{}, NotFoundError{Kind: "checklist", ID: checklistID}
	}
	if !c.Archived {
		return ChecklistResult{Checklist: c, Changed: false}, nil
	}
	c.Archived = false
	c.ArchivedAt = nil
	return ChecklistResult{Checklist: c, Changed: true}, nil
}
