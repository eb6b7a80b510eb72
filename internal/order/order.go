// Package order computes the display sequence for a checklist's items and
// validates manual drag reorders.
package order

import (
	"fmt"
	"sort"

	"ticklist/internal/model"
)

// ModeError rejects a manual reorder attempted under a deadline sort mode.
// The underlying item array is left untouched: deadline orderings are derived
// projections, and writing them back would destroy the user's manual order.
type ModeError struct {
	Mode model.SortMode
}

func (e ModeError) Error() string {
	return fmt.Sprintf("manual reorder requires manual sort mode (current: %s)", e.Mode)
}

// Display returns the display sequence for items under mode.
//
// manual: items unchanged (the stored order is ground truth).
// deadline-asc / deadline-desc: items with a deadline first, sorted by
// calendar day (reversed for desc); items without a deadline follow in their
// existing relative order regardless of direction.
//
// The returned slice is always a copy; callers may not mutate stored order
// through it.
func Display(items []model.ChecklistItem, mode model.SortMode) []model.ChecklistItem {
	out := append([]model.ChecklistItem{}, items...)
	if mode != model.SortDeadlineAsc && mode != model.SortDeadlineDesc {
		return out
	}

	dated := make([]model.ChecklistItem, 0, len(out))
	undated := make([]model.ChecklistItem, 0, len(out))
	for _, it := range out {
		if it.Deadline != nil {
			dated = append(dated, it)
		} else {
			undated = append(undated, it)
		}
	}

	// Stable keeps the stored relative order for equal deadlines.
	sort.SliceStable(dated, func(i, j int) bool {
		if mode == model.SortDeadlineDesc {
			return dated[j].Deadline.Before(*dated[i].Deadline)
		}
		return dated[i].Deadline.Before(*dated[j].Deadline)
	})

	return append(dated, undated...)
}

// Move performs a manual drag reorder in place: the item at index from is
// removed and reinserted at index to. It fails without touching items unless
// mode is manual and both indexes are in range.
func Move(items []model.ChecklistItem, from, to int, mode model.SortMode) error {
	if mode != model.SortManual {
		return ModeError{Mode: mode}
	}
	if from < 0 || from >= len(items) {
		return fmt.Errorf("reorder: index %d out of range", from)
	}
	if to < 0 || to >= len(items) {
		return fmt.Errorf("reorder: index %d out of range", to)
	}
	if from == to {
		return nil
	}

	moved := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = moved
	return nil
}
