package model

import (
	"strings"
	"time"
)

// SortMode is the display-ordering policy for a checklist's items.
//
// Under SortManual the stored item order is ground truth and is only changed
// by explicit reorder operations. Under the deadline modes the display order
// is a derived projection; the stored order is never rewritten.
type SortMode string

const (
	SortManual       SortMode = "manual"
	SortDeadlineAsc  SortMode = "deadline-asc"
	SortDeadlineDesc SortMode = "deadline-desc"
)

func (m SortMode) Valid() bool {
	switch m {
	case SortManual, SortDeadlineAsc, SortDeadlineDesc:
		return true
	}
	return false
}

type ChecklistItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	Deadline *Date  `json:"deadline,omitempty"`
}

type Checklist struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Items      []ChecklistItem `json:"items"`
	SortMode   SortMode        `json:"sortMode"`
	Pinned     bool            `json:"pinned"`
	Archived   bool            `json:"archived"`
	ArchivedAt *time.Time      `json:"archivedAt,omitempty"`
}

// Stats are the derived per-checklist counters surfaced in CLI output and the
// TUI footer. They are never persisted.
type Stats struct {
	TotalItems     int `json:"totalItems"`
	CompletedItems int `json:"completedItems"`
	DueToday       int `json:"dueToday"`
}

// StatsAt computes counters relative to today, where today is taken from clk.
func (c Checklist) StatsAt(clk Clock) Stats {
	st := Stats{TotalItems: len(c.Items)}
	today := Today(clk)
	for _, it := range c.Items {
		if it.Done {
			st.CompletedItems++
		}
		if it.Deadline != nil && *it.Deadline == today {
			st.DueToday++
		}
	}
	return st
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	SyncCode     string    `json:"syncCode,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Normalize repairs a checklist loaded from storage or received over the
// wire: unknown sort modes fall back to manual, nil item slices become empty,
// archive metadata is made consistent, and items missing an id or text are
// dropped. It never fails; malformed input degrades to a usable default.
func (c *Checklist) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	if !c.SortMode.Valid() {
		c.SortMode = SortManual
	}
	if c.Items == nil {
		c.Items = []ChecklistItem{}
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		it.Text = strings.TrimSpace(it.Text)
		if strings.TrimSpace(it.ID) == "" || it.Text == "" {
			continue
		}
		kept = append(kept, it)
	}
	c.Items = kept
	if !c.Archived {
		c.ArchivedAt = nil
	}
	if c.Archived {
		// An archived list can never stay pinned.
		c.Pinned = false
	}
}

// NormalizeChecklists normalizes every list in place and drops lists without
// an id or title.
func NormalizeChecklists(lists []Checklist) []Checklist {
	if lists == nil {
		return []Checklist{}
	}
	kept := lists[:0]
	for i := range lists {
		lists[i].Normalize()
		if strings.TrimSpace(lists[i].ID) == "" || lists[i].Title == "" {
			continue
		}
		kept = append(kept, lists[i])
	}
	return kept
}
