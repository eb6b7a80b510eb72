package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ticklist/internal/model"
	"ticklist/internal/mutate"
	"ticklist/internal/order"
	"ticklist/internal/store"
)

type view int

const (
	viewOverview view = iota
	viewList
	viewArchive
)

type inputKind int

const (
	inputNone inputKind = iota
	inputNewList
	inputRenameList
	inputNewItem
	inputEditItem
	inputDeadline
)

type flashClearMsg struct{ seq int }

const flashDuration = 2 * time.Second

type appModel struct {
	db   *store.DB
	save func(*store.DB) error
	clk  model.Clock

	view   view
	cursor int // selected row in overview/archive
	itemAt int // selected row in the open checklist
	openID string

	input     textinput.Model
	inputKind inputKind
	editID    string // item targeted by edit/deadline input

	confirmDelete bool
	flash         string
	flashSeq      int

	width  int
	height int
}

func newAppModel(opts Options) appModel {
	ti := textinput.New()
	ti.CharLimit = 200
	clk := opts.Clock
	if clk == nil {
		clk = model.SystemClock{}
	}
	save := opts.Save
	if save == nil {
		save = func(*store.DB) error { return nil }
	}
	return appModel{
		db:    opts.DB,
		save:  save,
		clk:   clk,
		input: ti,
	}
}

func (m appModel) Init() tea.Cmd { return nil }

// rows returns the checklists behind the current overview/archive cursor.
func (m *appModel) rows() []model.Checklist {
	if m.view == viewArchive {
		return m.db.Archived()
	}
	return m.db.Visible()
}

func (m *appModel) selectedChecklist() (*model.Checklist, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil, false
	}
	return m.db.FindChecklist(rows[m.cursor].ID)
}

func (m *appModel) openChecklist() (*model.Checklist, bool) {
	return m.db.FindChecklist(m.openID)
}

// displayItems is the open checklist's item slice in display order.
func (m *appModel) displayItems() []model.ChecklistItem {
	c, ok := m.openChecklist()
	if !ok {
		return nil
	}
	return order.Display(c.Items, c.SortMode)
}

func (m *appModel) selectedItem() (model.ChecklistItem, bool) {
	items := m.displayItems()
	if m.itemAt < 0 || m.itemAt >= len(items) {
		return model.ChecklistItem{}, false
	}
	return items[m.itemAt], true
}

func (m *appModel) setFlash(msg string) tea.Cmd {
	m.flash = msg
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashClearMsg{seq: seq} })
}

// persist saves after a mutation; a failed save is surfaced but the session
// keeps running on the in-memory state.
func (m *appModel) persist() tea.Cmd {
	if err := m.save(m.db); err != nil {
		return m.setFlash("save failed: " + err.Error())
	}
	return nil
}

// mutateErrFlash turns the mutation error taxonomy into short user feedback.
func (m *appModel) mutateErrFlash(err error) tea.Cmd {
	var modeErr order.ModeError
	if errors.As(err, &modeErr) {
		return m.setFlash("manual reorder is off while sorted by deadline")
	}
	var archived mutate.ArchivedError
	if errors.As(err, &archived) {
		return m.setFlash("archived checklists are read-only")
	}
	return m.setFlash(err.Error())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case flashClearMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil
	case tea.KeyMsg:
		if m.inputKind != inputNone {
			return m.updateInput(msg)
		}
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		switch m.view {
		case viewList:
			return m.updateList(msg)
		default:
			return m.updateOverview(msg)
		}
	}
	return m, nil
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.inputKind = inputNone
		m.input.Blur()
		return m, nil
	case "enter":
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	kind := m.inputKind
	m.inputKind = inputNone
	m.input.Blur()
	m.input.SetValue("")

	switch kind {
	case inputNewList:
		c, err := mutate.CreateChecklist(m.db, value, "")
		if err != nil {
			return m, m.mutateErrFlash(err)
		}
		m.openID = c.ID
		m.view = viewList
		m.itemAt = 0
		return m, m.persist()
	case inputRenameList:
		res, err := mutate.RenameChecklist(m.db, m.openID, value)
		if err != nil {
			return m, m.mutateErrFlash(err)
		}
		if res.Changed {
			return m, m.persist()
		}
		return m, nil
	case inputNewItem:
		if _, err := mutate.AddItem(m.db, m.openID, value, ""); err != nil {
			return m, m.mutateErrFlash(err)
		}
		return m, m.persist()
	case inputEditItem:
		res, err := mutate.EditItemText(m.db, m.openID, m.editID, value)
		if err != nil {
			return m, m.mutateErrFlash(err)
		}
		if res.Changed {
			return m, m.persist()
		}
		return m, nil
	case inputDeadline:
		var err error
		if value == "" {
			_, err = mutate.ClearItemDeadline(m.db, m.openID, m.editID)
		} else {
			_, err = mutate.SetItemDeadline(m.db, m.openID, m.editID, value)
		}
		if err != nil {
			return m, m.mutateErrFlash(err)
		}
		return m, m.persist()
	}
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.confirmDelete = false
		c, ok := m.selectedChecklist()
		if !ok {
			return m, nil
		}
		if err := mutate.DeleteChecklist(m.db, c.ID); err != nil {
			return m, m.mutateErrFlash(err)
		}
		if m.cursor > 0 {
			m.cursor--
		}
		return m, m.persist()
	case "n", "esc", "ctrl+g":
		m.confirmDelete = false
		return m, nil
	}
	return m, nil
}

func (m appModel) updateOverview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if c, ok := m.selectedChecklist(); ok {
			m.openID = c.ID
			m.view = viewList
			m.itemAt = 0
		}
	case "n":
		if m.view == viewOverview {
			m.inputKind = inputNewList
			m.input.Placeholder = "Checklist title"
			m.input.Focus()
		}
	case "p":
		if m.view != viewOverview {
			break
		}
		if c, ok := m.selectedChecklist(); ok {
			res, err := mutate.SetPinned(m.db, c.ID, !c.Pinned)
			if err != nil {
				return m, m.mutateErrFlash(err)
			}
			if res.Changed {
				return m, m.persist()
			}
		}
	case "A":
		c, ok := m.selectedChecklist()
		if !ok {
			break
		}
		var err error
		var res mutate.ChecklistResult
		if m.view == viewArchive {
			res, err = mutate.RestoreChecklist(m.db, c.ID)
		} else {
			res, err = mutate.ArchiveChecklist(m.db, c.ID, m.clk)
		}
		if err != nil {
			return m, m.mutateErrFlash(err)
		}
		if m.cursor >= len(m.rows()) && m.cursor > 0 {
			m.cursor--
		}
		if res.Changed {
			return m, m.persist()
		}
	case "D":
		if m.view != viewArchive {
			return m, m.setFlash("only archived checklists can be deleted")
		}
		if _, ok := m.selectedChecklist(); ok {
			m.confirmDelete = true
		}
	case "z":
		if m.view == viewArchive {
			m.view = viewOverview
		} else {
			m.view = viewArchive
		}
		m.cursor = 0
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c, ok := m.openChecklist()
	if !ok {
		m.view = viewOverview
		return m, nil
	}
	items := m.displayItems()

	switch msg.String() {
	case "q", "esc":
		m.view = viewOverview
		if c.Archived {
			m.view = viewArchive
		}
		m.cursor = 0
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.itemAt < len(items)-1 {
			m.itemAt++
		}
	case "k", "up":
		if m.itemAt > 0 {
			m.itemAt--
		}
	case " ", "x":
		if it, ok := m.selectedItem(); ok {
			if _, err := mutate.ToggleItem(m.db, c.ID, it.ID); err != nil {
				return m, m.mutateErrFlash(err)
			}
			return m, m.persist()
		}
	case "a":
		if c.Archived {
			return m, m.setFlash("archived checklists are read-only")
		}
		m.inputKind = inputNewItem
		m.input.Placeholder = "Item text"
		m.input.Focus()
	case "e":
		if it, ok := m.selectedItem(); ok {
			if c.Archived {
				return m, m.setFlash("archived checklists are read-only")
			}
			m.inputKind = inputEditItem
			m.editID = it.ID
			m.input.Placeholder = "Item text"
			m.input.SetValue(it.Text)
			m.input.Focus()
		}
	case "t":
		if it, ok := m.selectedItem(); ok {
			if c.Archived {
				return m, m.setFlash("archived checklists are read-only")
			}
			m.inputKind = inputDeadline
			m.editID = it.ID
			m.input.Placeholder = "YYYY-MM-DD (empty clears)"
			if it.Deadline != nil {
				m.input.SetValue(it.Deadline.String())
			}
			m.input.Focus()
		}
	case "d":
		if it, ok := m.selectedItem(); ok {
			if _, err := mutate.RemoveItem(m.db, c.ID, it.ID); err != nil {
				return m, m.mutateErrFlash(err)
			}
			if m.itemAt > 0 {
				m.itemAt--
			}
			return m, m.persist()
		}
	case "J":
		return m.moveItem(c, 1)
	case "K":
		return m.moveItem(c, -1)
	case "s":
		res, err := mutate.SetSortMode(m.db, c.ID, nextSortMode(c.SortMode))
		if err != nil {
			return m, m.mutateErrFlash(err)
		}
		m.itemAt = 0
		if res.Changed {
			return m, m.persist()
		}
	case "c":
		n, err := mutate.ClearCompleted(m.db, c.ID)
		if err != nil {
			return m, m.mutateErrFlash(err)
		}
		m.itemAt = 0
		if n > 0 {
			return m, m.persist()
		}
	case "r":
		if c.Archived {
			return m, m.setFlash("archived checklists are read-only")
		}
		m.inputKind = inputRenameList
		m.input.Placeholder = "Checklist title"
		m.input.SetValue(c.Title)
		m.input.Focus()
	case "A":
		var err error
		if c.Archived {
			_, err = mutate.RestoreChecklist(m.db, c.ID)
		} else {
			_, err = mutate.ArchiveChecklist(m.db, c.ID, m.clk)
		}
		if err != nil {
			return m, m.mutateErrFlash(err)
		}
		m.view = viewOverview
		m.cursor = 0
		return m, m.persist()
	}
	return m, nil
}

func (m appModel) moveItem(c *model.Checklist, delta int) (tea.Model, tea.Cmd) {
	from := m.itemAt
	to := from + delta
	if to < 0 || to >= len(c.Items) {
		return m, nil
	}
	// Under manual mode the display order is the stored order, so display
	// indexes address the stored slice directly.
	if _, err := mutate.MoveItem(m.db, c.ID, from, to); err != nil {
		return m, m.mutateErrFlash(err)
	}
	m.itemAt = to
	return m, m.persist()
}

func nextSortMode(mode model.SortMode) model.SortMode {
	switch mode {
	case model.SortManual:
		return model.SortDeadlineAsc
	case model.SortDeadlineAsc:
		return model.SortDeadlineDesc
	default:
		return model.SortManual
	}
}

func (m appModel) footerHelp() string {
	switch {
	case m.confirmDelete:
		return "y/enter: delete forever   n/esc: cancel"
	case m.inputKind != inputNone:
		return "enter: confirm   esc: cancel"
	case m.view == viewList:
		return "space: toggle  a: add  e: edit  t: deadline  J/K: move  s: sort  A: archive  q: back"
	case m.view == viewArchive:
		return "enter: open  A: restore  D: delete  z: back  q: quit"
	default:
		return "enter: open  n: new  p: pin  A: archive  z: archive view  q: quit"
	}
}

func formatDeadline(d *model.Date, today model.Date) string {
	if d == nil {
		return ""
	}
	switch {
	case *d == today:
		return "due today"
	case d.Before(today):
		return fmt.Sprintf("overdue %s", d)
	default:
		return d.String()
	}
}
