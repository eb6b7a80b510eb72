package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"ticklist/internal/model"
)

func (m appModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	switch m.view {
	case viewList:
		m.renderListView(&b, width)
	default:
		m.renderOverview(&b, width)
	}

	if m.inputKind != inputNone {
		b.WriteString("\n> " + m.input.View() + "\n")
	}
	if m.confirmDelete {
		if c, ok := m.selectedChecklist(); ok {
			b.WriteString("\n" + styleFlash().Render(fmt.Sprintf("Delete %q forever? This cannot be undone.", c.Title)) + "\n")
		}
	}
	if m.flash != "" {
		b.WriteString("\n" + styleFlash().Render(m.flash) + "\n")
	}
	b.WriteString("\n" + styleMuted().Render(m.footerHelp()))
	return b.String()
}

func (m appModel) renderOverview(b *strings.Builder, width int) {
	title := "Checklists"
	if m.view == viewArchive {
		title = "Archive"
	}
	b.WriteString(styleTitle().Render(title) + "\n\n")

	rows := m.rows()
	if len(rows) == 0 {
		hint := "No checklists yet. Press n to create one."
		if m.view == viewArchive {
			hint = "The archive is empty."
		}
		b.WriteString(styleMuted().Render(hint) + "\n")
		return
	}
	for i, c := range rows {
		b.WriteString(m.renderChecklistRow(c, i == m.cursor, width) + "\n")
	}
}

func (m appModel) renderChecklistRow(c model.Checklist, selected bool, width int) string {
	st := c.StatsAt(m.clk)
	marker := "  "
	if c.Pinned {
		marker = lipgloss.NewStyle().Foreground(colorPin).Render("* ")
	}
	meta := fmt.Sprintf("%d/%d", st.CompletedItems, st.TotalItems)
	if st.DueToday > 0 {
		meta += fmt.Sprintf("  %d due today", st.DueToday)
	}
	line := fmt.Sprintf("%s%s  %s", marker, c.Title, styleMuted().Render(meta))
	line = truncateRow(line, width)
	if selected {
		return styleSelected().Render(line)
	}
	return line
}

func (m appModel) renderListView(b *strings.Builder, width int) {
	c, ok := m.openChecklist()
	if !ok {
		return
	}
	header := c.Title
	if c.Archived {
		header += "  " + styleMuted().Render("(archived, read-only)")
	}
	b.WriteString(styleTitle().Render(header) + "\n")
	b.WriteString(styleMuted().Render("sort: "+string(c.SortMode)) + "\n\n")

	items := m.displayItems()
	if len(items) == 0 {
		b.WriteString(styleMuted().Render("No items. Press a to add one.") + "\n")
	}
	today := model.Today(m.clk)
	for i, it := range items {
		b.WriteString(m.renderItemRow(it, today, i == m.itemAt, width) + "\n")
	}

	st := c.StatsAt(m.clk)
	b.WriteString("\n" + styleMuted().Render(fmt.Sprintf("%d of %d done", st.CompletedItems, st.TotalItems)))
}

func (m appModel) renderItemRow(it model.ChecklistItem, today model.Date, selected bool, width int) string {
	box := "[ ]"
	text := it.Text
	if it.Done {
		box = lipgloss.NewStyle().Foreground(colorDone).Render("[x]")
		text = styleMuted().Strikethrough(true).Render(text)
	}
	line := fmt.Sprintf("%s %s", box, text)
	if due := formatDeadline(it.Deadline, today); due != "" {
		style := styleMuted()
		if it.Deadline.Before(today) || *it.Deadline == today {
			style = lipgloss.NewStyle().Foreground(colorOverdue)
		}
		line += "  " + style.Render(due)
	}
	line = truncateRow(line, width)
	if selected {
		return styleSelected().Render(line)
	}
	return line
}

// truncateRow clips a styled line to the terminal width without letting ANSI
// styling bleed into the next row.
func truncateRow(line string, width int) string {
	if width <= 0 || xansi.StringWidth(line) <= width {
		return line
	}
	return xansi.Cut(line, 0, width-1) + "\x1b[0m…"
}
