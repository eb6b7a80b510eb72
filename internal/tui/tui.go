package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"ticklist/internal/model"
	"ticklist/internal/store"
)

// Options configures the interactive session. Save is called after every
// successful mutation, so the terminal can be closed at any point without
// losing work.
type Options struct {
	DB    *store.DB
	Save  func(*store.DB) error
	Theme string
	Clock model.Clock
}

func Run(opts Options) error {
	applyThemePreference(opts.Theme)
	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
