package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must stay readable on both light and dark terminal backgrounds, so
// colors are lipgloss.AdaptiveColor pairs. A persisted theme preference
// overrides background detection, which is unreliable inside multiplexers.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorDone       lipgloss.TerminalColor = ac("28", "71")
	colorOverdue    lipgloss.TerminalColor = ac("124", "167")
	colorFlashBg    lipgloss.TerminalColor = ac("196", "160")
	colorFlashFg    lipgloss.TerminalColor = ac("255", "255")
	colorPin        lipgloss.TerminalColor = ac("130", "179")
)

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg)
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func styleFlash() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorFlashFg).Background(colorFlashBg).Padding(0, 1)
}

// applyThemePreference applies the persisted theme before the program
// starts. NO_COLOR always wins.
func applyThemePreference(theme string) {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	switch strings.TrimSpace(strings.ToLower(theme)) {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}
