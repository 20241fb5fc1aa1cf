package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// resumeSessionMsg continues an interrupted interview.
type resumeSessionMsg struct{}

// startOverMsg resets the current candidate and returns to upload.
type startOverMsg struct{}

// welcomeModel greets a returning candidate whose interview is still in
// progress: resume where they left off, or start over.
type welcomeModel struct {
	cursor int
}

func newWelcomeModel() welcomeModel {
	return welcomeModel{}
}

func (m welcomeModel) Update(msg tea.Msg) (welcomeModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k", "down", "j":
		m.cursor = 1 - m.cursor
	case "enter":
		if m.cursor == 0 {
			return m, func() tea.Msg { return resumeSessionMsg{} }
		}
		return m, func() tea.Msg { return welcomeStartOverMsg{} }
	}
	return m, nil
}

// welcomeStartOverMsg is internal: the root model owns the actual reset so
// the welcome screen needs no store access.
type welcomeStartOverMsg struct{}

func (m welcomeModel) View() string {
	s := titleStyle.Render("  Welcome Back!") + "\n\n"
	s += "  It looks like you have an interview in progress.\n"
	s += "  You can resume where you left off or start over with a new session.\n\n"

	options := []string{"Resume Interview", "Start Over"}
	for i, opt := range options {
		cursor := "  "
		style := dimStyle
		if i == m.cursor {
			cursor = "▸ "
			style = selectedStyle
		}
		s += "  " + cursor + style.Render(opt) + "\n"
	}
	s += "\n" + helpStyle.Render("  ↑/↓ choose • enter confirm") + "\n"
	return s
}
