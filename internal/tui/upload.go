package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"crisp/internal/resume"
	"crisp/internal/store"
)

// resumeParsedMsg is sent when resume parsing finishes.
type resumeParsedMsg struct {
	candidate *store.Candidate
	err       error
}

type uploadModel struct {
	cfg     Config
	picker  filepicker.Model
	spinner spinner.Model
	parsing bool
	errText string
}

func newUploadModel(cfg Config) uploadModel {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".docx"}
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	return uploadModel{cfg: cfg, picker: fp, spinner: sp}
}

func (m uploadModel) Init() tea.Cmd {
	return m.picker.Init()
}

func parseResume(cfg Config, path string) tea.Cmd {
	return func() tea.Msg {
		parsed, err := resume.Parse(path)
		if err != nil {
			// No candidate record is created on a failed parse.
			return resumeParsedMsg{err: err}
		}
		return resumeParsedMsg{candidate: cfg.Machine.CreateFromResume(parsed)}
	}
}

func (m uploadModel) Update(msg tea.Msg) (uploadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case resumeParsedMsg:
		m.parsing = false
		if msg.err != nil {
			m.errText = msg.err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		if m.parsing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.parsing {
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		// Reject unsupported types before any parsing happens.
		if resume.MediaType(path) == "" {
			m.errText = resume.ErrUnsupportedType.Error()
			return m, cmd
		}
		m.errText = ""
		m.parsing = true
		return m, tea.Batch(cmd, m.spinner.Tick, parseResume(m.cfg, path))
	}
	if ok, _ := m.picker.DidSelectDisabledFile(msg); ok {
		m.errText = resume.ErrUnsupportedType.Error()
	}

	return m, cmd
}

func (m uploadModel) View() string {
	s := titleStyle.Render("  Upload Your Resume") + "\n"
	s += subtitleStyle.Render("  We accept PDF and DOCX. Your interview starts after your details are confirmed.") + "\n\n"

	if m.parsing {
		s += "  " + m.spinner.View() + " " + dimStyle.Render("Parsing your resume...") + "\n"
		return s
	}

	s += m.picker.View() + "\n"
	if m.errText != "" {
		s += errorStyle.Render("  "+m.errText) + "\n"
	}
	s += helpStyle.Render("  ↑/↓ navigate • enter select") + "\n"
	return s
}
