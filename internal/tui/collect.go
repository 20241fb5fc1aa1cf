package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"crisp/internal/interview"
	"crisp/internal/store"
)

// infoConfirmedMsg is sent when the contact fields pass validation.
type infoConfirmedMsg struct{}

const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldSubmit
)

// collectModel confirms or corrects the extracted contact details before
// the interview may start.
type collectModel struct {
	cfg         Config
	candidateID string
	inputs      []textinput.Model
	focus       int
	fieldErrs   interview.FieldErrors
}

func newCollectModel(cfg Config) collectModel {
	name := textinput.New()
	name.Placeholder = "John Doe"
	name.CharLimit = 100
	name.Focus()

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 100

	phone := textinput.New()
	phone.Placeholder = "(123) 456-7890"
	phone.CharLimit = 30

	return collectModel{
		cfg:    cfg,
		inputs: []textinput.Model{name, email, phone},
	}
}

// prefill seeds the form with whatever extraction found.
func (m *collectModel) prefill(c *store.Candidate) {
	m.candidateID = c.ID
	m.inputs[fieldName].SetValue(c.Name)
	m.inputs[fieldEmail].SetValue(c.Email)
	m.inputs[fieldPhone].SetValue(c.Phone)
}

func (m *collectModel) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m collectModel) Update(msg tea.Msg) (collectModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "shift+tab":
			if m.focus > fieldName {
				m.setFocus(m.focus - 1)
			}
			return m, nil
		case "down":
			if m.focus < fieldSubmit {
				m.setFocus(m.focus + 1)
			}
			return m, nil
		case "enter":
			if m.focus < fieldSubmit {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m.submit()
		}
	}

	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit validates and applies the contact fields. Validation failures keep
// the candidate collecting info and show field-level messages; the held
// form values survive.
func (m collectModel) submit() (collectModel, tea.Cmd) {
	fieldErrs, err := m.cfg.Machine.ConfirmInfo(
		m.candidateID,
		m.inputs[fieldName].Value(),
		m.inputs[fieldEmail].Value(),
		m.inputs[fieldPhone].Value(),
	)
	if err != nil {
		m.fieldErrs = interview.FieldErrors{"form": err.Error()}
		return m, nil
	}
	if len(fieldErrs) > 0 {
		m.fieldErrs = fieldErrs
		return m, nil
	}
	m.fieldErrs = nil
	return m, func() tea.Msg { return infoConfirmedMsg{} }
}

func (m collectModel) View() string {
	s := titleStyle.Render("  Confirm Your Details") + "\n"
	s += subtitleStyle.Render("  We extracted these from your resume. Please confirm or correct them.") + "\n\n"

	labels := []string{"Full Name", "Email", "Phone Number"}
	errKeys := []string{"name", "email", "phone"}
	for i, in := range m.inputs {
		s += "  " + labelStyle.Render(labels[i]) + "\n"
		s += "  " + in.View() + "\n"
		if msg, ok := m.fieldErrs[errKeys[i]]; ok {
			s += errorStyle.Render("  "+msg) + "\n"
		}
		s += "\n"
	}

	submit := "  Confirm and Start Interview  "
	if m.focus == fieldSubmit {
		submit = selectedStyle.Render("▸" + submit)
	} else {
		submit = dimStyle.Render(" " + submit)
	}
	s += submit + "\n"
	if msg, ok := m.fieldErrs["form"]; ok {
		s += errorStyle.Render("  "+msg) + "\n"
	}
	s += "\n" + helpStyle.Render("  ↑/↓ move • enter next/confirm") + "\n"
	return s
}
