package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crisp/internal/store"
)

// dashboardModel is the interviewer side: a ranked candidate table with a
// per-candidate detail screen. Strictly a read-only projection.
type dashboardModel struct {
	cfg        Config
	table      table.Model
	detail     viewport.Model
	candidates []*store.Candidate
	selected   *store.Candidate
	width      int
	height     int
}

func newDashboardModel(cfg Config) dashboardModel {
	columns := []table.Column{
		{Title: "Candidate", Width: 24},
		{Title: "Status", Width: 16},
		{Title: "Score", Width: 10},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("212"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	m := dashboardModel{cfg: cfg, table: t}
	m.refresh()
	return m
}

func (m *dashboardModel) resize(width, height int) {
	m.width = width
	m.height = height
	h := height - 8
	if h < 5 {
		h = 5
	}
	m.table.SetHeight(h)
	m.detail = viewport.New(width-4, h)
	if m.selected != nil {
		m.detail.SetContent(m.renderDetail(m.selected))
	}
}

// refresh reloads the ranked candidate list from the store.
func (m *dashboardModel) refresh() {
	m.candidates = m.cfg.Store.All()
	rows := make([]table.Row, 0, len(m.candidates))
	for _, c := range m.candidates {
		name := c.Name
		if name == "" {
			name = "N/A"
		}
		score := "N/A"
		if c.FinalScore > 0 {
			score = fmt.Sprintf("%.0f / 100", c.FinalScore)
		}
		rows = append(rows, table.Row{
			name,
			strings.ReplaceAll(string(c.InterviewState), "_", " "),
			score,
			c.CreatedAt.Format("Jan 2, 2006"),
		})
	}
	m.table.SetRows(rows)
}

func (m dashboardModel) Init() tea.Cmd {
	return nil
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.selected != nil {
			switch key.String() {
			case "esc", "q", "backspace":
				m.selected = nil
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}

		switch key.String() {
		case "enter":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.candidates) {
				m.selected = m.candidates[idx]
				m.detail.SetContent(m.renderDetail(m.selected))
				m.detail.GotoTop()
			}
			return m, nil
		case "r":
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) renderDetail(c *store.Candidate) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", titleStyle.Render(c.Name))
	fmt.Fprintf(&sb, "%s\n\n", subtitleStyle.Render(fmt.Sprintf("%s • %s • uploaded %s",
		c.Email, c.Phone, c.CreatedAt.Format("January 2, 2006"))))

	sb.WriteString(labelStyle.Render("AI Evaluation") + "\n")
	if c.Summary != "" {
		fmt.Fprintf(&sb, "%s\n", scoreStyle.Render(fmt.Sprintf("Final Score: %.0f / 100", c.FinalScore)))
		fmt.Fprintf(&sb, "%s\n\n", aiMsgStyle.Render(c.Summary))
	} else {
		sb.WriteString(dimStyle.Render("Not evaluated yet.") + "\n\n")
	}

	sb.WriteString(labelStyle.Render("Interview Transcript") + "\n\n")
	answerIdx := 0
	for _, msg := range c.Messages {
		if msg.Sender == store.SenderUser {
			sb.WriteString(userMsgStyle.Render("Candidate: ") + msg.Text + "\n")
			if answerIdx < len(c.Answers) {
				a := c.Answers[answerIdx]
				if a.Score != nil {
					fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("  Feedback: %s (Score: %.0f/10)", a.Feedback, *a.Score)))
				}
				answerIdx++
			}
			sb.WriteString("\n")
		} else {
			sb.WriteString(aiMsgStyle.Render("Interviewer: "+msg.Text) + "\n\n")
		}
	}

	sb.WriteString(labelStyle.Render("Resume") + "\n")
	sb.WriteString(dimStyle.Render(c.ResumeText) + "\n")

	return sb.String()
}

func (m dashboardModel) View() string {
	if m.selected != nil {
		return m.detail.View() + "\n" +
			helpStyle.Render("  ↑/↓ scroll • esc back") + "\n"
	}

	s := titleStyle.Render("  Candidate Dashboard") + "\n\n"
	if len(m.candidates) == 0 {
		s += dimStyle.Render("  No candidates yet.") + "\n"
		return s
	}
	s += m.table.View() + "\n"
	s += helpStyle.Render("  ↑/↓ navigate • enter details • r refresh") + "\n"
	return s
}
