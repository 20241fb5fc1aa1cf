package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crisp/internal/interview"
	"crisp/internal/store"
)

// ViewState represents which screen is active.
type ViewState int

const (
	ViewUpload ViewState = iota
	ViewCollect
	ViewInterview
	ViewWelcomeBack
	ViewDashboard
)

// Config holds the collaborators passed from the CLI layer.
type Config struct {
	Store   *store.Store
	Machine *interview.Machine
}

// Model is the top-level Bubble Tea model. The interviewee screens derive
// from the current candidate's interview state; the dashboard is a
// read-only projection over the whole store.
type Model struct {
	cfg    Config
	state  ViewState
	width  int
	height int

	upload    uploadModel
	collect   collectModel
	chat      chatModel
	welcome   welcomeModel
	dashboard dashboardModel
}

// New creates the TUI model, restoring the persisted active view and
// landing on the screen matching the current candidate's state.
func New(cfg Config) Model {
	m := Model{
		cfg:       cfg,
		upload:    newUploadModel(cfg),
		collect:   newCollectModel(cfg),
		chat:      newChatModel(cfg),
		welcome:   newWelcomeModel(),
		dashboard: newDashboardModel(cfg),
	}
	m.state = m.initialView()
	return m
}

func (m Model) initialView() ViewState {
	if m.cfg.Store.ActiveView() == store.ViewInterviewer {
		return ViewDashboard
	}
	return m.intervieweeView()
}

// intervieweeView maps the current candidate's state to a screen. A session
// interrupted mid-interview gets the welcome-back prompt first.
func (m Model) intervieweeView() ViewState {
	c, ok := m.cfg.Store.Current()
	if !ok {
		return ViewUpload
	}
	switch c.InterviewState {
	case store.StateCollectingInfo:
		return ViewCollect
	case store.StateReadyToStart, store.StateCompleted:
		return ViewInterview
	case store.StateInProgress:
		return ViewWelcomeBack
	default:
		return ViewUpload
	}
}

func (m Model) Init() tea.Cmd {
	switch m.state {
	case ViewUpload:
		return m.upload.Init()
	case ViewDashboard:
		return m.dashboard.Init()
	case ViewInterview:
		return m.chat.Enter()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chat.resize(msg.Width, msg.Height)
		m.dashboard.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			return m.toggleView()
		}

	case resumeParsedMsg:
		var cmd tea.Cmd
		m.upload, cmd = m.upload.Update(msg)
		if msg.err != nil {
			return m, cmd
		}
		// Record created; route by extraction completeness.
		if msg.candidate.InterviewState == store.StateCollectingInfo {
			m.collect = newCollectModel(m.cfg)
			m.collect.prefill(msg.candidate)
			m.state = ViewCollect
			return m, nil
		}
		m.state = ViewInterview
		return m, m.chat.Enter()

	case infoConfirmedMsg:
		m.state = ViewInterview
		return m, m.chat.Enter()

	case welcomeStartOverMsg:
		if id := m.cfg.Store.CurrentID(); id != "" {
			m.cfg.Machine.Reset(id)
		}
		m.upload = newUploadModel(m.cfg)
		m.state = ViewUpload
		return m, m.upload.Init()

	case startOverMsg:
		m.upload = newUploadModel(m.cfg)
		m.state = ViewUpload
		return m, m.upload.Init()

	case resumeSessionMsg:
		m.state = ViewInterview
		return m, m.chat.Resume()
	}

	var cmd tea.Cmd
	switch m.state {
	case ViewUpload:
		m.upload, cmd = m.upload.Update(msg)
	case ViewCollect:
		m.collect, cmd = m.collect.Update(msg)
	case ViewInterview:
		m.chat, cmd = m.chat.Update(msg)
	case ViewWelcomeBack:
		m.welcome, cmd = m.welcome.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	}
	return m, cmd
}

// toggleView flips between the interviewee flow and the dashboard and
// persists the choice.
func (m Model) toggleView() (tea.Model, tea.Cmd) {
	if m.state == ViewDashboard {
		m.cfg.Store.SetActiveView(store.ViewInterviewee)
		m.state = m.intervieweeView()
		if m.state == ViewInterview {
			return m, m.chat.Enter()
		}
		if m.state == ViewUpload {
			return m, m.upload.Init()
		}
		return m, nil
	}
	m.cfg.Store.SetActiveView(store.ViewInterviewer)
	m.dashboard.refresh()
	m.state = ViewDashboard
	return m, nil
}

func (m Model) View() string {
	header := titleStyle.Render("  ◆ Crisp AI Interview")
	tab := "interviewee"
	if m.state == ViewDashboard {
		tab = "interviewer"
	}
	header += subtitleStyle.Render("  •  "+tab) + "\n" +
		helpStyle.Render("  tab switch view • ctrl+c quit") + "\n\n"

	var body string
	switch m.state {
	case ViewUpload:
		body = m.upload.View()
	case ViewCollect:
		body = m.collect.View()
	case ViewInterview:
		body = m.chat.View()
	case ViewWelcomeBack:
		body = m.welcome.View()
	case ViewDashboard:
		body = m.dashboard.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// Run starts the TUI program.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
