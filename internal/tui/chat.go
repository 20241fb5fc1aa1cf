package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"crisp/internal/interview"
	"crisp/internal/store"
)

// interviewStartedMsg is sent when question generation finishes.
type interviewStartedMsg struct {
	candidate *store.Candidate
	err       error
}

// evaluationDoneMsg is sent when final scoring finishes.
type evaluationDoneMsg struct {
	candidate *store.Candidate
	err       error
}

// countdownTickMsg carries the generation it was scheduled against so ticks
// from a superseded countdown are discarded.
type countdownTickMsg struct {
	generation int
}

// chatModel covers the READY_TO_START, IN_PROGRESS, and COMPLETED screens.
type chatModel struct {
	cfg       Config
	cand      *store.Candidate
	viewport  viewport.Model
	input     textarea.Model
	spinner   spinner.Model
	progress  progress.Model
	renderer  *glamour.TermRenderer
	remaining int
	starting  bool
	timedUp   bool
	startErr  string
	evalErr   string
	width     int
	height    int
	ready     bool
}

func newChatModel(cfg Config) chatModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	ta := textarea.New()
	ta.Placeholder = "Type your answer here..."
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	return chatModel{
		cfg:      cfg,
		spinner:  sp,
		input:    ta,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (m *chatModel) resize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - 12
	if vpHeight < 5 {
		vpHeight = 5
	}
	m.viewport = viewport.New(width-4, vpHeight)
	m.input.SetWidth(width - 6)
	m.progress.Width = width - 20

	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-6),
	); err == nil {
		m.renderer = r
	}

	m.ready = true
	m.refreshTranscript()
}

// refresh reloads the cached candidate from the store.
func (m *chatModel) refresh() {
	if c, ok := m.cfg.Store.Current(); ok {
		m.cand = c
	}
}

// Enter is called whenever the interviewee flow lands on this screen. It
// re-triggers final scoring when a completed candidate still has no
// summary, which is safe to do on every entry: the machine's in-flight
// guard ensures at most one oracle call.
func (m *chatModel) Enter() tea.Cmd {
	m.refresh()
	m.refreshTranscript()
	if m.cand == nil {
		return nil
	}
	if m.cand.InterviewState == store.StateCompleted && m.cand.Summary == "" {
		return tea.Batch(m.spinner.Tick, evaluate(m.cfg, m.cand.ID))
	}
	if m.cand.InterviewState == store.StateInProgress {
		return m.Resume()
	}
	return nil
}

// Resume re-arms the countdown for the current question at full duration
// after a restart and begins ticking.
func (m *chatModel) Resume() tea.Cmd {
	m.refresh()
	m.refreshTranscript()
	if m.cand == nil {
		return nil
	}
	cd, ok := m.cfg.Machine.RearmCountdown(m.cand.ID)
	if !ok {
		return nil
	}
	m.remaining = cd.Remaining
	m.input.Focus()
	return tea.Batch(textarea.Blink, tickCountdown(cd.Generation))
}

func tickCountdown(generation int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{generation: generation}
	})
}

func startInterview(cfg Config, id string) tea.Cmd {
	return func() tea.Msg {
		c, err := cfg.Machine.Start(context.Background(), id)
		return interviewStartedMsg{candidate: c, err: err}
	}
}

func evaluate(cfg Config, id string) tea.Cmd {
	return func() tea.Msg {
		c, err := cfg.Machine.Evaluate(context.Background(), id)
		return evaluationDoneMsg{candidate: c, err: err}
	}
}

func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case interviewStartedMsg:
		m.starting = false
		if msg.err != nil {
			if errors.Is(msg.err, interview.ErrStaleResult) {
				return m, nil
			}
			// Candidate is still READY_TO_START; the user may retry.
			m.startErr = "Failed to generate questions. Please try again."
			return m, nil
		}
		m.startErr = ""
		m.cand = msg.candidate
		m.refreshTranscript()
		m.input.Reset()
		m.input.Focus()
		cd := m.cfg.Machine.Countdown()
		m.remaining = cd.Remaining
		return m, tea.Batch(textarea.Blink, tickCountdown(cd.Generation))

	case evaluationDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, interview.ErrEvaluationSkipped) || errors.Is(msg.err, interview.ErrStaleResult) {
				return m, nil
			}
			m.evalErr = "The AI failed to generate a score. Press r to retry."
			return m, nil
		}
		m.evalErr = ""
		m.cand = msg.candidate
		m.refreshTranscript()
		return m, nil

	case countdownTickMsg:
		cd, expired, ok := m.cfg.Machine.TickCountdown(msg.generation)
		if !ok {
			return m, nil
		}
		m.remaining = cd.Remaining
		if expired {
			return m.submitAnswer(cd.QuestionID, true)
		}
		return m, tickCountdown(cd.Generation)

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateChildren(msg)
}

func (m chatModel) busy() bool {
	if m.starting {
		return true
	}
	return m.cand != nil && m.cfg.Machine.EvaluationInFlight(m.cand.ID)
}

func (m chatModel) handleKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	if m.cand == nil {
		return m, nil
	}

	switch m.cand.InterviewState {
	case store.StateReadyToStart:
		if msg.Type == tea.KeyEnter && !m.starting {
			m.starting = true
			m.startErr = ""
			return m, tea.Batch(m.spinner.Tick, startInterview(m.cfg, m.cand.ID))
		}
		return m, nil

	case store.StateInProgress:
		if msg.Type == tea.KeyEnter {
			q, _, ok := m.cfg.Machine.CurrentQuestion(m.cand.ID)
			if !ok {
				return m, nil
			}
			return m.submitAnswer(q.ID, false)
		}
		return m.updateChildren(msg)

	case store.StateCompleted:
		switch msg.String() {
		case "r":
			if m.evalErr != "" {
				m.evalErr = ""
				return m, tea.Batch(m.spinner.Tick, evaluate(m.cfg, m.cand.ID))
			}
		case "o":
			id := m.cand.ID
			m.cfg.Machine.Reset(id)
			return m, func() tea.Msg { return startOverMsg{} }
		}
		return m, nil
	}
	return m, nil
}

// submitAnswer runs the shared transition for manual submission and timer
// expiry; the two differ only in the time-up notice.
func (m chatModel) submitAnswer(questionID string, timedUp bool) (chatModel, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	cand, err := m.cfg.Machine.SubmitAnswer(m.cand.ID, questionID, text)
	if err != nil {
		return m, nil
	}
	m.cand = cand
	m.timedUp = timedUp
	m.input.Reset()
	m.refreshTranscript()

	if cand.InterviewState == store.StateCompleted {
		return m, tea.Batch(m.spinner.Tick, evaluate(m.cfg, cand.ID))
	}
	cd := m.cfg.Machine.Countdown()
	m.remaining = cd.Remaining
	return m, tickCountdown(cd.Generation)
}

func (m chatModel) updateChildren(msg tea.Msg) (chatModel, tea.Cmd) {
	var cmds []tea.Cmd
	if m.cand != nil && m.cand.InterviewState == store.StateInProgress {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *chatModel) refreshTranscript() {
	if !m.ready || m.cand == nil {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m chatModel) renderTranscript() string {
	var sb strings.Builder
	for _, msg := range m.cand.Messages {
		if msg.Sender == store.SenderUser {
			sb.WriteString(userMsgStyle.Render("You: ") + msg.Text + "\n\n")
		} else {
			sb.WriteString(aiMsgStyle.Render("Interviewer: "+msg.Text) + "\n\n")
		}
	}
	return sb.String()
}

func (m chatModel) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

func (m chatModel) View() string {
	if m.cand == nil {
		return dimStyle.Render("  No interview in progress.") + "\n"
	}

	switch m.cand.InterviewState {
	case store.StateReadyToStart:
		return m.viewReady()
	case store.StateCompleted:
		return m.viewCompleted()
	default:
		return m.viewInterview()
	}
}

func (m chatModel) viewReady() string {
	s := titleStyle.Render(fmt.Sprintf("  You're All Set, %s!", m.cand.Name)) + "\n\n"
	s += "  The interview consists of 6 questions with varying difficulty and timers.\n\n"
	if m.starting {
		s += "  " + m.spinner.View() + " " + dimStyle.Render("Generating interview questions...") + "\n"
		return s
	}
	if m.startErr != "" {
		s += errorStyle.Render("  "+m.startErr) + "\n\n"
	}
	s += selectedStyle.Render("  Press Enter to start the interview") + "\n"
	return s
}

func (m chatModel) viewInterview() string {
	total := len(m.cand.Questions)
	answered := len(m.cand.Answers)

	var header string
	if total > 0 {
		header = fmt.Sprintf("  %s %d / %d\n", m.progress.ViewAs(float64(answered)/float64(total)), answered, total)
	}

	q, _, ok := m.cfg.Machine.CurrentQuestion(m.cand.ID)
	var status string
	if ok {
		status = fmt.Sprintf("  %s  %s\n",
			difficultyBadge(q.Difficulty),
			timerStyle.Render(fmt.Sprintf("Time Left: %d:%02d", m.remaining/60, m.remaining%60)))
	}
	if m.timedUp {
		status += warnStyle.Render("  Time's up! Your answer was submitted.") + "\n"
	}

	return header + status + "\n" +
		m.viewport.View() + "\n" +
		m.input.View() + "\n" +
		helpStyle.Render("  enter submit answer") + "\n"
}

func (m chatModel) viewCompleted() string {
	s := titleStyle.Render("  Interview Complete!") + "\n\n"
	s += fmt.Sprintf("  Thank you for your time, %s.\n\n", m.cand.Name)

	if m.busy() {
		s += "  " + m.spinner.View() + " " + dimStyle.Render("AI is analyzing your answers...") + "\n"
		return s
	}
	if m.evalErr != "" {
		s += errorStyle.Render("  "+m.evalErr) + "\n"
		s += helpStyle.Render("  r retry analysis • o start over • tab dashboard") + "\n"
		return s
	}
	if m.cand.Summary != "" {
		s += m.renderMarkdown("## AI Summary & Score\n\n"+m.cand.Summary) + "\n\n"
		s += "  " + labelStyle.Render("Final Score: ") +
			scoreStyle.Render(fmt.Sprintf("%.0f / 100", m.cand.FinalScore)) + "\n\n"
	}
	s += helpStyle.Render("  o start over • tab view dashboard") + "\n"
	return s
}
