// Package interview drives one candidate's progression from resume upload
// through timed question delivery to final scoring. All transitions mutate
// the candidate store synchronously; the two oracle calls are the only
// suspension points and their results are checked against current state
// before being applied.
package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"crisp/internal/llm"
	"crisp/internal/resume"
	"crisp/internal/store"
)

// Oracle is the external question/scoring service.
type Oracle interface {
	GenerateQuestions(ctx context.Context, resumeText string) ([]store.Question, error)
	GenerateEvaluation(ctx context.Context, c *store.Candidate) (*llm.Evaluation, error)
}

var (
	// ErrCandidateNotFound reports an unknown candidate id.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrNotReady reports a start attempt outside READY_TO_START.
	ErrNotReady = errors.New("interview is not ready to start")
	// ErrStaleResult reports an oracle result that arrived after the
	// candidate moved on; the result is discarded.
	ErrStaleResult = errors.New("stale oracle result discarded")
	// ErrEvaluationSkipped reports that scoring was not due or already in
	// flight; it is benign and carries no state change.
	ErrEvaluationSkipped = errors.New("evaluation not due")
)

// Transcript messages.
const (
	NoAnswerPlaceholder = "(No answer provided)"
	firstQuestionFmt    = "Let's begin. Here is your first question:\n\n%s"
	completionMessage   = "Thank you for completing the interview! I will now analyze your responses."
)

// Machine owns the interview state transitions for the store's candidates.
// The countdown handle and the evaluation in-flight set live here, beside
// the records rather than inside them, so neither is ever persisted.
type Machine struct {
	store  *store.Store
	oracle Oracle

	mu         sync.Mutex
	evaluating map[string]struct{}
	countdown  countdown
}

// New creates a machine over the given store and oracle.
func New(st *store.Store, oracle Oracle) *Machine {
	return &Machine{
		store:      st,
		oracle:     oracle,
		evaluating: map[string]struct{}{},
	}
}

// CreateFromResume inserts a new candidate from a parsed resume, makes it
// current, and routes it past AWAITING_RESUME: straight to READY_TO_START
// when all three contact fields were extracted, otherwise to
// COLLECTING_INFO for confirmation.
func (m *Machine) CreateFromResume(parsed *resume.Parsed) *store.Candidate {
	c := store.NewCandidate(parsed.Name, parsed.Email, parsed.Phone, parsed.Text)
	m.store.Create(c)
	m.store.SetCurrentID(c.ID)

	next := store.StateReadyToStart
	if parsed.Name == "" || parsed.Email == "" || parsed.Phone == "" {
		next = store.StateCollectingInfo
	}
	m.store.Update(c.ID, store.Patch{InterviewState: &next})

	updated, _ := m.store.Get(c.ID)
	return updated
}

// ConfirmInfo validates and applies the user-corrected contact fields. It
// only fires from COLLECTING_INFO, so contacts are correctable exactly once.
// Validation failures return field-level errors and leave the candidate in
// COLLECTING_INFO untouched.
func (m *Machine) ConfirmInfo(id, name, email, phone string) (FieldErrors, error) {
	c, ok := m.store.Get(id)
	if !ok {
		return nil, ErrCandidateNotFound
	}
	if c.InterviewState != store.StateCollectingInfo {
		return nil, ErrNotReady
	}
	if fieldErrs := ValidateContact(name, email, phone); len(fieldErrs) > 0 {
		return fieldErrs, nil
	}

	next := store.StateReadyToStart
	m.store.Update(id, store.Patch{
		Name:           &name,
		Email:          &email,
		Phone:          &phone,
		InterviewState: &next,
	})
	return nil, nil
}

// Start invokes the oracle for the question set and begins the interview:
// questions assigned, first question appended to the transcript, state to
// IN_PROGRESS, countdown armed. A failed attempt leaves the candidate in
// READY_TO_START for retry.
func (m *Machine) Start(ctx context.Context, id string) (*store.Candidate, error) {
	c, ok := m.store.Get(id)
	if !ok {
		return nil, ErrCandidateNotFound
	}
	if c.InterviewState != store.StateReadyToStart {
		return nil, ErrNotReady
	}

	questions, err := m.oracle.GenerateQuestions(ctx, c.ResumeText)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	// The oracle call suspended us; apply only if nothing moved meanwhile.
	cur, ok := m.store.Get(id)
	if !ok || cur.InterviewState != store.StateReadyToStart {
		return nil, ErrStaleResult
	}

	m.store.SetQuestions(id, questions)
	m.store.AppendMessage(id, store.NewMessage(store.SenderAI, fmt.Sprintf(firstQuestionFmt, questions[0].Text)))
	next := store.StateInProgress
	m.store.Update(id, store.Patch{InterviewState: &next})
	m.armCountdown(id, questions[0])

	updated, _ := m.store.Get(id)
	return updated, nil
}

// CurrentQuestion returns the not-yet-answered question, its index, and
// whether one exists. Answers are appended strictly in question order, so
// the current question is always questions[len(answers)].
func (m *Machine) CurrentQuestion(id string) (store.Question, int, bool) {
	c, ok := m.store.Get(id)
	if !ok || c.InterviewState != store.StateInProgress {
		return store.Question{}, 0, false
	}
	idx := len(c.Answers)
	if idx >= len(c.Questions) {
		return store.Question{}, 0, false
	}
	return c.Questions[idx], idx, true
}

// SubmitAnswer records the answer to questionID and advances the interview.
// It is idempotent per question: a question that already has a recorded
// answer, or that is not the current one, is a no-op. Empty input becomes
// the fixed placeholder. The manual path and the timer-expiry path both
// land here; they differ only in the notice the UI shows.
func (m *Machine) SubmitAnswer(id, questionID, text string) (*store.Candidate, error) {
	c, ok := m.store.Get(id)
	if !ok {
		return nil, ErrCandidateNotFound
	}
	if c.InterviewState != store.StateInProgress {
		return c, nil
	}

	idx := len(c.Answers)
	if idx >= len(c.Questions) || c.Questions[idx].ID != questionID {
		return c, nil
	}
	for _, a := range c.Answers {
		if a.QuestionID == questionID {
			return c, nil
		}
	}

	answerText := text
	if answerText == "" {
		answerText = NoAnswerPlaceholder
	}

	m.store.AppendMessage(id, store.NewMessage(store.SenderUser, answerText))
	m.store.AppendAnswer(id, store.Answer{QuestionID: questionID, Text: answerText})

	if idx+1 < len(c.Questions) {
		next := c.Questions[idx+1]
		m.store.AppendMessage(id, store.NewMessage(store.SenderAI, next.Text))
		m.armCountdown(id, next)
	} else {
		m.store.AppendMessage(id, store.NewMessage(store.SenderAI, completionMessage))
		completed := store.StateCompleted
		m.store.Update(id, store.Patch{InterviewState: &completed})
		m.DisarmCountdown()
	}

	updated, _ := m.store.Get(id)
	return updated, nil
}

// Reset is the only back-transition: any state returns to AWAITING_RESUME
// with the transcript, questions, answers, and score cleared while identity
// and contact fields survive. Pending countdowns and in-flight evaluations
// for the candidate are discarded.
func (m *Machine) Reset(id string) error {
	if _, ok := m.store.Get(id); !ok {
		return ErrCandidateNotFound
	}
	m.DisarmCountdown()
	m.mu.Lock()
	delete(m.evaluating, id)
	m.mu.Unlock()
	m.store.ResetInterview(id)
	return nil
}
