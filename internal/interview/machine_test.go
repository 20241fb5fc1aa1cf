package interview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"crisp/internal/llm"
	"crisp/internal/resume"
	"crisp/internal/store"
)

// fakeOracle scripts the external service for tests.
type fakeOracle struct {
	mu            sync.Mutex
	questionCalls int
	evalCalls     int

	questions []store.Question
	qErr      error
	eval      *llm.Evaluation
	evalErr   error
	// onQuestions and onEvaluate run inside the oracle calls, before they
	// return, to simulate state changes while the call is suspended.
	onQuestions func()
	onEvaluate  func()
}

func (f *fakeOracle) GenerateQuestions(ctx context.Context, resumeText string) ([]store.Question, error) {
	f.mu.Lock()
	f.questionCalls++
	f.mu.Unlock()
	if f.onQuestions != nil {
		f.onQuestions()
	}
	if f.qErr != nil {
		return nil, f.qErr
	}
	if f.questions != nil {
		return f.questions, nil
	}
	return llm.FallbackQuestions(), nil
}

func (f *fakeOracle) GenerateEvaluation(ctx context.Context, c *store.Candidate) (*llm.Evaluation, error) {
	f.mu.Lock()
	f.evalCalls++
	f.mu.Unlock()
	if f.onEvaluate != nil {
		f.onEvaluate()
	}
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	return f.eval, nil
}

func (f *fakeOracle) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.questionCalls, f.evalCalls
}

func newTestMachine(t *testing.T, oracle *fakeOracle) (*Machine, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return New(st, oracle), st
}

func fullParse() *resume.Parsed {
	return &resume.Parsed{
		Text:  "Jane Doe\njane@example.com\n(123) 456-7890\nReact and Node.js",
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "(123) 456-7890",
	}
}

func startInterview(t *testing.T, m *Machine) *store.Candidate {
	t.Helper()
	c := m.CreateFromResume(fullParse())
	started, err := m.Start(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return started
}

func TestCreateFromResumeCompleteContactsSkipsCollecting(t *testing.T) {
	m, st := newTestMachine(t, &fakeOracle{})

	c := m.CreateFromResume(fullParse())

	if c.InterviewState != store.StateReadyToStart {
		t.Errorf("InterviewState = %q, want %q", c.InterviewState, store.StateReadyToStart)
	}
	if st.CurrentID() != c.ID {
		t.Error("new candidate is not current")
	}
}

func TestCreateFromResumeMissingFieldRoutesToCollecting(t *testing.T) {
	m, _ := newTestMachine(t, &fakeOracle{})

	p := fullParse()
	p.Phone = ""
	c := m.CreateFromResume(p)

	if c.InterviewState != store.StateCollectingInfo {
		t.Errorf("InterviewState = %q, want %q", c.InterviewState, store.StateCollectingInfo)
	}
}

func TestConfirmInfoValidation(t *testing.T) {
	m, _ := newTestMachine(t, &fakeOracle{})
	p := fullParse()
	p.Name = ""
	c := m.CreateFromResume(p)

	fieldErrs, err := m.ConfirmInfo(c.ID, "J", "not-an-email", "123")
	if err != nil {
		t.Fatalf("ConfirmInfo: %v", err)
	}
	for _, field := range []string{"name", "email", "phone"} {
		if fieldErrs[field] == "" {
			t.Errorf("expected a field error for %q", field)
		}
	}

	// Failed validation blocks the transition.
	got, _ := m.store.Get(c.ID)
	if got.InterviewState != store.StateCollectingInfo {
		t.Errorf("InterviewState = %q, want %q", got.InterviewState, store.StateCollectingInfo)
	}

	fieldErrs, err = m.ConfirmInfo(c.ID, "Jane Doe", "jane@example.com", "1234567890")
	if err != nil || len(fieldErrs) > 0 {
		t.Fatalf("valid ConfirmInfo: errs=%v err=%v", fieldErrs, err)
	}
	got, _ = m.store.Get(c.ID)
	if got.InterviewState != store.StateReadyToStart {
		t.Errorf("InterviewState = %q, want %q", got.InterviewState, store.StateReadyToStart)
	}
}

func TestConfirmInfoOutsideCollectingRefused(t *testing.T) {
	m, _ := newTestMachine(t, &fakeOracle{})
	c := m.CreateFromResume(fullParse())
	if c.InterviewState != store.StateReadyToStart {
		t.Fatalf("setup: InterviewState = %q", c.InterviewState)
	}

	if _, err := m.ConfirmInfo(c.ID, "Someone Else", "else@example.com", "0987654321"); !errors.Is(err, ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
	got, _ := m.store.Get(c.ID)
	if got.Name != "Jane Doe" {
		t.Errorf("contact fields mutated outside COLLECTING_INFO: %q", got.Name)
	}
}

func TestStartAssignsQuestionsAndFirstMessage(t *testing.T) {
	oracle := &fakeOracle{}
	m, _ := newTestMachine(t, oracle)

	c := startInterview(t, m)

	if c.InterviewState != store.StateInProgress {
		t.Errorf("InterviewState = %q, want %q", c.InterviewState, store.StateInProgress)
	}
	if len(c.Questions) != llm.QuestionCount {
		t.Fatalf("len(Questions) = %d, want %d", len(c.Questions), llm.QuestionCount)
	}
	if len(c.Messages) != 1 || c.Messages[0].Sender != store.SenderAI {
		t.Fatalf("want exactly one AI message, got %+v", c.Messages)
	}
	cd := m.Countdown()
	if !cd.Armed || cd.Remaining != c.Questions[0].Duration || cd.QuestionID != c.Questions[0].ID {
		t.Errorf("countdown not armed for first question: %+v", cd)
	}
}

func TestStartFailureLeavesReadyToStart(t *testing.T) {
	oracle := &fakeOracle{qErr: errors.New("boom")}
	m, _ := newTestMachine(t, oracle)
	c := m.CreateFromResume(fullParse())

	if _, err := m.Start(context.Background(), c.ID); err == nil {
		t.Fatal("Start should surface the oracle failure")
	}

	got, _ := m.store.Get(c.ID)
	if got.InterviewState != store.StateReadyToStart {
		t.Errorf("InterviewState = %q, want %q", got.InterviewState, store.StateReadyToStart)
	}
	if len(got.Questions) != 0 || len(got.Messages) != 0 {
		t.Error("failed start corrupted the record")
	}

	// The retry path works once the oracle recovers.
	oracle.qErr = nil
	if _, err := m.Start(context.Background(), c.ID); err != nil {
		t.Fatalf("retry Start: %v", err)
	}
}

func TestStartOutsideReadyToStartRefused(t *testing.T) {
	m, _ := newTestMachine(t, &fakeOracle{})
	c := startInterview(t, m)

	if _, err := m.Start(context.Background(), c.ID); !errors.Is(err, ErrNotReady) {
		t.Errorf("second Start err = %v, want ErrNotReady", err)
	}
}

func TestSubmitAnswerKeepsQuestionOrder(t *testing.T) {
	m, _ := newTestMachine(t, &fakeOracle{})
	c := startInterview(t, m)

	for i := 0; i < llm.QuestionCount; i++ {
		q, idx, ok := m.CurrentQuestion(c.ID)
		if !ok || idx != i {
			t.Fatalf("CurrentQuestion at step %d: idx=%d ok=%v", i, idx, ok)
		}
		updated, err := m.SubmitAnswer(c.ID, q.ID, "answer")
		if err != nil {
			t.Fatalf("SubmitAnswer %d: %v", i, err)
		}
		// Order invariant holds after every submission.
		for j, a := range updated.Answers {
			if a.QuestionID != updated.Questions[j].ID {
				t.Fatalf("answers[%d].QuestionID = %q, want %q", j, a.QuestionID, updated.Questions[j].ID)
			}
		}
		c = updated
	}

	if c.InterviewState != store.StateCompleted {
		t.Errorf("InterviewState = %q, want %q", c.InterviewState, store.StateCompleted)
	}
	if len(c.Answers) != len(c.Questions) {
		t.Errorf("answers %d != questions %d at completion", len(c.Answers), len(c.Questions))
	}
}

func TestSubmitAnswerIdempotentPerQuestion(t *testing.T) {
	m, _ := newTestMachine(t, &fakeOracle{})
	c := startInterview(t, m)

	q, _, _ := m.CurrentQuestion(c.ID)
	first, _ := m.SubmitAnswer(c.ID, q.ID, "answer one")
	again, _ := m.SubmitAnswer(c.ID, q.ID, "answer two")

	if len(again.Answers) != len(first.Answers) {
		t.Fatalf("re-submission appended an answer: %d vs %d", len(again.Answers), len(first.Answers))
	}
	if again.Answers[0].Text != "answer one" {
		t.Errorf("re-submission overwrote the answer: %q", again.Answers[0].Text)
	}
	if len(again.Messages) != len(first.Messages) {
		t.Error("re-submission appended messages")
	}
}

func TestSubmitAnswerEmptyBecomesPlaceholder(t *testing.T) {
	m, _ := newTestMachine(t, &fakeOracle{})
	c := startInterview(t, m)

	q, _, _ := m.CurrentQuestion(c.ID)
	updated, _ := m.SubmitAnswer(c.ID, q.ID, "")

	if updated.Answers[0].Text != NoAnswerPlaceholder {
		t.Errorf("Answers[0].Text = %q, want placeholder", updated.Answers[0].Text)
	}
	// The transcript shows the same placeholder.
	if updated.Messages[1].Text != NoAnswerPlaceholder {
		t.Errorf("Messages[1].Text = %q, want placeholder", updated.Messages[1].Text)
	}
}

func TestSubmitAnswerArmsNextQuestionCountdown(t *testing.T) {
	m, _ := newTestMachine(t, &fakeOracle{})
	c := startInterview(t, m)

	q, _, _ := m.CurrentQuestion(c.ID)
	before := m.Countdown().Generation
	updated, _ := m.SubmitAnswer(c.ID, q.ID, "answer")

	cd := m.Countdown()
	if cd.Generation == before {
		t.Error("countdown generation did not advance with the question")
	}
	if !cd.Armed || cd.QuestionID != updated.Questions[1].ID || cd.Remaining != updated.Questions[1].Duration {
		t.Errorf("countdown not armed for next question: %+v", cd)
	}
}

func TestCompletionDisarmsCountdown(t *testing.T) {
	m, _ := newTestMachine(t, &fakeOracle{})
	c := startInterview(t, m)

	for i := 0; i < llm.QuestionCount; i++ {
		q, _, _ := m.CurrentQuestion(c.ID)
		m.SubmitAnswer(c.ID, q.ID, "answer")
	}

	if cd := m.Countdown(); cd.Armed {
		t.Errorf("countdown still armed after completion: %+v", cd)
	}
}

func TestResetClearsInterviewKeepsContact(t *testing.T) {
	m, st := newTestMachine(t, &fakeOracle{})
	c := startInterview(t, m)
	q, _, _ := m.CurrentQuestion(c.ID)
	m.SubmitAnswer(c.ID, q.ID, "answer")

	if err := m.Reset(c.ID); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	got, _ := st.Get(c.ID)
	if got.InterviewState != store.StateAwaitingResume {
		t.Errorf("InterviewState = %q, want %q", got.InterviewState, store.StateAwaitingResume)
	}
	if got.Name != "Jane Doe" || got.Email != "jane@example.com" {
		t.Error("reset dropped contact fields")
	}
	if cd := m.Countdown(); cd.Armed {
		t.Error("reset left the countdown armed")
	}
}

func TestStaleStartResultDiscardedAfterReset(t *testing.T) {
	// Reset fires while the oracle call is suspended: the result must be
	// discarded rather than applied to the recycled record.
	oracle := &fakeOracle{}
	m, st := newTestMachine(t, oracle)
	c := m.CreateFromResume(fullParse())

	oracle.questions = llm.FallbackQuestions()
	oracle.onQuestions = func() { m.store.ResetInterview(c.ID) }

	if _, err := m.Start(context.Background(), c.ID); !errors.Is(err, ErrStaleResult) {
		t.Fatalf("Start err = %v, want ErrStaleResult", err)
	}
	got, _ := st.Get(c.ID)
	if len(got.Questions) != 0 {
		t.Error("stale questions were applied")
	}
}
