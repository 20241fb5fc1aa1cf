package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return st, dir
}

func seedCandidate(t *testing.T, st *Store) *Candidate {
	t.Helper()
	c := NewCandidate("Ada Lovelace", "ada@example.com", "555-010-2030", "resume text")
	st.Create(c)
	return c
}

func TestUpdateMergesPartialFields(t *testing.T) {
	st, _ := newTestStore(t)
	c := seedCandidate(t, st)

	name := "Grace Hopper"
	state := StateReadyToStart
	st.Update(c.ID, Patch{Name: &name, InterviewState: &state})

	got, ok := st.Get(c.ID)
	if !ok {
		t.Fatal("candidate disappeared")
	}
	if got.Name != "Grace Hopper" {
		t.Errorf("Name = %q, want Grace Hopper", got.Name)
	}
	if got.InterviewState != StateReadyToStart {
		t.Errorf("InterviewState = %q, want %q", got.InterviewState, StateReadyToStart)
	}
	// Untouched fields survive the merge.
	if got.Email != "ada@example.com" {
		t.Errorf("Email = %q, want ada@example.com", got.Email)
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	st, _ := newTestStore(t)
	seedCandidate(t, st)

	name := "nobody"
	st.Update("missing-id", Patch{Name: &name})

	if len(st.All()) != 1 {
		t.Fatalf("All() = %d candidates, want 1", len(st.All()))
	}
}

func TestAppendMessagePreservesOrder(t *testing.T) {
	st, _ := newTestStore(t)
	c := seedCandidate(t, st)

	st.AppendMessage(c.ID, NewMessage(SenderAI, "first question"))
	st.AppendMessage(c.ID, NewMessage(SenderUser, "my answer"))
	st.AppendMessage(c.ID, NewMessage(SenderAI, "second question"))

	got, _ := st.Get(c.ID)
	if len(got.Messages) != 3 {
		t.Fatalf("len(Messages) = %d, want 3", len(got.Messages))
	}
	wantTexts := []string{"first question", "my answer", "second question"}
	for i, w := range wantTexts {
		if got.Messages[i].Text != w {
			t.Errorf("Messages[%d].Text = %q, want %q", i, got.Messages[i].Text, w)
		}
	}
}

func TestResetInterviewPreservesIdentity(t *testing.T) {
	st, _ := newTestStore(t)
	c := seedCandidate(t, st)

	st.SetQuestions(c.ID, []Question{{ID: "q1", Text: "?", Difficulty: DifficultyEasy, Duration: 20}})
	st.AppendMessage(c.ID, NewMessage(SenderAI, "?"))
	st.AppendAnswer(c.ID, Answer{QuestionID: "q1", Text: "!"})
	score := 80.0
	summary := "good"
	state := StateCompleted
	st.Update(c.ID, Patch{FinalScore: &score, Summary: &summary, InterviewState: &state})
	st.SetCurrentID(c.ID)

	st.ResetInterview(c.ID)

	got, _ := st.Get(c.ID)
	if got.InterviewState != StateAwaitingResume {
		t.Errorf("InterviewState = %q, want %q", got.InterviewState, StateAwaitingResume)
	}
	if len(got.Messages) != 0 || len(got.Questions) != 0 || len(got.Answers) != 0 {
		t.Errorf("transcript not cleared: %d messages, %d questions, %d answers",
			len(got.Messages), len(got.Questions), len(got.Answers))
	}
	if got.FinalScore != 0 || got.Summary != "" {
		t.Errorf("score/summary not cleared: %v %q", got.FinalScore, got.Summary)
	}
	if got.Name != c.Name || got.Email != c.Email || got.Phone != c.Phone {
		t.Error("contact fields did not survive reset")
	}
	if got.ID != c.ID || !got.CreatedAt.Equal(c.CreatedAt) {
		t.Error("identity fields did not survive reset")
	}
	if got.ResumeText != "resume text" {
		t.Error("resume text did not survive reset")
	}
	if st.CurrentID() != "" {
		t.Errorf("CurrentID = %q, want empty after reset", st.CurrentID())
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	st, dir := newTestStore(t)
	c := seedCandidate(t, st)
	st.SetCurrentID(c.ID)
	st.SetActiveView(ViewInterviewer)
	st.AppendMessage(c.ID, NewMessage(SenderAI, "hello"))

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := reopened.Get(c.ID)
	if !ok {
		t.Fatal("candidate lost across restart")
	}
	if got.Name != c.Name || len(got.Messages) != 1 {
		t.Errorf("rehydrated candidate mismatch: %+v", got)
	}
	if reopened.CurrentID() != c.ID {
		t.Errorf("CurrentID = %q, want %q", reopened.CurrentID(), c.ID)
	}
	if reopened.ActiveView() != ViewInterviewer {
		t.Errorf("ActiveView = %q, want %q", reopened.ActiveView(), ViewInterviewer)
	}
}

func TestOpenToleratesUnknownFields(t *testing.T) {
	dir := t.TempDir()
	blob := `{
		"candidates": {
			"c1": {"id": "c1", "name": "Ada", "interviewState": "COMPLETED", "futureField": 42}
		},
		"currentCandidateId": "c1",
		"activeView": "interviewee",
		"schemaVersion": 9
	}`
	if err := os.WriteFile(filepath.Join(dir, StorageFile), []byte(blob), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := Open(dir)
	if err != nil {
		t.Fatalf("Open with unknown fields: %v", err)
	}
	got, ok := st.Get("c1")
	if !ok || got.Name != "Ada" {
		t.Fatalf("Get(c1) = %+v, %v", got, ok)
	}
}

func TestAllSortsByScoreDescending(t *testing.T) {
	st, _ := newTestStore(t)

	for i, score := range []float64{40, 90, 70} {
		c := NewCandidate("c", "c@example.com", "5550102030", "r")
		c.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		st.Create(c)
		st.Update(c.ID, Patch{FinalScore: &score})
	}

	all := st.All()
	if len(all) != 3 {
		t.Fatalf("len(All) = %d, want 3", len(all))
	}
	if all[0].FinalScore != 90 || all[1].FinalScore != 70 || all[2].FinalScore != 40 {
		t.Errorf("scores out of order: %v %v %v", all[0].FinalScore, all[1].FinalScore, all[2].FinalScore)
	}
}

func TestGetReturnsCopies(t *testing.T) {
	st, _ := newTestStore(t)
	c := seedCandidate(t, st)
	st.AppendMessage(c.ID, NewMessage(SenderAI, "original"))

	got, _ := st.Get(c.ID)
	got.Messages[0].Text = "mutated"
	got.Name = "mutated"

	again, _ := st.Get(c.ID)
	if again.Messages[0].Text != "original" || again.Name != "Ada Lovelace" {
		t.Error("Get leaked internal state to the caller")
	}
}
