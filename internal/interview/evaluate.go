package interview

import (
	"context"
	"fmt"

	"crisp/internal/store"
)

// Evaluate runs the one-shot final scoring for a completed interview. It is
// safe to call on every render: scoring only runs when the candidate is
// COMPLETED with an empty summary and no attempt already in flight, and any
// other call returns ErrEvaluationSkipped without touching state.
//
// On success the overall score and summary are merged into the record and
// per-answer feedback is merged by question id; answers the oracle did not
// cover stay unscored. On failure the in-flight reservation is released so
// a manual retry can run, and the record keeps its zero score and empty
// summary.
func (m *Machine) Evaluate(ctx context.Context, id string) (*store.Candidate, error) {
	if !m.beginEvaluation(id) {
		return nil, ErrEvaluationSkipped
	}

	c, _ := m.store.Get(id)
	ev, err := m.oracle.GenerateEvaluation(ctx, c)
	if err != nil {
		m.endEvaluation(id)
		return nil, fmt.Errorf("evaluate interview: %w", err)
	}

	// Suspended during the oracle call: discard the result if the
	// candidate was reset or scored through another path meanwhile.
	cur, ok := m.store.Get(id)
	if !ok || cur.InterviewState != store.StateCompleted || cur.Summary != "" {
		m.endEvaluation(id)
		return nil, ErrStaleResult
	}

	feedback := make(map[string]int, len(ev.AnswerFeedback))
	for i, f := range ev.AnswerFeedback {
		feedback[f.QuestionID] = i
	}
	answers := cur.Answers
	for i, a := range answers {
		if j, ok := feedback[a.QuestionID]; ok {
			score := ev.AnswerFeedback[j].Score
			answers[i].Score = &score
			answers[i].Feedback = ev.AnswerFeedback[j].Feedback
		}
	}

	m.store.Update(id, store.Patch{
		FinalScore: &ev.FinalScore,
		Summary:    &ev.Summary,
		Answers:    answers,
	})
	m.endEvaluation(id)

	updated, _ := m.store.Get(id)
	return updated, nil
}

// beginEvaluation reserves the single scoring slot for a candidate. It
// refuses when scoring is not due or another attempt is in flight.
func (m *Machine) beginEvaluation(id string) bool {
	c, ok := m.store.Get(id)
	if !ok || c.InterviewState != store.StateCompleted || c.Summary != "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, running := m.evaluating[id]; running {
		return false
	}
	m.evaluating[id] = struct{}{}
	return true
}

func (m *Machine) endEvaluation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.evaluating, id)
}

// EvaluationInFlight reports whether a scoring attempt is running for the
// candidate. The UI uses it for its pending indicator.
func (m *Machine) EvaluationInFlight(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, running := m.evaluating[id]
	return running
}
