package interview

import "crisp/internal/store"

// countdown is the single per-question timer handle. Only one may be armed
// at a time; arming a new one supersedes the old by bumping the generation,
// so ticks scheduled against a stale generation are discarded instead of
// mutating a record the state machine has already moved past.
type countdown struct {
	generation  int
	candidateID string
	questionID  string
	remaining   int
	armed       bool
}

// CountdownState is a read-only snapshot for the UI.
type CountdownState struct {
	Generation  int
	CandidateID string
	QuestionID  string
	Remaining   int
	Armed       bool
}

func (m *Machine) armCountdown(candidateID string, q store.Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countdown.generation++
	m.countdown.candidateID = candidateID
	m.countdown.questionID = q.ID
	m.countdown.remaining = q.Duration
	m.countdown.armed = true
}

// DisarmCountdown cancels any armed countdown. Disarming is explicit on
// every exit path from IN_PROGRESS.
func (m *Machine) DisarmCountdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countdown.armed = false
	m.countdown.generation++
}

// Countdown returns the current countdown snapshot.
func (m *Machine) Countdown() CountdownState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return CountdownState{
		Generation:  m.countdown.generation,
		CandidateID: m.countdown.candidateID,
		QuestionID:  m.countdown.questionID,
		Remaining:   m.countdown.remaining,
		Armed:       m.countdown.armed,
	}
}

// TickCountdown consumes one second from the countdown of the given
// generation. It reports the remaining time and whether the timer just
// expired; ok is false when the generation is stale or nothing is armed,
// in which case the tick must be ignored. Expiry disarms the countdown;
// the caller then runs the answer-submission path with the time-up flag.
func (m *Machine) TickCountdown(generation int) (state CountdownState, expired, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.countdown.armed || m.countdown.generation != generation {
		return CountdownState{}, false, false
	}
	m.countdown.remaining--
	if m.countdown.remaining <= 0 {
		m.countdown.remaining = 0
		m.countdown.armed = false
		expired = true
	}
	return CountdownState{
		Generation:  m.countdown.generation,
		CandidateID: m.countdown.candidateID,
		QuestionID:  m.countdown.questionID,
		Remaining:   m.countdown.remaining,
		Armed:       m.countdown.armed,
	}, expired, true
}

// RearmCountdown re-arms the timer for the current question at its full
// duration. Used when a session is resumed after a restart.
func (m *Machine) RearmCountdown(id string) (CountdownState, bool) {
	q, _, ok := m.CurrentQuestion(id)
	if !ok {
		return CountdownState{}, false
	}
	m.armCountdown(id, q)
	return m.Countdown(), true
}
