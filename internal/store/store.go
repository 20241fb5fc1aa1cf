package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// StorageFile is the fixed name of the serialized store inside the data dir.
const StorageFile = "ai-interview-storage.json"

// Store owns the candidate mapping plus the current-candidate and
// active-view pointers. Every mutation is synchronous, immediately visible
// to subsequent reads, and flushed to disk before it returns. A flush
// failure is logged and swallowed so a full disk never loses the in-memory
// mutation.
type Store struct {
	path string

	mu    sync.Mutex
	state persisted
}

// persisted is the on-disk blob. Unknown fields written by newer versions
// are ignored on load.
type persisted struct {
	Candidates map[string]*Candidate `json:"candidates"`
	CurrentID  string                `json:"currentCandidateId"`
	ActiveView View                  `json:"activeView"`
}

// Patch carries partial candidate fields for a merge-by-id update. Nil
// fields are left untouched.
type Patch struct {
	Name           *string
	Email          *string
	Phone          *string
	InterviewState *InterviewState
	FinalScore     *float64
	Summary        *string
	Answers        []Answer
}

// Open loads the store from dir/StorageFile, creating an empty store when
// the file does not exist yet.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{
		path: filepath.Join(dir, StorageFile),
		state: persisted{
			Candidates: map[string]*Candidate{},
			ActiveView: ViewInterviewee,
		},
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}
	if s.state.Candidates == nil {
		s.state.Candidates = map[string]*Candidate{}
	}
	if s.state.ActiveView == "" {
		s.state.ActiveView = ViewInterviewee
	}
	return s, nil
}

// flush serializes the whole store. Called with the lock held.
func (s *Store) flush() {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		log.Printf("store: marshal state: %v", err)
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("store: write state: %v", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		log.Printf("store: replace state: %v", err)
	}
}

// Create inserts a whole candidate record keyed by its id.
func (s *Store) Create(c *Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Candidates[c.ID] = c.clone()
	s.flush()
}

// Update merges partial fields into an existing record. An unknown id is a
// no-op, never an error.
func (s *Store) Update(id string, p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.state.Candidates[id]
	if !ok {
		return
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.InterviewState != nil {
		c.InterviewState = *p.InterviewState
	}
	if p.FinalScore != nil {
		c.FinalScore = *p.FinalScore
	}
	if p.Summary != nil {
		c.Summary = *p.Summary
	}
	if p.Answers != nil {
		c.Answers = append([]Answer(nil), p.Answers...)
	}
	s.flush()
}

// AppendMessage appends to the candidate's chat transcript.
func (s *Store) AppendMessage(id string, m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.state.Candidates[id]
	if !ok {
		return
	}
	c.Messages = append(c.Messages, m)
	s.flush()
}

// SetQuestions assigns the generated question set. Expected to happen once
// per interview, at start.
func (s *Store) SetQuestions(id string, questions []Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.state.Candidates[id]
	if !ok {
		return
	}
	c.Questions = append([]Question(nil), questions...)
	s.flush()
}

// AppendAnswer records the answer to the current question.
func (s *Store) AppendAnswer(id string, a Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.state.Candidates[id]
	if !ok {
		return
	}
	c.Answers = append(c.Answers, a)
	s.flush()
}

// ResetInterview returns a candidate to its not-started shape. Identity and
// contact fields, the resume text, and the creation time survive; the
// transcript, questions, answers, score, and summary are cleared. The
// candidate also stops being current.
func (s *Store) ResetInterview(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.state.Candidates[id]
	if !ok {
		return
	}
	c.InterviewState = StateAwaitingResume
	c.Messages = nil
	c.Questions = nil
	c.Answers = nil
	c.FinalScore = 0
	c.Summary = ""
	if s.state.CurrentID == id {
		s.state.CurrentID = ""
	}
	s.flush()
}

// Get returns a copy of one candidate.
func (s *Store) Get(id string) (*Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.state.Candidates[id]
	if !ok {
		return nil, false
	}
	return c.clone(), true
}

// All returns copies of every candidate, highest final score first and
// newest first within equal scores.
func (s *Store) All() []*Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Candidate, 0, len(s.state.Candidates))
	for _, c := range s.state.Candidates {
		out = append(out, c.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FinalScore != out[j].FinalScore {
			return out[i].FinalScore > out[j].FinalScore
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// SetCurrentID points the interviewee flow at a candidate. Empty clears it.
func (s *Store) SetCurrentID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentID = id
	s.flush()
}

// Current returns the candidate being interviewed, if any.
func (s *Store) Current() (*Candidate, bool) {
	s.mu.Lock()
	id := s.state.CurrentID
	s.mu.Unlock()
	if id == "" {
		return nil, false
	}
	return s.Get(id)
}

// CurrentID returns the current candidate id, or "".
func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentID
}

// SetActiveView persists which side of the app is showing.
func (s *Store) SetActiveView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveView = v
	s.flush()
}

// ActiveView returns the persisted active view.
func (s *Store) ActiveView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveView
}
