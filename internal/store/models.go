package store

import (
	"time"

	"github.com/google/uuid"
)

// InterviewState tracks a candidate's progress through the interview flow.
type InterviewState string

const (
	StateAwaitingResume InterviewState = "AWAITING_RESUME"
	StateCollectingInfo InterviewState = "COLLECTING_INFO"
	StateReadyToStart   InterviewState = "READY_TO_START"
	StateInProgress     InterviewState = "IN_PROGRESS"
	StateCompleted      InterviewState = "COMPLETED"
)

// View selects which side of the app is active.
type View string

const (
	ViewInterviewee View = "interviewee"
	ViewInterviewer View = "interviewer"
)

// Sender identifies who authored a chat message.
type Sender string

const (
	SenderAI   Sender = "ai"
	SenderUser Sender = "user"
)

// Message is a single entry in the chat transcript.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage mints a message with a fresh id and the current time.
func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Question is one generated interview question. Duration is in seconds.
type Question struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Difficulty string `json:"difficulty"`
	Duration   int    `json:"duration"`
}

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Answer is the candidate's response to one question. Score and Feedback
// stay unset until the final evaluation fills them in.
type Answer struct {
	QuestionID string   `json:"questionId"`
	Text       string   `json:"text"`
	Score      *float64 `json:"score,omitempty"`
	Feedback   string   `json:"feedback,omitempty"`
}

// Candidate holds everything accumulated for one resume-to-interview session.
type Candidate struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	ResumeText     string         `json:"resumeText"`
	InterviewState InterviewState `json:"interviewState"`
	Messages       []Message      `json:"messages"`
	Questions      []Question     `json:"questions"`
	Answers        []Answer       `json:"answers"`
	FinalScore     float64        `json:"finalScore"`
	Summary        string         `json:"summary"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// NewCandidate creates a candidate in its initial state. Contact fields may
// be empty when extraction could not find them.
func NewCandidate(name, email, phone, resumeText string) *Candidate {
	return &Candidate{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		Phone:          phone,
		ResumeText:     resumeText,
		InterviewState: StateAwaitingResume,
		CreatedAt:      time.Now(),
	}
}

// clone returns a deep copy so callers never share slices with the store.
func (c *Candidate) clone() *Candidate {
	cp := *c
	cp.Messages = append([]Message(nil), c.Messages...)
	cp.Questions = append([]Question(nil), c.Questions...)
	cp.Answers = make([]Answer, len(c.Answers))
	for i, a := range c.Answers {
		cp.Answers[i] = a
		if a.Score != nil {
			s := *a.Score
			cp.Answers[i].Score = &s
		}
	}
	return &cp
}
