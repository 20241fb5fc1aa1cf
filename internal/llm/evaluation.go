package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"crisp/internal/resume"
	"crisp/internal/store"
)

// Oracle wraps the generative client with the two interview operations.
type Oracle struct {
	client *Client
}

// NewOracle creates an oracle backed by the given client.
func NewOracle(client *Client) *Oracle {
	return &Oracle{client: client}
}

// Evaluation is the oracle's final verdict on a completed interview.
type Evaluation struct {
	FinalScore     float64          `json:"finalScore"`
	Summary        string           `json:"summary"`
	AnswerFeedback []AnswerFeedback `json:"answerFeedback"`
}

// AnswerFeedback scores one answer, keyed by question id.
type AnswerFeedback struct {
	QuestionID string  `json:"questionId"`
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
}

const evaluationSchema = `{
  "type": "object",
  "required": ["finalScore", "summary", "answerFeedback"],
  "properties": {
    "finalScore": {"type": "number", "minimum": 0, "maximum": 100},
    "summary": {"type": "string", "minLength": 1},
    "answerFeedback": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["questionId", "score", "feedback"],
        "properties": {
          "questionId": {"type": "string", "minLength": 1},
          "score": {"type": "number", "minimum": 0, "maximum": 10},
          "feedback": {"type": "string"}
        }
      }
    }
  }
}`

const evaluationPrompt = `As a senior technical recruiter for a Full Stack (React/Node.js) role, please evaluate the following interview.
The candidate's resume is provided for context.

Resume:
---
%s
---

Interview Transcript:
---
%s
---

Based on the resume and the transcript, provide a final evaluation. Your response must be a single, valid JSON object with the following structure:
{
  "finalScore": <a number between 0 and 100 representing the overall score>,
  "summary": "<a 2-3 sentence professional summary of the candidate's performance, strengths, and weaknesses>",
  "answerFeedback": [
    {
      "questionId": "<the id of the question>",
      "score": <a number between 0 and 10 for this specific answer>,
      "feedback": "<one sentence of constructive feedback for the answer>"
    }
  ]
}

Ensure the 'answerFeedback' array has an entry for every question in the transcript.`

// GenerateEvaluation scores a completed interview. Unlike question
// generation there is no fallback: a fabricated score would misrepresent
// the candidate, so any failure is returned to the caller.
func (o *Oracle) GenerateEvaluation(ctx context.Context, c *store.Candidate) (*Evaluation, error) {
	prompt := fmt.Sprintf(evaluationPrompt,
		resume.CapForPrompt(c.ResumeText, resume.EvaluationPromptCap),
		Transcript(c))

	raw, err := o.client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate evaluation: %w", err)
	}

	return parseEvaluation(raw)
}

func parseEvaluation(raw string) (*Evaluation, error) {
	raw = stripFences(raw)

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(evaluationSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validate evaluation: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("evaluation failed schema validation: %v", result.Errors())
	}

	var ev Evaluation
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}
	return &ev, nil
}

// Transcript renders the question/answer pairs the way the evaluation
// prompt expects them. Unanswered questions show as such.
func Transcript(c *store.Candidate) string {
	var sb strings.Builder
	for i, q := range c.Questions {
		answerText := "(No answer provided)"
		if i < len(c.Answers) {
			answerText = c.Answers[i].Text
		}
		fmt.Fprintf(&sb, "Question %d (%s): %s\nAnswer: %s\n\n", i+1, q.Difficulty, q.Text, answerText)
	}
	return strings.TrimRight(sb.String(), "\n")
}
