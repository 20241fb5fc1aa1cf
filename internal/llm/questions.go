package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/xeipuuv/gojsonschema"

	"crisp/internal/resume"
	"crisp/internal/store"
)

// QuestionCount is the fixed size of every interview's question set.
const QuestionCount = 6

// Per-difficulty answer timers, in seconds.
const (
	EasyDuration   = 20
	MediumDuration = 60
	HardDuration   = 120
)

const questionsSchema = `{
  "type": "array",
  "minItems": 6,
  "maxItems": 6,
  "items": {
    "type": "object",
    "required": ["id", "text", "difficulty", "duration"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "text": {"type": "string", "minLength": 1},
      "difficulty": {"enum": ["Easy", "Medium", "Hard"]},
      "duration": {"type": "number", "minimum": 1}
    }
  }
}`

const questionsPrompt = `Based on the following resume text for a full-stack developer role (React/Node.js), generate exactly 6 interview questions.
The questions should be structured as follows:
- 2 "Easy" questions with a %d-second timer.
- 2 "Medium" questions with a %d-second timer.
- 2 "Hard" questions with a %d-second timer.

Return the output as a valid JSON array of objects. Each object in the array must have the following structure: { "id": "unique-id", "text": "The question text", "difficulty": "Easy" | "Medium" | "Hard", "duration": <timer in seconds> }.

Resume Text:
---
%s
---`

// GenerateQuestions asks the model for the 6-question set. Transport
// failures and malformed replies fall back to a fixed question set so the
// interview can always proceed; the candidate never sees this as an error.
func (o *Oracle) GenerateQuestions(ctx context.Context, resumeText string) ([]store.Question, error) {
	prompt := fmt.Sprintf(questionsPrompt,
		EasyDuration, MediumDuration, HardDuration,
		resume.CapForPrompt(resumeText, resume.QuestionPromptCap))

	raw, err := o.client.Generate(ctx, prompt)
	if err != nil {
		log.Printf("llm: question generation failed, using fallback set: %v", err)
		return FallbackQuestions(), nil
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		log.Printf("llm: question reply rejected, using fallback set: %v", err)
		return FallbackQuestions(), nil
	}
	return questions, nil
}

func parseQuestions(raw string) ([]store.Question, error) {
	raw = stripFences(raw)

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(questionsSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validate questions: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("questions failed schema validation: %v", result.Errors())
	}

	var questions []store.Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}

// FallbackQuestions is the deterministic set substituted when the oracle
// cannot produce a usable one.
func FallbackQuestions() []store.Question {
	return []store.Question{
		{ID: "fb-1", Text: "What is the difference between `let` and `const` in JavaScript?", Difficulty: store.DifficultyEasy, Duration: EasyDuration},
		{ID: "fb-2", Text: "What are React hooks?", Difficulty: store.DifficultyEasy, Duration: EasyDuration},
		{ID: "fb-3", Text: "Explain the concept of the virtual DOM in React.", Difficulty: store.DifficultyMedium, Duration: MediumDuration},
		{ID: "fb-4", Text: "What is middleware in the context of Node.js and Express?", Difficulty: store.DifficultyMedium, Duration: MediumDuration},
		{ID: "fb-5", Text: "Describe a time you had to optimize a slow React component. What steps did you take?", Difficulty: store.DifficultyHard, Duration: HardDuration},
		{ID: "fb-6", Text: "How would you handle authentication and authorization in a full-stack MERN application?", Difficulty: store.DifficultyHard, Duration: HardDuration},
	}
}
