package resume

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// ErrUnsupportedType is returned before any parsing when the file is not a
// PDF or DOCX.
var ErrUnsupportedType = errors.New("unsupported file type: please upload a PDF or DOCX file")

// Prompt caps applied when resume text is embedded in oracle prompts. The
// stored text itself is never truncated.
const (
	QuestionPromptCap   = 3000
	EvaluationPromptCap = 2000
)

// Parsed is the extraction result. The contact fields are best-effort
// guesses from pattern matching and may be empty or wrong; callers must let
// the user correct them.
type Parsed struct {
	Text  string
	Name  string
	Email string
	Phone string
}

var mediaTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// MediaType maps a file path to its declared media type, or "" when the
// extension is not supported.
func MediaType(path string) string {
	return mediaTypes[strings.ToLower(filepath.Ext(path))]
}

// Parse extracts the full text of a resume file plus contact-detail
// guesses. The media type is checked before anything is read.
func Parse(path string) (*Parsed, error) {
	if MediaType(path) == "" {
		return nil, ErrUnsupportedType
	}

	res, err := docconv.ConvertPath(path)
	if err != nil {
		return nil, fmt.Errorf("extract resume text: %w", err)
	}
	text := strings.TrimSpace(res.Body)
	if text == "" {
		return nil, fmt.Errorf("extract resume text: document appears to be empty")
	}

	p := &Parsed{Text: text}
	p.Name, p.Email, p.Phone = ExtractDetails(text)
	return p, nil
}

// CapForPrompt truncates text to at most n bytes for prompt use.
func CapForPrompt(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n]
}
