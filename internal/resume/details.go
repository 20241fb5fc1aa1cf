package resume

import (
	"regexp"
	"strings"
)

var (
	emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRE = regexp.MustCompile(`(\+\d{1,3}[- ]?)?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}`)

	// A capitalized first/last pair at the very start of the text, or an
	// all-caps header line.
	namePairRE = regexp.MustCompile(`^([A-Z][a-z]+)\s+([A-Z][a-z'’-]+)`)
	nameCapsRE = regexp.MustCompile(`([A-Z][A-Z\s]+)\n`)
	nameLineRE = regexp.MustCompile(`^([A-Z][a-z]+(?:\s|-)?){2,3}$`)
)

// ExtractDetails guesses name, email, and phone from resume text. Each
// result may be empty; none of them is trustworthy without user
// confirmation.
func ExtractDetails(text string) (name, email, phone string) {
	email = emailRE.FindString(text)
	phone = phoneRE.FindString(text)

	if m := namePairRE.FindString(text); m != "" {
		name = strings.TrimSpace(m)
	} else if m := nameCapsRE.FindString(text); m != "" {
		name = strings.TrimSpace(m)
	} else {
		// Fall back to scanning the first few lines for something that
		// looks like a two-or-three-word name.
		lines := strings.Split(text, "\n")
		if len(lines) > 5 {
			lines = lines[:5]
		}
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if nameLineRE.MatchString(trimmed) {
				name = trimmed
				break
			}
		}
	}
	return name, email, phone
}
