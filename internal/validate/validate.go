// Package validate gates extracted text before it reaches the LLM.
package validate

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// minLength is the minimum trimmed length for a plausible resume.
	minLength = 50
	// minAlphabetic is the minimum number of letters required.
	minAlphabetic = 10
	// minAlphabeticRatio guards against binary garbage and OCR noise
	// masquerading as text.
	minAlphabeticRatio = 0.10
)

// InvalidResumeError indicates content that failed the validation heuristics.
type InvalidResumeError struct {
	Reason string
}

func (e *InvalidResumeError) Error() string {
	return fmt.Sprintf("invalid resume content: %s", e.Reason)
}

// Resume checks that text looks like a real resume and returns it unchanged.
// It is the last line of defense before an expensive LLM call, so it runs
// even when extraction nominally succeeded.
func Resume(text string) (string, error) {
	if len(strings.TrimSpace(text)) < minLength {
		return "", &InvalidResumeError{Reason: fmt.Sprintf("content shorter than %d characters", minLength)}
	}

	alphabetic := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			alphabetic++
		}
	}

	if alphabetic < minAlphabetic {
		return "", &InvalidResumeError{Reason: "content contains almost no letters"}
	}
	if float64(alphabetic)/float64(total) < minAlphabeticRatio {
		return "", &InvalidResumeError{Reason: "content is mostly non-textual"}
	}

	return text, nil
}
