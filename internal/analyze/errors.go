package analyze

import "fmt"

// AnalysisError represents a failed LLM round-trip or an unusable response.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("resume analysis failed: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}
