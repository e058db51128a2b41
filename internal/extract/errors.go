package extract

import "fmt"

// ExtractionError represents a failed text pull from a supported format,
// including an unavailable OCR backend.
type ExtractionError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed for %s: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError represents a file type the extractor does not handle.
type UnsupportedFormatError struct {
	Tag string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %q", e.Tag)
}
