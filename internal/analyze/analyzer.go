// Package analyze turns raw resume text into a structured record via a
// single LLM round-trip with a rigid, parseable output contract.
package analyze

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/types"
)

// notFoundSentinel is what the prompt tells the model to emit for missing
// fields; the parser strips it back out.
const notFoundSentinel = "Not found"

// Analyzer performs structured extraction against an injected completion
// client.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze sends exactly one prompt and parses the sectioned response.
// Parsing is deterministic given the same response text.
func (a *Analyzer) Analyze(ctx context.Context, resumeText string) (*types.ExtractedResume, error) {
	response, err := a.client.Complete(ctx, buildPrompt(resumeText))
	if err != nil {
		return nil, &AnalysisError{Message: "completion call failed", Cause: err}
	}
	return ParseResponse(response), nil
}

// buildPrompt requests a fixed Markdown-like section format. The model must
// use the "Not found" sentinel for missing fields and compute years of
// experience when the resume does not state it outright.
func buildPrompt(resumeText string) string {
	return fmt.Sprintf(`Extract ONLY the following information from the resume text provided below:
- Full Name
- Email Address
- Phone Number
- Location (City, State/Country)
- Education (Degree, Institution, Year) - list all
- Work Experience (Company, Position, Duration) - list all
- Skills (Technical and Soft Skills) - list all (only names like python,nextjs,leadership,etc)
- Years of Experience - IMPORTANT: If not explicitly stated, calculate this by adding up all work experience durations or estimate based on career progression, just show the number, no explanation needed

Resume Text:
%s

Return ONLY the extracted information in this exact format - do not include any additional information, analysis, or commentary:

## Full Name
[Extracted name]

## Email Address
[Extracted email]

## Phone Number
[Extracted phone]

## Location
[Extracted location]

## Education
- [Degree], [Institution], [Year]
- [Additional education entries]

## Work Experience
- [Company], [Position], [Duration]
- [Additional work experience entries]

## Skills
[List of extracted skills]

## Years of Experience
[Number of years] - YOU MUST PROVIDE THIS! Calculate if not explicitly stated and display only the number

If a field is not found, indicate "Not found" for that field only.
`, resumeText)
}
