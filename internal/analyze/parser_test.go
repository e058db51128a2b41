package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/types"
)

const cannedResponse = `## Full Name
Jane Roe

## Email Address
jane.roe@example.com

## Phone Number
(123) 456-7890

## Location
Boston, MA

## Education
- BSc, MIT, 2015
- High school diploma

## Work Experience
- Acme Corp, Software Engineer, 2015-2019
- Widgets Inc, Senior Engineer, 2019-Present

## Skills
python, leadership

## Years of Experience
5
`

func TestParseResponse(t *testing.T) {
	record := ParseResponse(cannedResponse)

	assert.Equal(t, "Jane Roe", record.FullName)
	assert.Equal(t, "jane.roe@example.com", record.Email)
	assert.Equal(t, "(123) 456-7890", record.Phone)
	assert.Equal(t, "Boston, MA", record.Location)
	assert.Equal(t, 5, record.YearsExperience)

	require.Len(t, record.Education, 1, "entries with fewer than 3 comma parts are dropped")
	assert.Equal(t, types.EducationEntry{Degree: "BSc", Institution: "MIT", Year: "2015"}, record.Education[0])

	assert.Equal(t, []string{
		"Acme Corp, Software Engineer, 2015-2019",
		"Widgets Inc, Senior Engineer, 2019-Present",
	}, record.WorkExperience, "work experience lines are kept raw")

	assert.Equal(t, []string{"python", "leadership"}, record.SkillNames())
}

func TestParseResponseSectionOrderIndependent(t *testing.T) {
	shuffled := `## Skills
go, sql

## Years of Experience
3

## Full Name
John Smith
`
	record := ParseResponse(shuffled)
	assert.Equal(t, "John Smith", record.FullName)
	assert.Equal(t, 3, record.YearsExperience)
	assert.Equal(t, []string{"go", "sql"}, record.SkillNames())
}

func TestParseResponseNotFoundSentinel(t *testing.T) {
	response := `## Full Name
Jane Roe

## Email Address
Not found

## Phone Number
Not found

## Education
Not found

## Skills
Not found

## Years of Experience
Not found
`
	record := ParseResponse(response)
	assert.Equal(t, "Jane Roe", record.FullName)
	assert.Empty(t, record.Email, "the sentinel must not leak into identity fields")
	assert.Empty(t, record.Phone)
	assert.Empty(t, record.Education)
	assert.Empty(t, record.Skills)
	assert.Zero(t, record.YearsExperience)
}

func TestParseResponseYearsDegradesToZero(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"plain number", "7", 7},
		{"non-numeric", "about five years", 0},
		{"number with suffix", "5 years", 0},
		{"negative", "-2", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := ParseResponse("## Years of Experience\n" + tt.content + "\n")
			assert.Equal(t, tt.want, record.YearsExperience)
		})
	}
}

func TestParseResponseEducationYearRecovery(t *testing.T) {
	tests := []struct {
		name string
		line string
		year string
	}{
		{"clean year", "- MSc, Stanford, 2020", "2020"},
		{"year mixed with location", "- BSc, MIT, Cambridge MA 2015", "2015"},
		{"no year", "- BSc, MIT, Cambridge", ""},
		{"nineties year", "- BA, Oxford, 1997", "1997"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := ParseResponse("## Education\n" + tt.line + "\n")
			require.Len(t, record.Education, 1)
			assert.Equal(t, tt.year, record.Education[0].Year)
		})
	}
}

func TestParseResponseUnsectionableDegradesGracefully(t *testing.T) {
	raw := "I could not extract anything from this resume, sorry."
	record := ParseResponse(raw)

	assert.Equal(t, raw, record.FullName, "raw response is stashed in full_name")
	assert.Empty(t, record.Email)
	assert.Empty(t, record.Education)
	assert.Empty(t, record.Skills)
	assert.Zero(t, record.YearsExperience)
}

func TestParseResponseTolerantOfCommentary(t *testing.T) {
	response := `Here is the extracted information:

## Full Name
Jane Roe

## Skills
Based on the resume: go, kubernetes
`
	record := ParseResponse(response)
	assert.Equal(t, "Jane Roe", record.FullName)
	// Commentary inside a section rides along with the comma split.
	assert.Contains(t, record.SkillNames(), "kubernetes")
}
