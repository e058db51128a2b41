package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWorkExperience(t *testing.T) {
	tests := []struct {
		name string
		line string
		company, position, duration string
		start, end string
	}{
		{
			name:    "full triple",
			line:    "Acme Corp, Senior Engineer, 2019 - 2023",
			company: "Acme Corp", position: "Senior Engineer", duration: "2019 - 2023",
			start: "2019", end: "2023",
		},
		{
			name:    "duration keeps trailing commas",
			line:    "Acme Corp, Engineer, Jan 2020 to Present, remote",
			company: "Acme Corp", position: "Engineer", duration: "Jan 2020 to Present, remote",
			start: "Jan 2020", end: "Present, remote",
		},
		{
			name:    "company only",
			line:    "Acme Corp",
			company: "Acme Corp",
		},
		{
			name:    "company and position",
			line:    "Acme Corp, Engineer",
			company: "Acme Corp", position: "Engineer",
		},
		{
			name:    "en dash range",
			line:    "Initech, Analyst, 2015 – 2018",
			company: "Initech", position: "Analyst", duration: "2015 – 2018",
			start: "2015", end: "2018",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := ParseWorkExperience(tt.line)
			assert.Equal(t, tt.company, exp.Company)
			assert.Equal(t, tt.position, exp.Position)
			assert.Equal(t, tt.duration, exp.Duration)
			assert.Equal(t, tt.start, exp.StartDate)
			assert.Equal(t, tt.end, exp.EndDate)
		})
	}
}

func TestParseDurationDates(t *testing.T) {
	tests := []struct {
		duration   string
		start, end string
	}{
		{"2015-2019", "2015", "2019"},
		{"Jan 2020 to Present", "Jan 2020", "Present"},
		{"3 years", "", ""},
		{"", "", ""},
		{"- 2019", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.duration, func(t *testing.T) {
			start, end := parseDurationDates(tt.duration)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
