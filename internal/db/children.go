package db

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

// durationSplit matches the separators resumes use between start and end:
// "2015-2019", "2015 – 2019", "Jan 2020 to Present".
var durationSplit = regexp.MustCompile(`\s*(?:-|–|—|\bto\b)\s*`)

// ParseWorkExperience turns one raw model line ("Company, Position,
// Duration") into a structured record. Missing parts stay empty; the
// duration keeps everything after the second comma so nothing is lost.
func ParseWorkExperience(line string) types.WorkExperience {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	exp := types.WorkExperience{Company: parts[0]}
	if len(parts) > 1 {
		exp.Position = parts[1]
	}
	if len(parts) > 2 {
		exp.Duration = strings.TrimSpace(strings.Join(parts[2:], ", "))
	}
	exp.StartDate, exp.EndDate = parseDurationDates(exp.Duration)
	return exp
}

// parseDurationDates best-effort splits a duration into start and end
// substrings. Anything that does not look like a range stays raw in the
// duration field with both dates empty.
func parseDurationDates(duration string) (start, end string) {
	if duration == "" {
		return "", ""
	}
	parts := durationSplit.Split(duration, -1)
	if len(parts) != 2 {
		return "", ""
	}
	start = strings.TrimSpace(parts[0])
	end = strings.TrimSpace(parts[1])
	if start == "" || end == "" {
		return "", ""
	}
	return start, end
}
