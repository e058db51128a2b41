package db

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

var gradYearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// IsDuplicate reports whether a freshly extracted record describes the same
// resume as an already stored candidate. It short-circuits to false on the
// first mismatch: name (case-insensitive, trimmed), phone (trimmed), location
// (case-insensitive, trimmed), years of experience, education count, skill
// count, then order-independent set comparison of education triples and
// lowercased skill names. Every check must pass for a duplicate.
//
// Scalar checks only fire when both sides carry a value; an empty field on
// either side is not evidence of a different person.
func IsDuplicate(existing *types.Candidate, rec *types.ExtractedResume) bool {
	if existing == nil || rec == nil {
		return false
	}

	if existing.FullName != "" && rec.FullName != "" &&
		!strings.EqualFold(strings.TrimSpace(existing.FullName), strings.TrimSpace(rec.FullName)) {
		return false
	}
	if existing.Phone != "" && rec.Phone != "" &&
		strings.TrimSpace(existing.Phone) != strings.TrimSpace(rec.Phone) {
		return false
	}
	if existing.Location != "" && rec.Location != "" &&
		!strings.EqualFold(strings.TrimSpace(existing.Location), strings.TrimSpace(rec.Location)) {
		return false
	}
	if existing.YearsExperience != rec.YearsExperience {
		return false
	}
	if len(existing.Education) != len(rec.Education) {
		return false
	}
	if len(existing.Skills) != len(rec.Skills) {
		return false
	}

	if !equalSets(educationKeys(existing), extractedEducationKeys(rec)) {
		return false
	}
	if !equalSets(skillKeys(existing.Skills), skillKeys(rec.Skills)) {
		return false
	}
	return true
}

func educationKeys(c *types.Candidate) map[string]struct{} {
	keys := make(map[string]struct{}, len(c.Education))
	for _, edu := range c.Education {
		year := ""
		if edu.GraduationYear != nil {
			year = strconv.Itoa(*edu.GraduationYear)
		}
		keys[educationKey(edu.Degree, edu.Institution, year)] = struct{}{}
	}
	return keys
}

func extractedEducationKeys(rec *types.ExtractedResume) map[string]struct{} {
	keys := make(map[string]struct{}, len(rec.Education))
	for _, edu := range rec.Education {
		year := ""
		if y := parseGraduationYear(edu.Year); y != nil {
			year = strconv.Itoa(*y)
		}
		keys[educationKey(edu.Degree, edu.Institution, year)] = struct{}{}
	}
	return keys
}

// educationKey builds the degree|institution|year triple with the year in
// canonical integer form, so "2015" from the model matches the stored int.
func educationKey(degree, institution, year string) string {
	return fmt.Sprintf("%s|%s|%s",
		strings.TrimSpace(degree), strings.TrimSpace(institution), year)
}

func skillKeys(skills []types.Skill) map[string]struct{} {
	keys := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		keys[strings.ToLower(strings.TrimSpace(s.Name))] = struct{}{}
	}
	return keys
}

func equalSets(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// parseGraduationYear recovers a 4-digit year from noisy model output,
// falling back to a bare integer parse; nil when nothing usable remains.
func parseGraduationYear(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if match := gradYearPattern.FindString(raw); match != "" {
		year, _ := strconv.Atoi(match)
		return &year
	}
	if year, err := strconv.Atoi(raw); err == nil {
		return &year
	}
	return nil
}
