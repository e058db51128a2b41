package analyze

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ParseResponse turns the model's sectioned response into an ExtractedResume.
// Section titles are matched by substring, order-independent, tolerant of
// extra commentary inside a section. A response that cannot be sectioned at
// all degrades to a record carrying the raw text as the full name; that
// signals a prompt contract violation upstream and is logged as a warning.
func ParseResponse(response string) *types.ExtractedResume {
	record := &types.ExtractedResume{
		Education:      []types.EducationEntry{},
		WorkExperience: []string{},
		Skills:         []types.Skill{},
	}

	sections := strings.Split(response, "##")
	if len(sections) < 2 {
		log.Printf("analyze: response could not be sectioned, degrading to raw text (prompt contract violation?)")
		record.FullName = response
		return record
	}

	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}

		lines := strings.Split(section, "\n")
		title := strings.TrimSpace(lines[0])
		content := strings.TrimSpace(strings.Join(lines[1:], "\n"))

		switch {
		case strings.Contains(title, "Full Name"):
			record.FullName = scalarValue(content)
		case strings.Contains(title, "Email Address"):
			record.Email = scalarValue(content)
		case strings.Contains(title, "Phone Number"):
			record.Phone = scalarValue(content)
		case strings.Contains(title, "Location"):
			record.Location = scalarValue(content)
		case strings.Contains(title, "Years of Experience"):
			record.YearsExperience = parseYears(content)
		case strings.Contains(title, "Work Experience"):
			record.WorkExperience = listEntries(content)
		case strings.Contains(title, "Education"):
			record.Education = parseEducation(content)
		case strings.Contains(title, "Skills"):
			record.Skills = rawSkills(parseSkills(content))
		}
	}

	return record
}

// scalarValue strips the sentinel so "Not found" never leaks into identity
// fields and pollutes duplicate detection.
func scalarValue(content string) string {
	if strings.EqualFold(content, notFoundSentinel) {
		return ""
	}
	return content
}

// listEntries splits a section into its non-empty bullet lines.
func listEntries(content string) []string {
	entries := []string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "- "))
		if line == "" || strings.EqualFold(line, notFoundSentinel) {
			continue
		}
		entries = append(entries, line)
	}
	return entries
}

// parseEducation accepts only lines with at least three comma-separated
// parts; shorter lines are silently dropped. The graduation year is scanned
// out of the last part since the model mixes years with locations.
func parseEducation(content string) []types.EducationEntry {
	entries := []types.EducationEntry{}
	for _, line := range listEntries(content) {
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		year := ""
		if match := yearPattern.FindString(parts[len(parts)-1]); match != "" {
			year = match
		}

		entries = append(entries, types.EducationEntry{
			Degree:      parts[0],
			Institution: parts[1],
			Year:        year,
		})
	}
	return entries
}

// parseSkills comma-splits the section, trimming and dropping empties.
func parseSkills(content string) []string {
	skills := []string{}
	for _, skill := range strings.Split(content, ",") {
		skill = strings.TrimSpace(skill)
		if skill == "" || strings.EqualFold(skill, notFoundSentinel) {
			continue
		}
		skills = append(skills, skill)
	}
	return skills
}

// rawSkills wraps plain names in the canonical Skill shape with unknown
// proficiency; categorization happens in a separate pass.
func rawSkills(names []string) []types.Skill {
	skills := make([]types.Skill, 0, len(names))
	for _, name := range names {
		skills = append(skills, types.Skill{
			Name:        name,
			Category:    types.CategoryTechnical,
			Proficiency: types.ProficiencyUnknown,
		})
	}
	return skills
}

// parseYears parses the years-of-experience section as an integer.
// Any parse failure degrades to 0, it never raises.
func parseYears(content string) int {
	years, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || years < 0 {
		return 0
	}
	return years
}
