// Package types defines the shared data structures for the resume screener.
package types

import "time"

// Status tracks where a candidate sits in the screening funnel.
type Status string

const (
	StatusPending     Status = "pending"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
)

// ParseStatus converts a string to a Status, rejecting unknown values.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusShortlisted, StatusRejected:
		return Status(s), true
	}
	return "", false
}

// SkillCategory classifies a skill entry.
type SkillCategory string

const (
	CategoryTechnical SkillCategory = "technical"
	CategorySoft      SkillCategory = "soft"
	CategoryLanguage  SkillCategory = "language"
	CategoryOther     SkillCategory = "other"
)

// ParseSkillCategory converts a string to a SkillCategory, falling back to
// technical for unknown values (the storage default).
func ParseSkillCategory(s string) SkillCategory {
	switch SkillCategory(s) {
	case CategoryTechnical, CategorySoft, CategoryLanguage, CategoryOther:
		return SkillCategory(s)
	}
	return CategoryTechnical
}

// Proficiency is the self-reported or inferred skill level.
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
	ProficiencyUnknown      Proficiency = "unknown"
)

// ParseProficiency converts a string to a Proficiency, falling back to
// unknown for unrecognized values.
func ParseProficiency(s string) Proficiency {
	switch Proficiency(s) {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert, ProficiencyUnknown:
		return Proficiency(s)
	}
	return ProficiencyUnknown
}

// Candidate is one row per physical person, best-effort identified by
// email/phone. It owns its education, skill and work-experience children.
type Candidate struct {
	ID               int64     `json:"candidate_id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Location         string    `json:"location"`
	YearsExperience  int       `json:"years_experience"`
	ResumeFilePath   string    `json:"resume_file_path"`
	ResumeURL        string    `json:"resume_url"`
	OriginalFilename string    `json:"original_filename"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Education       []Education      `json:"education"`
	Skills          []Skill          `json:"skills"`
	WorkExperiences []WorkExperience `json:"work_experiences"`
}

// Education is a single degree record owned by a candidate. Children are
// deleted and re-created wholesale on every re-upload, never diffed.
type Education struct {
	ID             int64  `json:"education_id"`
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	GraduationYear *int   `json:"graduation_year,omitempty"`
}

// Skill is a single skill record owned by a candidate.
type Skill struct {
	ID          int64         `json:"skill_id"`
	Name        string        `json:"skill_name"`
	Category    SkillCategory `json:"skill_category"`
	Proficiency Proficiency   `json:"proficiency_level"`
}

// WorkExperience is a single employment record owned by a candidate.
// StartDate and EndDate are free text since resumes rarely carry exact dates.
type WorkExperience struct {
	ID        int64  `json:"experience_id"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Duration  string `json:"duration"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
