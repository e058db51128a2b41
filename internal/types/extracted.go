package types

// ExtractedResume is the structured output of the analyze stage and the sole
// contract between analysis and the upsert engine. It is never persisted
// as-is; the upsert engine maps it onto the candidate aggregate.
type ExtractedResume struct {
	FullName        string           `json:"full_name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	Location        string           `json:"location"`
	YearsExperience int              `json:"years_of_experience"`
	Education       []EducationEntry `json:"education"`
	WorkExperience  []string         `json:"work_experience"`
	Skills          []Skill          `json:"skills"`
}

// EducationEntry is one parsed education line from the model response.
// Year stays a string here: the model mixes years with locations and
// commentary, and the upsert engine owns the final integer conversion.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// SkillNames returns just the skill names, in order.
func (r *ExtractedResume) SkillNames() []string {
	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		names = append(names, s.Name)
	}
	return names
}
