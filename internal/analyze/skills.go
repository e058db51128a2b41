package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/types"
)

// softSkillKeywords flags soft skills by substring match on the lowercased
// skill name.
var softSkillKeywords = []string{
	"leadership", "communication", "teamwork", "problem solving",
	"critical thinking", "decision making", "time management",
	"adaptability", "flexibility", "creativity", "interpersonal",
	"presentation", "negotiation", "collaboration", "emotional intelligence",
	"conflict resolution", "management", "mentoring", "coaching", "training",
	"public speaking", "writing", "organizational", "detail-oriented",
	"multitasking", "analytical", "research", "planning", "coordination",
	"supervision", "motivation", "customer service", "active listening",
}

// languageKeywords flags spoken languages the same way.
var languageKeywords = []string{
	"english", "spanish", "french", "german", "chinese", "japanese",
	"italian", "portuguese", "russian", "arabic", "hindi", "korean",
	"dutch", "swedish", "norwegian", "danish", "finnish", "polish",
	"turkish", "greek", "hebrew", "vietnamese", "thai", "indonesian",
}

// CategorizeSkills assigns a category and proficiency to each skill by
// keyword heuristics: technical is the default, soft skills and spoken
// languages are recognized by name. Technical skills default to intermediate
// proficiency, the rest to advanced, mirroring how recruiters read them.
func CategorizeSkills(skills []types.Skill) []types.Skill {
	out := make([]types.Skill, len(skills))
	for i, skill := range skills {
		name := strings.ToLower(skill.Name)
		category := types.CategoryTechnical
		if containsAny(name, softSkillKeywords) {
			category = types.CategorySoft
		} else if containsAny(name, languageKeywords) {
			category = types.CategoryLanguage
		}

		proficiency := types.ProficiencyIntermediate
		if category != types.CategoryTechnical {
			proficiency = types.ProficiencyAdvanced
		}

		out[i] = types.Skill{Name: skill.Name, Category: category, Proficiency: proficiency}
	}
	return out
}

func containsAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// classificationSchema validates the classification response before anything
// downstream trusts it.
const classificationSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["skill_name", "skill_category", "proficiency_level"],
		"properties": {
			"skill_name": {"type": "string"},
			"skill_category": {"type": "string", "enum": ["technical", "soft", "language", "other"]},
			"proficiency_level": {"type": "string", "enum": ["beginner", "intermediate", "advanced", "expert", "unknown"]}
		}
	}
}`

type classifiedSkill struct {
	Name        string `json:"skill_name"`
	Category    string `json:"skill_category"`
	Proficiency string `json:"proficiency_level"`
}

// ClassifySkills refines the heuristic categories with one batched LLM call
// covering every skill. On any failure the heuristic input is returned
// unchanged; classification is a refinement, never a gate.
func ClassifySkills(ctx context.Context, client llm.Client, skills []types.Skill) []types.Skill {
	if len(skills) == 0 {
		return skills
	}

	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}

	prompt := fmt.Sprintf(`Classify each of the following resume skills.
For every skill return its category (technical, soft, language or other) and
an estimated proficiency level (beginner, intermediate, advanced, expert or unknown).

Skills: %s

Return ONLY a JSON array, no markdown, no commentary, where each element is:
{"skill_name": "...", "skill_category": "...", "proficiency_level": "..."}
`, strings.Join(names, ", "))

	response, err := client.Complete(ctx, prompt)
	if err != nil {
		log.Printf("analyze: skill classification call failed, keeping heuristic categories: %v", err)
		return skills
	}

	cleaned := llm.CleanJSONBlock(response)
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(classificationSchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil || !result.Valid() {
		log.Printf("analyze: skill classification response failed schema validation, keeping heuristic categories")
		return skills
	}

	var classified []classifiedSkill
	if err := json.Unmarshal([]byte(cleaned), &classified); err != nil {
		log.Printf("analyze: skill classification response is not valid JSON: %v", err)
		return skills
	}

	byName := make(map[string]classifiedSkill, len(classified))
	for _, c := range classified {
		byName[strings.ToLower(strings.TrimSpace(c.Name))] = c
	}

	out := make([]types.Skill, len(skills))
	for i, skill := range skills {
		out[i] = skill
		if c, ok := byName[strings.ToLower(strings.TrimSpace(skill.Name))]; ok {
			out[i].Category = types.ParseSkillCategory(c.Category)
			out[i].Proficiency = types.ParseProficiency(c.Proficiency)
		}
	}
	return out
}
