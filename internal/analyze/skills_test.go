package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/types"
)

// cannedClient returns fixed responses and records prompts.
type cannedClient struct {
	response string
	err      error
	prompts  []string
}

func (c *cannedClient) Complete(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func (c *cannedClient) Close() error { return nil }

func skillsOf(names ...string) []types.Skill {
	return rawSkills(names)
}

func TestCategorizeSkills(t *testing.T) {
	skills := CategorizeSkills(skillsOf("Python", "Leadership", "Spanish", "Kubernetes", "Team Management"))

	byName := map[string]types.Skill{}
	for _, s := range skills {
		byName[s.Name] = s
	}

	assert.Equal(t, types.CategoryTechnical, byName["Python"].Category)
	assert.Equal(t, types.ProficiencyIntermediate, byName["Python"].Proficiency)

	assert.Equal(t, types.CategorySoft, byName["Leadership"].Category)
	assert.Equal(t, types.ProficiencyAdvanced, byName["Leadership"].Proficiency)

	assert.Equal(t, types.CategoryLanguage, byName["Spanish"].Category)
	assert.Equal(t, types.CategoryTechnical, byName["Kubernetes"].Category)
	assert.Equal(t, types.CategorySoft, byName["Team Management"].Category)
}

func TestClassifySkillsRefinesCategories(t *testing.T) {
	client := &cannedClient{response: `[
		{"skill_name": "python", "skill_category": "technical", "proficiency_level": "expert"},
		{"skill_name": "leadership", "skill_category": "soft", "proficiency_level": "advanced"}
	]`}

	skills := ClassifySkills(context.Background(), client, skillsOf("python", "leadership"))
	require.Len(t, skills, 2)
	assert.Len(t, client.prompts, 1, "classification is one batched call, not one per skill")

	assert.Equal(t, types.ProficiencyExpert, skills[0].Proficiency)
	assert.Equal(t, types.CategorySoft, skills[1].Category)
}

func TestClassifySkillsKeepsHeuristicsOnFailure(t *testing.T) {
	input := CategorizeSkills(skillsOf("python", "leadership"))

	t.Run("call failure", func(t *testing.T) {
		client := &cannedClient{err: errors.New("quota exceeded")}
		assert.Equal(t, input, ClassifySkills(context.Background(), client, input))
	})

	t.Run("schema violation", func(t *testing.T) {
		client := &cannedClient{response: `[{"skill_name": "python", "skill_category": "nonsense", "proficiency_level": "expert"}]`}
		assert.Equal(t, input, ClassifySkills(context.Background(), client, input))
	})

	t.Run("not JSON at all", func(t *testing.T) {
		client := &cannedClient{response: "python is a programming language"}
		assert.Equal(t, input, ClassifySkills(context.Background(), client, input))
	})
}

func TestClassifySkillsEmptyInput(t *testing.T) {
	client := &cannedClient{}
	assert.Empty(t, ClassifySkills(context.Background(), client, nil))
	assert.Empty(t, client.prompts, "no LLM call for an empty skill list")
}

func TestAnalyzeWrapsClientFailure(t *testing.T) {
	client := &cannedClient{err: errors.New("backend down")}
	a := NewAnalyzer(client)

	_, err := a.Analyze(context.Background(), "some resume text")
	var analysisErr *AnalysisError
	require.Error(t, err)
	assert.True(t, errors.As(err, &analysisErr))
}

func TestAnalyzeParsesResponse(t *testing.T) {
	client := &cannedClient{response: cannedResponse}
	a := NewAnalyzer(client)

	record, err := a.Analyze(context.Background(), "some resume text")
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", record.FullName)
	require.Len(t, client.prompts, 1, "exactly one completion round-trip")
	assert.Contains(t, client.prompts[0], "some resume text")
	assert.Contains(t, client.prompts[0], "## Full Name", "prompt pins the section format")
}
