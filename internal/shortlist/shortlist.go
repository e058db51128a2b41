// Package shortlist scores stored candidates against a job description
// and ranks the strongest matches.
package shortlist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/types"
)

// Score is one candidate's fit against the job description.
type Score struct {
	CandidateID int64    `json:"candidate_id"`
	FullName    string   `json:"full_name"`
	Score       float64  `json:"score"`
	Reasoning   string   `json:"reasoning"`
	Strengths   []string `json:"strengths,omitempty"`
	Weaknesses  []string `json:"weaknesses,omitempty"`
}

// ScoringError means no candidate could be scored at all.
type ScoringError struct {
	Message string
	Cause   error
}

func (e *ScoringError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("shortlist scoring failed: %s: %v", e.Message, e.Cause)
	}
	return "shortlist scoring failed: " + e.Message
}

func (e *ScoringError) Unwrap() error {
	return e.Cause
}

// Shortlister ranks candidates with one model call per candidate.
type Shortlister struct {
	client llm.Client
}

func NewShortlister(client llm.Client) *Shortlister {
	return &Shortlister{client: client}
}

// Rank scores every candidate against the job description and returns
// the top N by descending score. A candidate whose scoring call or
// response fails is logged and skipped; Rank only errors when nothing
// could be scored.
func (s *Shortlister) Rank(ctx context.Context, jobDescription string, candidates []types.Candidate, topN int) ([]Score, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &ScoringError{Message: "empty job description"}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	scores := make([]Score, 0, len(candidates))
	var lastErr error
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, &ScoringError{Message: "cancelled", Cause: err}
		}
		score, err := s.scoreOne(ctx, jobDescription, &candidates[i])
		if err != nil {
			log.Printf("warning: failed to score candidate %d: %v", candidates[i].ID, err)
			lastErr = err
			continue
		}
		scores = append(scores, score)
	}
	if len(scores) == 0 {
		return nil, &ScoringError{Message: "no candidate could be scored", Cause: lastErr}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if topN > 0 && len(scores) > topN {
		scores = scores[:topN]
	}
	return scores, nil
}

type scorePayload struct {
	Score      float64  `json:"score"`
	Reasoning  string   `json:"reasoning"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

func (s *Shortlister) scoreOne(ctx context.Context, jobDescription string, c *types.Candidate) (Score, error) {
	response, err := s.client.Complete(ctx, buildScoringPrompt(jobDescription, c))
	if err != nil {
		return Score{}, err
	}

	var payload scorePayload
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(response)), &payload); err != nil {
		return Score{}, fmt.Errorf("failed to parse score response: %w", err)
	}
	if payload.Score < 0 {
		payload.Score = 0
	}
	if payload.Score > 100 {
		payload.Score = 100
	}

	return Score{
		CandidateID: c.ID,
		FullName:    c.FullName,
		Score:       payload.Score,
		Reasoning:   payload.Reasoning,
		Strengths:   payload.Strengths,
		Weaknesses:  payload.Weaknesses,
	}, nil
}

func buildScoringPrompt(jobDescription string, c *types.Candidate) string {
	var b strings.Builder
	b.WriteString("You are a technical recruiter. Score how well the candidate below fits the job description on a 0-100 scale.\n\n")
	b.WriteString("Job description:\n")
	b.WriteString(jobDescription)
	b.WriteString("\n\nCandidate profile:\n")
	b.WriteString(candidateProfile(c))
	b.WriteString("\nRespond with only a JSON object in this exact shape:\n")
	b.WriteString(`{"score": 0, "reasoning": "...", "strengths": ["..."], "weaknesses": ["..."]}`)
	b.WriteString("\n")
	return b.String()
}

func candidateProfile(c *types.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", c.FullName)
	fmt.Fprintf(&b, "Years of experience: %d\n", c.YearsExperience)
	if c.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", c.Location)
	}

	if len(c.Skills) > 0 {
		names := make([]string, len(c.Skills))
		for i, s := range c.Skills {
			names[i] = s.Name
		}
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(names, ", "))
	}

	for _, edu := range c.Education {
		year := ""
		if edu.GraduationYear != nil {
			year = fmt.Sprintf(" (%d)", *edu.GraduationYear)
		}
		fmt.Fprintf(&b, "Education: %s, %s%s\n", edu.Degree, edu.Institution, year)
	}

	for _, exp := range c.WorkExperiences {
		line := exp.Company
		if exp.Position != "" {
			line += ", " + exp.Position
		}
		if exp.Duration != "" {
			line += ", " + exp.Duration
		}
		fmt.Fprintf(&b, "Experience: %s\n", line)
	}
	return b.String()
}
