// Package analysis compares a CV with a target job and plans how to close
// the gap: a skill-gap report, portfolio projects for the missing skills and
// feedback on submitted work.
package analysis

import (
	"context"
	"errors"
	"strings"
)

const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Input is what an Analyzer compares.
type Input struct {
	Resume string
	Job    string
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.Resume) == "" {
		return errors.New("resume text is required")
	}
	if strings.TrimSpace(in.Job) == "" {
		return errors.New("job description is required")
	}
	return nil
}

type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
	Match bool   `json:"match"`
}

type MissingSkill struct {
	Name                  string `json:"name"`
	Priority              string `json:"priority"`
	EstimatedLearningTime string `json:"estimated_learning_time"`
}

type Improvement struct {
	Skill      string `json:"skill"`
	Suggestion string `json:"suggestion"`
	Priority   string `json:"priority"`
}

// SkillGap is the result of the skill analysis step.
type SkillGap struct {
	// OverallMatch is a percentage in [0, 100].
	OverallMatch   int            `json:"overall_match"`
	ExistingSkills []Skill        `json:"existing_skills"`
	MissingSkills  []MissingSkill `json:"missing_skills"`
	Improvements   []Improvement  `json:"improvements"`
}

// Normalize clamps OverallMatch and drops unnamed entries.
func (g *SkillGap) Normalize() {
	if g.OverallMatch < 0 {
		g.OverallMatch = 0
	}
	if g.OverallMatch > 100 {
		g.OverallMatch = 100
	}

	existing := g.ExistingSkills[:0]
	for _, s := range g.ExistingSkills {
		if s.Name = strings.TrimSpace(s.Name); s.Name != "" {
			existing = append(existing, s)
		}
	}
	g.ExistingSkills = existing

	missing := g.MissingSkills[:0]
	for _, s := range g.MissingSkills {
		if s.Name = strings.TrimSpace(s.Name); s.Name != "" {
			missing = append(missing, s)
		}
	}
	g.MissingSkills = missing

	improvements := g.Improvements[:0]
	for _, i := range g.Improvements {
		if strings.TrimSpace(i.Suggestion) != "" {
			improvements = append(improvements, i)
		}
	}
	g.Improvements = improvements
}

type Analyzer interface {
	Analyze(ctx context.Context, in Input) (*SkillGap, error)
}

// Fixture is an Analyzer that returns the same sample report for any input.
type Fixture struct{}

func (Fixture) Analyze(ctx context.Context, in Input) (*SkillGap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return SampleGap(), nil
}

// SampleGap returns a fresh copy of the sample report.
func SampleGap() *SkillGap {
	return &SkillGap{
		OverallMatch: 75,
		ExistingSkills: []Skill{
			{Name: "JavaScript", Level: "Advanced", Match: true},
			{Name: "React", Level: "Intermediate", Match: true},
			{Name: "Python", Level: "Beginner", Match: true},
			{Name: "Git", Level: "Intermediate", Match: true},
		},
		MissingSkills: []MissingSkill{
			{Name: "TypeScript", Priority: PriorityHigh, EstimatedLearningTime: "2-3 weeks"},
			{Name: "Node.js", Priority: PriorityHigh, EstimatedLearningTime: "3-4 weeks"},
			{Name: "Docker", Priority: PriorityMedium, EstimatedLearningTime: "1-2 weeks"},
			{Name: "AWS", Priority: PriorityMedium, EstimatedLearningTime: "4-6 weeks"},
		},
		Improvements: []Improvement{
			{Skill: "React", Suggestion: "Learn React hooks and context API", Priority: PriorityMedium},
			{Skill: "Python", Suggestion: "Focus on data structures and algorithms", Priority: PriorityHigh},
		},
	}
}
