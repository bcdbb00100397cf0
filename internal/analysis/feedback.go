package analysis

import "context"

// Feedback is a mentor review of a submitted project.
type Feedback struct {
	Score         int            `json:"score"`
	Strengths     []string       `json:"strengths"`
	Improvements  []string       `json:"improvements"`
	NextSteps     []string       `json:"next_steps"`
	SkillProgress map[string]int `json:"skill_progress"`
}

type Reviewer interface {
	Review(ctx context.Context, submission string) (*Feedback, error)
}

func (Fixture) Review(ctx context.Context, _ string) (*Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return SampleFeedback(), nil
}

func SampleFeedback() *Feedback {
	return &Feedback{
		Score: 85,
		Strengths: []string{
			"Clean and well-structured code with proper TypeScript typing",
			"Comprehensive error handling and input validation",
			"Good use of modern React patterns and hooks",
			"Excellent documentation and README",
		},
		Improvements: []string{
			"Add unit tests for critical components",
			"Implement proper loading states for async operations",
			"Consider adding TypeScript strict mode",
			"Add accessibility features (ARIA labels, keyboard navigation)",
		},
		NextSteps: []string{
			"Learn and implement React Testing Library",
			"Study advanced TypeScript features like generics",
			"Explore state management with Redux Toolkit",
			"Add internationalization (i18n) support",
		},
		SkillProgress: map[string]int{
			"TypeScript":    75,
			"React":         80,
			"Code Quality":  90,
			"Documentation": 95,
		},
	}
}
