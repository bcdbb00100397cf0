package skanjo

import (
	"fmt"
	"strings"
)

type Plan struct {
	ID           string
	Name         string
	Price        string
	Period       string
	Description  string
	Features     []string
	Limitations  []string
	Popular      bool
	CallToAction string
}

// Plans are the subscription tiers a feature key can be issued for.
var Plans = []Plan{
	{
		ID:          "starter",
		Name:        "Starter",
		Price:       "Free",
		Description: "Perfect for exploring your career potential",
		Features: []string{
			"1 CV analysis per month",
			"Basic skill gap analysis",
			"3 project suggestions",
			"Community support",
			"Basic CV optimization tips",
		},
		Limitations: []string{
			"Limited to 1 job matching",
			"Basic feedback only",
			"No priority support",
		},
		CallToAction: "Get Started Free",
	},
	{
		ID:          "professional",
		Name:        "Professional",
		Price:       "$29",
		Period:      "/month",
		Description: "Ideal for active job seekers and career changers",
		Features: []string{
			"Unlimited CV analyses",
			"Advanced skill gap analysis",
			"20 project suggestions per month",
			"AI feedback on submissions",
			"Premium CV templates",
			"ATS optimization",
			"LinkedIn profile optimization",
			"Priority email support",
			"Progress tracking dashboard",
		},
		Popular:      true,
		CallToAction: "Start Professional",
	},
	{
		ID:          "enterprise",
		Name:        "Enterprise",
		Price:       "$99",
		Period:      "/month",
		Description: "For teams and organizations seeking comprehensive solutions",
		Features: []string{
			"Everything in Professional",
			"Unlimited team members",
			"Custom skill frameworks",
			"Advanced analytics & reporting",
			"White-label solutions",
			"API access",
			"Custom integrations",
			"Dedicated account manager",
			"24/7 priority support",
			"Training & onboarding",
		},
		CallToAction: "Contact Sales",
	},
}

// FindPlan looks a plan up by ID or display name, case-insensitively.
func FindPlan(name string) (Plan, error) {
	name = strings.TrimSpace(name)
	for _, p := range Plans {
		if strings.EqualFold(p.ID, name) || strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("unknown plan %q", name)
}

// PlanIDs lists valid plan identifiers in display order.
func PlanIDs() []string {
	ids := make([]string, 0, len(Plans))
	for _, p := range Plans {
		ids = append(ids, p.ID)
	}
	return ids
}
