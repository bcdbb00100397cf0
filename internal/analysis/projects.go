package analysis

import "strings"

type Project struct {
	ID           int      `json:"id"`
	Skill        string   `json:"skill"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Duration     string   `json:"duration"`
	Difficulty   string   `json:"difficulty"`
	Deliverables []string `json:"deliverables"`
	TechStack    []string `json:"tech_stack"`
	Priority     string   `json:"priority"`
}

var catalog = []Project{
	{
		ID:          1,
		Skill:       "TypeScript",
		Title:       "Build a Task Management App with TypeScript",
		Description: "Create a full-featured todo application using TypeScript, showcasing type safety and modern ES6+ features.",
		Duration:    "2-3 weeks",
		Difficulty:  "Intermediate",
		Deliverables: []string{
			"GitHub repository with clean TypeScript code",
			"Live demo deployed on Vercel/Netlify",
			"Comprehensive README with setup instructions",
			"Unit tests with Jest and TypeScript",
		},
		TechStack: []string{"TypeScript", "React", "Node.js", "Express"},
		Priority:  PriorityHigh,
	},
	{
		ID:          2,
		Skill:       "Node.js",
		Title:       "RESTful API with Authentication",
		Description: "Build a robust backend API with user authentication, data validation, and proper error handling.",
		Duration:    "3-4 weeks",
		Difficulty:  "Intermediate",
		Deliverables: []string{
			"Complete API documentation",
			"Secure authentication system",
			"Database integration with MongoDB",
			"Comprehensive API testing",
		},
		TechStack: []string{"Node.js", "Express", "MongoDB", "JWT"},
		Priority:  PriorityHigh,
	},
	{
		ID:          3,
		Skill:       "Docker",
		Title:       "Containerize a Full-Stack Application",
		Description: "Learn Docker by containerizing a web application with proper multi-stage builds and orchestration.",
		Duration:    "1-2 weeks",
		Difficulty:  "Beginner",
		Deliverables: []string{
			"Dockerfile for frontend and backend",
			"Docker Compose configuration",
			"CI/CD pipeline setup",
			"Documentation on deployment",
		},
		TechStack: []string{"Docker", "Docker Compose", "nginx", "CI/CD"},
		Priority:  PriorityMedium,
	},
	{
		ID:          4,
		Skill:       "AWS",
		Title:       "Deploy Scalable Web App on AWS",
		Description: "Deploy a web application using AWS services like EC2, S3, RDS, and learn cloud infrastructure.",
		Duration:    "4-6 weeks",
		Difficulty:  "Advanced",
		Deliverables: []string{
			"Production-ready AWS deployment",
			"Infrastructure as Code with Terraform",
			"Monitoring and logging setup",
			"Cost optimization report",
		},
		TechStack: []string{"AWS", "Terraform", "CloudWatch", "RDS"},
		Priority:  PriorityMedium,
	},
}

// SuggestProjects returns catalog projects that train a skill missing from
// gap. When none match, or gap is nil, the whole catalog is returned.
func SuggestProjects(gap *SkillGap) []Project {
	all := cloneProjects(catalog)
	if gap == nil || len(gap.MissingSkills) == 0 {
		return all
	}

	missing := make(map[string]struct{}, len(gap.MissingSkills))
	for _, s := range gap.MissingSkills {
		missing[strings.ToLower(strings.TrimSpace(s.Name))] = struct{}{}
	}

	var matched []Project
	for _, p := range all {
		if _, ok := missing[strings.ToLower(p.Skill)]; ok {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return all
	}
	return matched
}

func cloneProjects(src []Project) []Project {
	out := make([]Project, len(src))
	for i, p := range src {
		p.Deliverables = append([]string(nil), p.Deliverables...)
		p.TechStack = append([]string(nil), p.TechStack...)
		out[i] = p
	}
	return out
}
