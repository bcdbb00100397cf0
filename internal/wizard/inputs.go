package wizard

import (
	"github.com/spigell/skanjo/internal/validate"
)

const (
	MethodFile     = "file"
	MethodLinkedIn = "linkedin"
	MethodURL      = "url"
	MethodText     = "text"
	MethodGitHub   = "github"
	MethodLink     = "link"
)

// ResumeInput is the step 1 payload: a CV file or a LinkedIn profile.
type ResumeInput struct {
	Method      string `json:"type"`
	File        string `json:"file,omitempty"`
	LinkedInURL string `json:"url,omitempty"`
}

func (r ResumeInput) Validate() error {
	v := &validate.Validator{}
	v.OneOf("type", r.Method, MethodFile, MethodLinkedIn)
	switch r.Method {
	case MethodFile:
		v.File("file", r.File)
	case MethodLinkedIn:
		v.Required("url", r.LinkedInURL)
	}
	return v.Err()
}

// JobInput is the step 2 payload.
type JobInput struct {
	Method      string `json:"type"`
	File        string `json:"file,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

func (j JobInput) Validate() error {
	v := &validate.Validator{}
	v.OneOf("type", j.Method, MethodFile, MethodURL, MethodText)
	switch j.Method {
	case MethodFile:
		v.File("file", j.File)
	case MethodURL:
		v.Required("url", j.URL)
	case MethodText:
		v.Required("description", j.Description)
	}
	return v.Err()
}

// Submission is the step 5 payload: a finished portfolio project.
type Submission struct {
	Method      string `json:"type"`
	GitHubURL   string `json:"github_url,omitempty"`
	ProjectURL  string `json:"project_url,omitempty"`
	File        string `json:"file,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s Submission) Validate() error {
	v := &validate.Validator{}
	v.OneOf("type", s.Method, MethodGitHub, MethodLink, MethodFile)
	switch s.Method {
	case MethodGitHub:
		v.Required("github_url", s.GitHubURL)
	case MethodLink:
		v.Required("project_url", s.ProjectURL)
	case MethodFile:
		v.File("file", s.File)
	}
	return v.Err()
}
