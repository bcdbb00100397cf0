// Package wizard sequences the five steps of a CV analysis run and carries
// each step's result forward to the next.
package wizard

import (
	"github.com/spigell/skanjo/internal/analysis"
)

const (
	FirstStep = 1
	LastStep  = 5
)

type Step struct {
	Number      int
	Title       string
	Description string
}

// Steps in the order the user walks through them.
var Steps = []Step{
	{Number: 1, Title: "Resume Input", Description: "Upload CV or LinkedIn"},
	{Number: 2, Title: "Job Description", Description: "Target job details"},
	{Number: 3, Title: "Skill Analysis", Description: "Gap identification"},
	{Number: 4, Title: "Project Plans", Description: "Learning roadmap"},
	{Number: 5, Title: "Submissions", Description: "Portfolio building"},
}

type Status int

const (
	Pending Status = iota
	Current
	Completed
)

// Controller is the state of one run. It is not safe for concurrent use.
type Controller struct {
	step     int
	payloads map[int]any
}

func New() *Controller {
	return &Controller{
		step:     FirstStep,
		payloads: make(map[int]any, LastStep),
	}
}

// GoNext records payload as the result of the current step and advances.
// A nil payload advances without touching what the step already holds.
// On the last step the controller stays put.
func (c *Controller) GoNext(payload any) Step {
	if payload != nil {
		c.payloads[c.step] = payload
	}
	if c.step < LastStep {
		c.step++
	}
	return c.CurrentStep()
}

// GoBack moves one step back. Recorded payloads are kept.
func (c *Controller) GoBack() Step {
	if c.step > FirstStep {
		c.step--
	}
	return c.CurrentStep()
}

func (c *Controller) CurrentStep() Step {
	return Steps[c.step-1]
}

// Payload returns what step n recorded, if anything.
func (c *Controller) Payload(n int) (any, bool) {
	p, ok := c.payloads[n]
	return p, ok
}

func (c *Controller) Resume() (ResumeInput, bool) {
	return payloadAs[ResumeInput](c, 1)
}

func (c *Controller) Job() (JobInput, bool) {
	return payloadAs[JobInput](c, 2)
}

func (c *Controller) Analysis() (*analysis.SkillGap, bool) {
	return payloadAs[*analysis.SkillGap](c, 3)
}

func (c *Controller) Submission() (Submission, bool) {
	return payloadAs[Submission](c, 5)
}

// Indicator reports each step's status relative to the current one.
func (c *Controller) Indicator() []Status {
	statuses := make([]Status, len(Steps))
	for i, s := range Steps {
		switch {
		case s.Number < c.step:
			statuses[i] = Completed
		case s.Number == c.step:
			statuses[i] = Current
		default:
			statuses[i] = Pending
		}
	}
	return statuses
}

func payloadAs[T any](c *Controller, n int) (T, bool) {
	var zero T
	p, ok := c.payloads[n]
	if !ok {
		return zero, false
	}
	v, ok := p.(T)
	return v, ok
}
