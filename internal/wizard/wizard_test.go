package wizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/skanjo/internal/analysis"
	"github.com/spigell/skanjo/internal/validate"
)

func TestStepNumberStaysInBounds(t *testing.T) {
	c := New()
	assert.Equal(t, Steps[0], c.CurrentStep())

	for range 10 {
		c.GoBack()
	}
	assert.Equal(t, FirstStep, c.CurrentStep().Number)

	for range 10 {
		c.GoNext(nil)
	}
	assert.Equal(t, LastStep, c.CurrentStep().Number)
	assert.Equal(t, "Submissions", c.CurrentStep().Title)
	assert.Equal(t, "Portfolio building", c.CurrentStep().Description)

	moves := []bool{true, false, false, true, true, true, false, true, true, true, false, false, false, false, false, false}
	for _, forward := range moves {
		var s Step
		if forward {
			s = c.GoNext(nil)
		} else {
			s = c.GoBack()
		}
		require.GreaterOrEqual(t, s.Number, FirstStep)
		require.LessOrEqual(t, s.Number, LastStep)
	}
}

func TestGoBackKeepsLaterPayloads(t *testing.T) {
	c := New()
	resume := ResumeInput{Method: MethodLinkedIn, LinkedInURL: "https://linkedin.com/in/jane"}
	job := JobInput{Method: MethodText, Description: "Senior Go engineer"}
	gap := &analysis.SkillGap{OverallMatch: 75}

	c.GoNext(resume)
	c.GoNext(job)
	c.GoNext(gap)
	require.Equal(t, 4, c.CurrentStep().Number)

	c.GoBack()
	c.GoBack()
	assert.Equal(t, 2, c.CurrentStep().Number)

	c.GoNext(nil)
	c.GoNext(nil)
	assert.Equal(t, 4, c.CurrentStep().Number)

	got, ok := c.Analysis()
	require.True(t, ok)
	assert.Same(t, gap, got)

	gotResume, ok := c.Resume()
	require.True(t, ok)
	assert.Equal(t, resume, gotResume)
}

func TestResubmittingOverwritesPayload(t *testing.T) {
	c := New()
	c.GoNext(ResumeInput{Method: MethodLinkedIn, LinkedInURL: "https://linkedin.com/in/old"})
	c.GoBack()
	c.GoNext(ResumeInput{Method: MethodLinkedIn, LinkedInURL: "https://linkedin.com/in/new"})

	got, ok := c.Resume()
	require.True(t, ok)
	assert.Equal(t, "https://linkedin.com/in/new", got.LinkedInURL)
}

func TestPayloadUndefinedUntilStepCompleted(t *testing.T) {
	c := New()

	_, ok := c.Payload(1)
	assert.False(t, ok)
	_, ok = c.Job()
	assert.False(t, ok)

	c.GoNext(ResumeInput{Method: MethodLinkedIn, LinkedInURL: "x"})
	_, ok = c.Payload(1)
	assert.True(t, ok)
	_, ok = c.Payload(2)
	assert.False(t, ok)
}

func TestIndicator(t *testing.T) {
	c := New()
	c.GoNext(nil)
	c.GoNext(nil)

	assert.Equal(t, []Status{Completed, Completed, Current, Pending, Pending}, c.Indicator())
}

func TestInputValidation(t *testing.T) {
	cv := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(cv, []byte("%PDF"), 0o600))

	tests := []struct {
		name      string
		input     interface{ Validate() error }
		wantField string
	}{
		{name: "resume file", input: ResumeInput{Method: MethodFile, File: cv}},
		{name: "resume missing file", input: ResumeInput{Method: MethodFile, File: cv + ".missing"}, wantField: "file"},
		{name: "resume blank linkedin", input: ResumeInput{Method: MethodLinkedIn, LinkedInURL: "  "}, wantField: "url"},
		{name: "resume unknown method", input: ResumeInput{Method: "fax"}, wantField: "type"},
		{name: "job text", input: JobInput{Method: MethodText, Description: "Go"}},
		{name: "job blank url", input: JobInput{Method: MethodURL}, wantField: "url"},
		{name: "job blank text", input: JobInput{Method: MethodText, Description: "\n"}, wantField: "description"},
		{name: "submission github", input: Submission{Method: MethodGitHub, GitHubURL: "https://github.com/jane/app"}},
		{name: "submission blank link", input: Submission{Method: MethodLink}, wantField: "project_url"},
		{name: "submission file", input: Submission{Method: MethodFile, File: cv}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			ve, ok := validate.As(err)
			require.True(t, ok)
			_, ok = ve.Field(tt.wantField)
			assert.True(t, ok, "expected error on %s, got %v", tt.wantField, err)
		})
	}
}
