package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/analysis"
	"github.com/spigell/skanjo/internal/wizard"
)

// scriptedUI replays navigation choices and counts how often each step asked.
type scriptedUI struct {
	resume     wizard.ResumeInput
	job        wizard.JobInput
	submission *wizard.Submission
	navs       []navigation

	resumeAsks int
	jobAsks    int
	prevJob    *wizard.JobInput
}

func (u *scriptedUI) ResumeInput(*wizard.ResumeInput) (wizard.ResumeInput, error) {
	u.resumeAsks++
	return u.resume, nil
}

func (u *scriptedUI) JobInput(prev *wizard.JobInput) (wizard.JobInput, error) {
	u.jobAsks++
	u.prevJob = prev
	if prev != nil {
		return *prev, nil
	}
	return u.job, nil
}

func (u *scriptedUI) Submission() (*wizard.Submission, error) { return u.submission, nil }

func (u *scriptedUI) Navigate(wizard.Step) (navigation, error) {
	if len(u.navs) == 0 {
		return navNext, nil
	}
	nav := u.navs[0]
	u.navs = u.navs[1:]
	return nav, nil
}

type countingAnalyzer struct {
	calls int
	last  analysis.Input
}

func (a *countingAnalyzer) Analyze(ctx context.Context, in analysis.Input) (*analysis.SkillGap, error) {
	a.calls++
	a.last = in
	return analysis.Fixture{}.Analyze(ctx, in)
}

func newTestFlow(ui wizardUI, analyzer analysis.Analyzer) (*analyzeFlow, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &analyzeFlow{
		ui:       ui,
		out:      out,
		analyzer: analyzer,
		reviewer: analysis.Fixture{},
		logger:   zap.NewNop(),
		extract: func(_ context.Context, path string) (string, error) {
			return "text of " + path, nil
		},
	}, out
}

func TestAnalyzeFlowRunsAllSteps(t *testing.T) {
	ui := &scriptedUI{
		resume:     wizard.ResumeInput{Method: wizard.MethodLinkedIn, LinkedInURL: "https://linkedin.com/in/jane"},
		job:        wizard.JobInput{Method: wizard.MethodText, Description: "Senior TypeScript engineer"},
		submission: &wizard.Submission{Method: wizard.MethodGitHub, GitHubURL: "https://github.com/jane/tasks"},
	}
	analyzer := &countingAnalyzer{}
	flow, out := newTestFlow(ui, analyzer)

	ctl, err := flow.run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, wizard.LastStep, ctl.CurrentStep().Number)
	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, "LinkedIn profile: https://linkedin.com/in/jane", analyzer.last.Resume)
	assert.Equal(t, "Senior TypeScript engineer", analyzer.last.Job)

	gap, ok := ctl.Analysis()
	require.True(t, ok)
	assert.Equal(t, 75, gap.OverallMatch)

	projects, ok := ctl.Payload(4)
	require.True(t, ok)
	assert.NotEmpty(t, projects)

	sub, ok := ctl.Submission()
	require.True(t, ok)
	assert.Equal(t, "https://github.com/jane/tasks", sub.GitHubURL)

	assert.Contains(t, out.String(), "Overall match: 75%")
	assert.Contains(t, out.String(), "Score: 85/100")
	assert.Contains(t, out.String(), "All steps complete.")
}

func TestAnalyzeFlowBackKeepsAnalysis(t *testing.T) {
	cv := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(cv, []byte("%PDF-1.4"), 0o600))

	ui := &scriptedUI{
		resume: wizard.ResumeInput{Method: wizard.MethodFile, File: cv},
		job:    wizard.JobInput{Method: wizard.MethodURL, URL: "https://jobs.example.com/42"},
		// step1 next, step2 next, step3 next, step4 back, step3 back,
		// step2 next (same job kept), step3 next, step4 next, step5 finish.
		navs: []navigation{navNext, navNext, navNext, navBack, navBack, navNext, navNext, navNext, navNext},
	}
	analyzer := &countingAnalyzer{}
	flow, _ := newTestFlow(ui, analyzer)

	ctl, err := flow.run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, analyzer.calls, "unchanged inputs must reuse the stored analysis")
	assert.Equal(t, "text of "+cv, analyzer.last.Resume)
	assert.Equal(t, "Job posting: https://jobs.example.com/42", analyzer.last.Job)
	assert.Equal(t, 2, ui.jobAsks)
	require.NotNil(t, ui.prevJob)
	assert.Equal(t, ui.job, *ui.prevJob)

	_, ok := ctl.Analysis()
	assert.True(t, ok)
	_, ok = ctl.Submission()
	assert.False(t, ok)
}

func TestAnalyzeFlowReanalyzesChangedInputs(t *testing.T) {
	ui := &changingJobUI{scriptedUI: scriptedUI{
		resume: wizard.ResumeInput{Method: wizard.MethodLinkedIn, LinkedInURL: "https://linkedin.com/in/jane"},
		navs:   []navigation{navNext, navNext, navNext, navBack, navBack, navNext, navNext, navQuit},
	}}
	analyzer := &countingAnalyzer{}
	flow, _ := newTestFlow(ui, analyzer)

	ctl, err := flow.run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, analyzer.calls)
	assert.Equal(t, "second job", analyzer.last.Job)
	assert.Equal(t, 4, ctl.CurrentStep().Number)
}

// changingJobUI answers step 2 with a different description each time.
type changingJobUI struct {
	scriptedUI
}

func (u *changingJobUI) JobInput(*wizard.JobInput) (wizard.JobInput, error) {
	u.jobAsks++
	desc := "first job"
	if u.jobAsks > 1 {
		desc = "second job"
	}
	return wizard.JobInput{Method: wizard.MethodText, Description: desc}, nil
}

func TestAnalyzeFlowQuit(t *testing.T) {
	ui := &scriptedUI{
		resume: wizard.ResumeInput{Method: wizard.MethodLinkedIn, LinkedInURL: "https://linkedin.com/in/jane"},
		navs:   []navigation{navQuit},
	}
	analyzer := &countingAnalyzer{}
	flow, _ := newTestFlow(ui, analyzer)

	ctl, err := flow.run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, wizard.FirstStep, ctl.CurrentStep().Number)
	_, ok := ctl.Resume()
	assert.False(t, ok)
	assert.Zero(t, analyzer.calls)
}

func TestAnalyzeFlowStopsWhenSessionEnds(t *testing.T) {
	ui := &scriptedUI{
		resume: wizard.ResumeInput{Method: wizard.MethodLinkedIn, LinkedInURL: "https://linkedin.com/in/jane"},
		job:    wizard.JobInput{Method: wizard.MethodText, Description: "Go developer"},
	}
	flow, _ := newTestFlow(ui, &countingAnalyzer{})

	steps := 0
	flow.active = func() bool {
		steps++
		return steps <= 2
	}

	ctl, err := flow.run(context.Background())
	require.ErrorIs(t, err, errSessionExpired)
	assert.Equal(t, 3, ctl.CurrentStep().Number)
}

func TestAnalyzeFlowInvalidInput(t *testing.T) {
	ui := &scriptedUI{
		resume: wizard.ResumeInput{Method: wizard.MethodFile, File: "/does/not/exist.pdf"},
	}
	flow, _ := newTestFlow(ui, &countingAnalyzer{})

	ctl, err := flow.run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (Resume Input)")
	assert.Equal(t, wizard.FirstStep, ctl.CurrentStep().Number)
}

func TestAnalyzeFlowAnalyzerFailure(t *testing.T) {
	ui := &scriptedUI{
		resume: wizard.ResumeInput{Method: wizard.MethodLinkedIn, LinkedInURL: "https://linkedin.com/in/jane"},
		job:    wizard.JobInput{Method: wizard.MethodText, Description: "Go developer"},
	}
	flow, _ := newTestFlow(ui, failingAnalyzer{})

	ctl, err := flow.run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyzing skill gap: model unavailable")
	assert.Equal(t, 3, ctl.CurrentStep().Number)
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(context.Context, analysis.Input) (*analysis.SkillGap, error) {
	return nil, errors.New("model unavailable")
}

func TestNewWizardUI(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *flagUI
		prompt  bool
		wantErr bool
	}{
		{name: "no flags is interactive", prompt: true},
		{
			name: "file and text",
			args: []string{"--resume", "cv.pdf", "--job-text", "Go developer", "--github", "https://github.com/x/y"},
			want: &flagUI{
				resume:     wizard.ResumeInput{Method: wizard.MethodFile, File: "cv.pdf"},
				job:        wizard.JobInput{Method: wizard.MethodText, Description: "Go developer"},
				submission: &wizard.Submission{Method: wizard.MethodGitHub, GitHubURL: "https://github.com/x/y"},
			},
		},
		{
			name: "linkedin and url",
			args: []string{"--linkedin", "https://linkedin.com/in/x", "--job-url", "https://jobs/1"},
			want: &flagUI{
				resume: wizard.ResumeInput{Method: wizard.MethodLinkedIn, LinkedInURL: "https://linkedin.com/in/x"},
				job:    wizard.JobInput{Method: wizard.MethodURL, URL: "https://jobs/1"},
			},
		},
		{name: "resume without job", args: []string{"--resume", "cv.pdf"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "analyze"}
			addAnalyzeFlags(cmd)
			require.NoError(t, cmd.Flags().Parse(tt.args))

			ui, err := newWizardUI(cmd)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.prompt {
				assert.IsType(t, promptUI{}, ui)
				return
			}
			assert.Equal(t, tt.want, ui)
		})
	}
}
