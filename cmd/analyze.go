package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skanjo/internal/analysis"
	"github.com/spigell/skanjo/internal/analysis/gemini"
	"github.com/spigell/skanjo/internal/resume"
	"github.com/spigell/skanjo/internal/secrets"
	"github.com/spigell/skanjo/internal/wizard"
)

var errSessionExpired = errors.New("session expired: log in again with 'skanjo login'")

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Walk through the CV analysis wizard",
	Long: "Compare a CV with a target job, get portfolio project suggestions and feedback " +
		"on finished work. Runs interactively unless both a resume and a job are given as flags.",
	Args: cobra.NoArgs,
	RunE: withApplication(runAnalyze),
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addAnalyzeFlags(analyzeCmd)
}

func addAnalyzeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("resume", "", "CV file (.pdf, .docx, .txt, .md)")
	f.String("linkedin", "", "LinkedIn profile URL instead of a CV file")
	f.String("job-file", "", "job description file")
	f.String("job-url", "", "job posting URL")
	f.String("job-text", "", "job description text")
	f.String("github", "", "GitHub repository of a finished project")
	f.String("project-url", "", "live link to a finished project")
	f.String("submission-file", "", "archive or document of a finished project")
}

func runAnalyze(cmd *cobra.Command, _ []string, a *application) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}

	analyzer, err := newAnalyzer(cmd.Context(), a.cfg.AI, a.logger)
	if err != nil {
		return err
	}

	ui, err := newWizardUI(cmd)
	if err != nil {
		return err
	}

	flow := &analyzeFlow{
		ui:       ui,
		out:      cmd.OutOrStdout(),
		analyzer: analyzer,
		reviewer: analysis.Fixture{},
		logger:   a.logger,
		active:   a.store.IsAuthenticated,
		extract:  resume.ExtractText,
	}

	if _, err := flow.run(cmd.Context()); err != nil {
		if errors.Is(err, errAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Analysis cancelled.")
			return nil
		}
		return err
	}
	return nil
}

// newAnalyzer returns the Gemini analyzer when AI is enabled and the sample
// analyzer otherwise.
func newAnalyzer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (analysis.Analyzer, error) {
	if cfg == nil || !cfg.Enabled {
		return analysis.Fixture{}, nil
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or SKANJO_GEMINI_API_KEY_FILE)", err)
	}

	genLogger := log.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAnalyzer(generator, log, cfg.Gemini.MaxLogLength), nil
}

type navigation int

const (
	navNext navigation = iota
	navBack
	navQuit
)

// wizardUI supplies user input for the steps that need it.
type wizardUI interface {
	ResumeInput(prev *wizard.ResumeInput) (wizard.ResumeInput, error)
	JobInput(prev *wizard.JobInput) (wizard.JobInput, error)
	// Submission returns nil when the user has nothing to submit yet.
	Submission() (*wizard.Submission, error)
	Navigate(step wizard.Step) (navigation, error)
}

type analyzeFlow struct {
	ui       wizardUI
	out      io.Writer
	analyzer analysis.Analyzer
	reviewer analysis.Reviewer
	logger   *zap.Logger
	active   func() bool
	extract  func(ctx context.Context, path string) (string, error)

	// analyzedFor identifies the inputs of the stored step 3 result.
	analyzedFor string
	pendingFor  string
}

// run drives a wizard.Controller from the first step until the user finishes
// or quits. It stops early when the session ends.
func (f *analyzeFlow) run(ctx context.Context) (*wizard.Controller, error) {
	ctl := wizard.New()

	for {
		if err := ctx.Err(); err != nil {
			return ctl, err
		}
		if f.active != nil && !f.active() {
			return ctl, errSessionExpired
		}

		step := ctl.CurrentStep()
		f.printProgress(ctl)

		payload, err := f.collect(ctx, ctl, step)
		if err != nil {
			return ctl, fmt.Errorf("step %d (%s): %w", step.Number, step.Title, err)
		}

		nav, err := f.ui.Navigate(step)
		if err != nil {
			return ctl, err
		}

		switch nav {
		case navQuit:
			return ctl, nil
		case navBack:
			ctl.GoBack()
		case navNext:
			if step.Number == 3 && payload != nil {
				f.analyzedFor = f.pendingFor
			}
			ctl.GoNext(payload)
			if step.Number == wizard.LastStep {
				fmt.Fprintln(f.out, "\nAll steps complete.")
				return ctl, nil
			}
		}
	}
}

// collect runs one step and returns its payload. A nil payload keeps what
// the step already holds.
func (f *analyzeFlow) collect(ctx context.Context, ctl *wizard.Controller, step wizard.Step) (any, error) {
	switch step.Number {
	case 1:
		var prev *wizard.ResumeInput
		if r, ok := ctl.Resume(); ok {
			prev = &r
		}
		in, err := f.ui.ResumeInput(prev)
		if err != nil {
			return nil, err
		}
		if err := in.Validate(); err != nil {
			return nil, err
		}
		return in, nil

	case 2:
		var prev *wizard.JobInput
		if j, ok := ctl.Job(); ok {
			prev = &j
		}
		in, err := f.ui.JobInput(prev)
		if err != nil {
			return nil, err
		}
		if err := in.Validate(); err != nil {
			return nil, err
		}
		return in, nil

	case 3:
		return f.analyze(ctx, ctl)

	case 4:
		gap, _ := ctl.Analysis()
		projects := analysis.SuggestProjects(gap)
		printProjects(f.out, projects)
		return projects, nil

	case 5:
		sub, err := f.ui.Submission()
		if err != nil || sub == nil {
			if err == nil {
				fmt.Fprintln(f.out, "No submission yet. Come back when a project is ready for review.")
			}
			return nil, err
		}
		if err := sub.Validate(); err != nil {
			return nil, err
		}
		feedback, err := f.reviewer.Review(ctx, describeSubmission(*sub))
		if err != nil {
			return nil, fmt.Errorf("reviewing submission: %w", err)
		}
		printFeedback(f.out, feedback)
		return *sub, nil
	}

	return nil, fmt.Errorf("unknown step %d", step.Number)
}

// analyze runs the analyzer unless the stored result was made for the same inputs.
func (f *analyzeFlow) analyze(ctx context.Context, ctl *wizard.Controller) (any, error) {
	resumeIn, ok := ctl.Resume()
	if !ok {
		return nil, errors.New("resume input is missing")
	}
	jobIn, ok := ctl.Job()
	if !ok {
		return nil, errors.New("job input is missing")
	}

	key := fmt.Sprintf("%+v|%+v", resumeIn, jobIn)
	if gap, ok := ctl.Analysis(); ok && key == f.analyzedFor {
		printGap(f.out, gap)
		return nil, nil
	}

	resumeText, err := f.resumeText(ctx, resumeIn)
	if err != nil {
		return nil, err
	}
	jobText, err := f.jobText(ctx, jobIn)
	if err != nil {
		return nil, err
	}

	f.logger.Info("analyzing skill gap",
		zap.String("resume_source", resumeIn.Method),
		zap.String("job_source", jobIn.Method),
	)

	gap, err := f.analyzer.Analyze(ctx, analysis.Input{Resume: resumeText, Job: jobText})
	if err != nil {
		return nil, fmt.Errorf("analyzing skill gap: %w", err)
	}

	f.pendingFor = key
	printGap(f.out, gap)
	return gap, nil
}

func (f *analyzeFlow) resumeText(ctx context.Context, in wizard.ResumeInput) (string, error) {
	if in.Method == wizard.MethodFile {
		return f.extract(ctx, in.File)
	}
	return "LinkedIn profile: " + in.LinkedInURL, nil
}

func (f *analyzeFlow) jobText(ctx context.Context, in wizard.JobInput) (string, error) {
	switch in.Method {
	case wizard.MethodFile:
		return f.extract(ctx, in.File)
	case wizard.MethodURL:
		return "Job posting: " + in.URL, nil
	default:
		return in.Description, nil
	}
}

func describeSubmission(s wizard.Submission) string {
	var b strings.Builder
	switch s.Method {
	case wizard.MethodGitHub:
		b.WriteString("GitHub repository: " + s.GitHubURL)
	case wizard.MethodLink:
		b.WriteString("Project link: " + s.ProjectURL)
	case wizard.MethodFile:
		b.WriteString("Project file: " + s.File)
	}
	if d := strings.TrimSpace(s.Description); d != "" {
		b.WriteString("\n" + d)
	}
	return b.String()
}

func (f *analyzeFlow) printProgress(ctl *wizard.Controller) {
	marks := make([]string, 0, len(wizard.Steps))
	for _, s := range ctl.Indicator() {
		switch s {
		case wizard.Completed:
			marks = append(marks, "[x]")
		case wizard.Current:
			marks = append(marks, "[>]")
		default:
			marks = append(marks, "[ ]")
		}
	}

	step := ctl.CurrentStep()
	heading(f.out, fmt.Sprintf("Step %d/%d: %s - %s", step.Number, wizard.LastStep, step.Title, step.Description))
	fmt.Fprintln(f.out, strings.Join(marks, " "))
}

func printGap(w io.Writer, gap *analysis.SkillGap) {
	fmt.Fprintf(w, "Overall match: %d%%\n", gap.OverallMatch)

	fmt.Fprintln(w, "\nSkills you have:")
	tw := newTable(w)
	for _, s := range gap.ExistingSkills {
		mark := ""
		if s.Match {
			mark = "matches job"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", s.Name, s.Level, mark)
	}
	tw.Flush()

	fmt.Fprintln(w, "\nSkills to learn:")
	tw = newTable(w)
	for _, s := range gap.MissingSkills {
		fmt.Fprintf(tw, "  %s\t%s priority\t%s\n", s.Name, s.Priority, s.EstimatedLearningTime)
	}
	tw.Flush()

	if len(gap.Improvements) > 0 {
		fmt.Fprintln(w, "\nCV improvements:")
		for _, i := range gap.Improvements {
			fmt.Fprintf(w, "  - [%s] %s: %s\n", i.Priority, i.Skill, i.Suggestion)
		}
	}
}

func printProjects(w io.Writer, projects []analysis.Project) {
	for _, p := range projects {
		fmt.Fprintf(w, "\n#%d %s (%s, %s, %s priority)\n", p.ID, p.Title, p.Difficulty, p.Duration, p.Priority)
		fmt.Fprintf(w, "  Skill: %s\n  %s\n", p.Skill, p.Description)
		fmt.Fprintf(w, "  Tech stack: %s\n", strings.Join(p.TechStack, ", "))
		fmt.Fprintln(w, "  Deliverables:")
		for _, d := range p.Deliverables {
			fmt.Fprintf(w, "    - %s\n", d)
		}
	}
}

func printFeedback(w io.Writer, fb *analysis.Feedback) {
	fmt.Fprintf(w, "Score: %d/100\n", fb.Score)
	fmt.Fprintln(w, "Strengths:")
	bullets(w, fb.Strengths)
	fmt.Fprintln(w, "Improvements:")
	bullets(w, fb.Improvements)
	fmt.Fprintln(w, "Next steps:")
	bullets(w, fb.NextSteps)

	if len(fb.SkillProgress) > 0 {
		fmt.Fprintln(w, "Skill progress:")
		tw := newTable(w)
		for _, skill := range slices.Sorted(maps.Keys(fb.SkillProgress)) {
			fmt.Fprintf(tw, "  %s\t%d%%\n", skill, fb.SkillProgress[skill])
		}
		tw.Flush()
	}
}
