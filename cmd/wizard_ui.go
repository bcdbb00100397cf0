package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/skanjo/internal/wizard"
)

const (
	PromptContinue = "Continue"
	PromptBack     = "Back"
	PromptQuit     = "Quit"
	PromptFinish   = "Finish"
	PromptKeep     = "Keep previous answer"

	PromptCVFile   = "Upload CV file"
	PromptLinkedIn = "LinkedIn profile"
	PromptJobFile  = "Job description file"
	PromptJobURL   = "Job posting URL"
	PromptJobText  = "Paste job description"
	PromptGitHub   = "GitHub repository"
	PromptLiveLink = "Live project link"
	PromptFileUp   = "Project file"
	PromptSkipWork = "Nothing to submit yet"
)

func newWizardUI(cmd *cobra.Command) (wizardUI, error) {
	f := cmd.Flags()
	ui := &flagUI{}
	ui.resume.File, _ = f.GetString("resume")
	ui.resume.LinkedInURL, _ = f.GetString("linkedin")
	ui.job.File, _ = f.GetString("job-file")
	ui.job.URL, _ = f.GetString("job-url")
	ui.job.Description, _ = f.GetString("job-text")
	github, _ := f.GetString("github")
	projectURL, _ := f.GetString("project-url")
	submissionFile, _ := f.GetString("submission-file")

	resumeSet := ui.resume.File != "" || ui.resume.LinkedInURL != ""
	jobSet := ui.job.File != "" || ui.job.URL != "" || ui.job.Description != ""
	if !resumeSet && !jobSet {
		return promptUI{}, nil
	}
	if !resumeSet || !jobSet {
		return nil, errors.New("non-interactive analysis needs a resume (--resume or --linkedin) and a job (--job-file, --job-url or --job-text)")
	}

	switch {
	case ui.resume.File != "":
		ui.resume.Method = wizard.MethodFile
	default:
		ui.resume.Method = wizard.MethodLinkedIn
	}

	switch {
	case ui.job.File != "":
		ui.job.Method = wizard.MethodFile
	case ui.job.URL != "":
		ui.job.Method = wizard.MethodURL
	default:
		ui.job.Method = wizard.MethodText
	}

	switch {
	case github != "":
		ui.submission = &wizard.Submission{Method: wizard.MethodGitHub, GitHubURL: github}
	case projectURL != "":
		ui.submission = &wizard.Submission{Method: wizard.MethodLink, ProjectURL: projectURL}
	case submissionFile != "":
		ui.submission = &wizard.Submission{Method: wizard.MethodFile, File: submissionFile}
	}

	return ui, nil
}

// flagUI answers every step from command line flags and always moves forward.
type flagUI struct {
	resume     wizard.ResumeInput
	job        wizard.JobInput
	submission *wizard.Submission
}

func (u *flagUI) ResumeInput(*wizard.ResumeInput) (wizard.ResumeInput, error) { return u.resume, nil }

func (u *flagUI) JobInput(*wizard.JobInput) (wizard.JobInput, error) { return u.job, nil }

func (u *flagUI) Submission() (*wizard.Submission, error) { return u.submission, nil }

func (u *flagUI) Navigate(wizard.Step) (navigation, error) { return navNext, nil }

// promptUI asks on the terminal and re-asks until the answer is valid.
type promptUI struct{}

func (promptUI) ResumeInput(prev *wizard.ResumeInput) (wizard.ResumeInput, error) {
	items := []string{PromptCVFile, PromptLinkedIn}
	if prev != nil {
		items = append([]string{PromptKeep}, items...)
	}

	choice, err := choose("How do you want to provide your CV?", items)
	if err != nil {
		return wizard.ResumeInput{}, err
	}

	switch choice {
	case PromptKeep:
		return *prev, nil
	case PromptCVFile:
		path, err := ask("CV file path", "", func(s string) error {
			return wizard.ResumeInput{Method: wizard.MethodFile, File: s}.Validate()
		})
		return wizard.ResumeInput{Method: wizard.MethodFile, File: path}, err
	default:
		url, err := ask("LinkedIn profile URL", "", required("LinkedIn URL"))
		return wizard.ResumeInput{Method: wizard.MethodLinkedIn, LinkedInURL: url}, err
	}
}

func (promptUI) JobInput(prev *wizard.JobInput) (wizard.JobInput, error) {
	items := []string{PromptJobText, PromptJobURL, PromptJobFile}
	if prev != nil {
		items = append([]string{PromptKeep}, items...)
	}

	choice, err := choose("How do you want to provide the target job?", items)
	if err != nil {
		return wizard.JobInput{}, err
	}

	switch choice {
	case PromptKeep:
		return *prev, nil
	case PromptJobFile:
		path, err := ask("Job description file path", "", func(s string) error {
			return wizard.JobInput{Method: wizard.MethodFile, File: s}.Validate()
		})
		return wizard.JobInput{Method: wizard.MethodFile, File: path}, err
	case PromptJobURL:
		url, err := ask("Job posting URL", "", required("job URL"))
		return wizard.JobInput{Method: wizard.MethodURL, URL: url}, err
	default:
		text, err := ask("Job description", "", required("job description"))
		return wizard.JobInput{Method: wizard.MethodText, Description: text}, err
	}
}

func (promptUI) Submission() (*wizard.Submission, error) {
	choice, err := choose("Submit a finished project for review", []string{PromptGitHub, PromptLiveLink, PromptFileUp, PromptSkipWork})
	if err != nil {
		return nil, err
	}

	var sub wizard.Submission
	switch choice {
	case PromptGitHub:
		sub.Method = wizard.MethodGitHub
		sub.GitHubURL, err = ask("GitHub repository URL", "", required("GitHub URL"))
	case PromptLiveLink:
		sub.Method = wizard.MethodLink
		sub.ProjectURL, err = ask("Project URL", "", required("project URL"))
	case PromptFileUp:
		sub.Method = wizard.MethodFile
		sub.File, err = ask("Project file path", "", func(s string) error {
			return wizard.Submission{Method: wizard.MethodFile, File: s}.Validate()
		})
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sub.Description, err = ask("Short description (optional)", "", nil)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (promptUI) Navigate(step wizard.Step) (navigation, error) {
	var items []string
	switch step.Number {
	case wizard.FirstStep:
		items = []string{PromptContinue, PromptQuit}
	case wizard.LastStep:
		items = []string{PromptFinish, PromptBack}
	default:
		items = []string{PromptContinue, PromptBack, PromptQuit}
	}

	choice, err := choose(fmt.Sprintf("%s done", step.Title), items)
	if err != nil {
		return navQuit, err
	}

	switch choice {
	case PromptBack:
		return navBack, nil
	case PromptQuit:
		return navQuit, nil
	default:
		return navNext, nil
	}
}
