package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/spigell/skanjo/internal/secrets"
)

var errAborted = errors.New("aborted")

// readPassword reads a secret without echo when stdin is a terminal and a
// plain line otherwise.
var readPassword = func(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pass, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
		}
		return string(pass), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ask prompts for a line of text, returning def when the answer is empty.
var ask = func(label, def string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	}
	answer, err := p.Run()
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(answer), nil
}

// choose shows a select list and returns the chosen item.
var choose = func(label string, items []string) (string, error) {
	p := promptui.Select{
		Label: label,
		Items: items,
	}
	_, item, err := p.Run()
	if err != nil {
		return "", promptError(err)
	}
	return item, nil
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return errAborted
	}
	return err
}

// askIfEmpty keeps value when it is set and prompts otherwise.
func askIfEmpty(value *string, label string) error {
	if strings.TrimSpace(*value) != "" {
		return nil
	}
	answer, err := ask(label, "", nil)
	if err != nil {
		return err
	}
	*value = answer
	return nil
}

// password resolves a password from a file when one is given and prompts otherwise.
func password(name, file string) (string, error) {
	if strings.TrimSpace(file) != "" {
		return secrets.Load(secrets.Source{Name: name, File: file})
	}
	return readPassword("Password")
}

func required(field string) promptui.ValidateFunc {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
