package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/crytic/fuzz-cli/logging"
	"github.com/pkg/errors"
)

// Terminal is a Prompter reading answers from a terminal. Confirm and Input are line oriented; Select and MultiSelect
// run a bubbletea picker.
type Terminal struct {
	// in buffers source for line prompts.
	in *bufio.Reader

	// source is the reader given to NewTerminal.
	source io.Reader

	out io.Writer
}

// NewTerminal creates a Terminal reading from in and writing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), source: in, out: out}
}

// pickerInput returns the reader pickers consume. Files are handed over as they are, so that bubbletea can switch a
// terminal to raw mode, unless line prompts left buffered input behind.
func (t *Terminal) pickerInput() io.Reader {
	if file, ok := t.source.(*os.File); ok && t.in.Buffered() == 0 {
		return file
	}
	return t.in
}

// question writes the styled question line.
func (t *Terminal) question(message string, hint string) {
	fmt.Fprintf(t.out, "%s %s", logging.QuestionMarkStyle.Render("[?]"), logging.TitleStyle.Render(message))
	if hint != "" {
		fmt.Fprintf(t.out, " %s", logging.MutedStyle.Render(hint))
	}
	fmt.Fprint(t.out, ": ")
}

// readLine reads one trimmed answer. End of input on an empty line aborts.
func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", errors.WithStack(err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question, re-asking until the answer is recognized.
func (t *Terminal) Confirm(message string, defaultValue bool) (bool, error) {
	hint := "[y/N]"
	if defaultValue {
		hint = "[Y/n]"
	}
	for {
		t.question(message, hint)
		answer, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return defaultValue, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, logging.ErrorStyle.Render(fmt.Sprintf("'%s' is not a valid answer, please type y or n", answer)))
	}
}

// Input asks for free text.
func (t *Terminal) Input(message string, defaultValue string) (string, error) {
	hint := ""
	if defaultValue != "" {
		hint = "(" + defaultValue + ")"
	}
	t.question(message, hint)
	answer, err := t.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

// InputValidated asks for free text until validate accepts it.
func (t *Terminal) InputValidated(message string, defaultValue string, validate func(string) error) (string, error) {
	for {
		answer, err := t.Input(message, defaultValue)
		if err != nil {
			return "", err
		}
		if err = validate(answer); err != nil {
			fmt.Fprintln(t.out, logging.ErrorStyle.Render(err.Error()))
			continue
		}
		return answer, nil
	}
}

// Select runs a single choice picker.
func (t *Terminal) Select(message string, choices []string) (string, error) {
	selected, err := t.runPicker(newPicker(message, choices, false))
	if err != nil {
		return "", err
	}
	if len(selected) == 0 {
		return "", nil
	}
	return selected[0], nil
}

// MultiSelect runs a checkbox picker.
func (t *Terminal) MultiSelect(message string, choices []string) ([]string, error) {
	return t.runPicker(newPicker(message, choices, true))
}

// runPicker runs the picker program to completion and returns its selection.
func (t *Terminal) runPicker(model picker) ([]string, error) {
	program := tea.NewProgram(model, tea.WithInput(t.pickerInput()), tea.WithOutput(t.out))
	final, err := program.Run()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	result := final.(picker)
	if result.aborted {
		return nil, ErrAborted
	}
	return result.selection(), nil
}
