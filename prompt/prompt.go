package prompt

import "github.com/pkg/errors"

// ErrAborted is returned when the user cancels a prompt (ctrl+c, esc or end of input).
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the user questions. Every interactive step of the CLI goes through a Prompter so that the terminal
// implementation can be replaced by a scripted one in tests.
type Prompter interface {
	// Confirm asks a yes/no question. An empty answer selects defaultValue.
	Confirm(message string, defaultValue bool) (bool, error)

	// Input asks for free text. An empty answer selects defaultValue.
	Input(message string, defaultValue string) (string, error)

	// InputValidated asks for free text until validate accepts the answer, printing each validation error.
	InputValidated(message string, defaultValue string, validate func(string) error) (string, error)

	// Select asks the user to pick exactly one of choices.
	Select(message string, choices []string) (string, error)

	// MultiSelect asks the user to pick any number of choices. The selection is returned in the order of choices.
	MultiSelect(message string, choices []string) ([]string, error)
}
