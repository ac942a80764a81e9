package prompt

import (
	"github.com/pkg/errors"
)

// Scripted is a Prompter replaying canned answers in order. Confirm consumes a bool, Input and Select a string, and
// MultiSelect a []string. Asked records every question, which lets tests assert on the wording and order of prompts.
type Scripted struct {
	answers []any

	// Asked holds the messages of every prompt, in order.
	Asked []string

	// ValidationErrors holds the errors InputValidated reported for rejected answers.
	ValidationErrors []error
}

// NewScripted creates a Scripted prompter replaying answers.
func NewScripted(answers ...any) *Scripted {
	return &Scripted{answers: answers}
}

// Remaining returns the number of answers not consumed yet.
func (s *Scripted) Remaining() int {
	return len(s.answers)
}

// next pops the next answer for message.
func (s *Scripted) next(message string) (any, error) {
	s.Asked = append(s.Asked, message)
	if len(s.answers) == 0 {
		return nil, errors.Errorf("no scripted answer left for prompt %q", message)
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	if err, ok := answer.(error); ok {
		return nil, err
	}
	return answer, nil
}

// Confirm pops a bool answer.
func (s *Scripted) Confirm(message string, defaultValue bool) (bool, error) {
	answer, err := s.next(message)
	if err != nil {
		return false, err
	}
	value, ok := answer.(bool)
	if !ok {
		return false, errors.Errorf("scripted answer %v for prompt %q is not a bool", answer, message)
	}
	return value, nil
}

// Input pops a string answer. An empty string selects defaultValue.
func (s *Scripted) Input(message string, defaultValue string) (string, error) {
	answer, err := s.next(message)
	if err != nil {
		return "", err
	}
	value, ok := answer.(string)
	if !ok {
		return "", errors.Errorf("scripted answer %v for prompt %q is not a string", answer, message)
	}
	if value == "" {
		return defaultValue, nil
	}
	return value, nil
}

// InputValidated pops string answers until one validates.
func (s *Scripted) InputValidated(message string, defaultValue string, validate func(string) error) (string, error) {
	for {
		value, err := s.Input(message, defaultValue)
		if err != nil {
			return "", err
		}
		if err = validate(value); err != nil {
			s.ValidationErrors = append(s.ValidationErrors, err)
			continue
		}
		return value, nil
	}
}

// Select pops a string answer. The answer need not be one of choices, which allows testing empty selections.
func (s *Scripted) Select(message string, choices []string) (string, error) {
	answer, err := s.next(message)
	if err != nil {
		return "", err
	}
	value, ok := answer.(string)
	if !ok {
		return "", errors.Errorf("scripted answer %v for prompt %q is not a string", answer, message)
	}
	return value, nil
}

// MultiSelect pops a []string answer.
func (s *Scripted) MultiSelect(message string, choices []string) ([]string, error) {
	answer, err := s.next(message)
	if err != nil {
		return nil, err
	}
	value, ok := answer.([]string)
	if !ok {
		return nil, errors.Errorf("scripted answer %v for prompt %q is not a []string", answer, message)
	}
	return value, nil
}
