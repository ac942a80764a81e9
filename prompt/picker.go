package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/crytic/fuzz-cli/logging"
)

// pickerKeyMap holds the key bindings of the picker.
type pickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Abort   key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "toggle")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Abort:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "abort")),
}

// picker is the bubbletea model behind Select (multi == false) and MultiSelect.
type picker struct {
	message string
	choices []string
	cursor  int
	checked map[int]bool
	multi   bool
	done    bool
	aborted bool
}

// newPicker creates a picker over choices.
func newPicker(message string, choices []string, multi bool) picker {
	return picker{
		message: message,
		choices: choices,
		checked: make(map[int]bool),
		multi:   multi,
	}
}

// Init implements tea.Model.
func (p picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch {
	case key.Matches(keyMsg, pickerKeys.Abort):
		p.aborted = true
		return p, tea.Quit
	case key.Matches(keyMsg, pickerKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(keyMsg, pickerKeys.Down):
		if p.cursor < len(p.choices)-1 {
			p.cursor++
		}
	case key.Matches(keyMsg, pickerKeys.Toggle):
		if p.multi {
			// Copy on write, the model is passed by value
			checked := make(map[int]bool, len(p.checked)+1)
			for i, v := range p.checked {
				checked[i] = v
			}
			checked[p.cursor] = !checked[p.cursor]
			p.checked = checked
		}
	case key.Matches(keyMsg, pickerKeys.Confirm):
		p.done = true
		return p, tea.Quit
	}
	return p, nil
}

// View implements tea.Model.
func (p picker) View() string {
	var b strings.Builder
	b.WriteString(logging.QuestionMarkStyle.Render("[?]") + " " + logging.TitleStyle.Render(p.message) + "\n")
	if p.done || p.aborted {
		if p.done {
			b.WriteString(logging.SelectedStyle.Render("  "+strings.Join(p.selection(), ", ")) + "\n")
		}
		return b.String()
	}

	for i, choice := range p.choices {
		cursor := "  "
		if i == p.cursor {
			cursor = logging.CursorStyle.Render("> ")
		}
		line := choice
		if p.multi {
			box := "[ ] "
			if p.checked[i] {
				box = "[x] "
				line = logging.SelectedStyle.Render(choice)
			}
			line = box + line
		}
		b.WriteString(cursor + line + "\n")
	}

	help := []key.Binding{pickerKeys.Up, pickerKeys.Down, pickerKeys.Confirm, pickerKeys.Abort}
	if p.multi {
		help = []key.Binding{pickerKeys.Up, pickerKeys.Down, pickerKeys.Toggle, pickerKeys.Confirm, pickerKeys.Abort}
	}
	hints := make([]string, 0, len(help))
	for _, binding := range help {
		hints = append(hints, binding.Help().Key+" "+binding.Help().Desc)
	}
	b.WriteString(logging.MutedStyle.Render(strings.Join(hints, " • ")) + "\n")
	return b.String()
}

// selection returns the chosen items: the item under the cursor for a single picker, checked items otherwise.
func (p picker) selection() []string {
	if !p.multi {
		if len(p.choices) == 0 {
			return nil
		}
		return []string{p.choices[p.cursor]}
	}
	selected := make([]string, 0, len(p.checked))
	for i, choice := range p.choices {
		if p.checked[i] {
			selected = append(selected, choice)
		}
	}
	return selected
}
