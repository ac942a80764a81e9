package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// press feeds key messages to the picker and returns the resulting model.
func press(t *testing.T, p picker, keys ...tea.KeyMsg) picker {
	for _, k := range keys {
		model, _ := p.Update(k)
		var ok bool
		p, ok = model.(picker)
		require.True(t, ok)
	}
	return p
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestPickerSingleSelection(t *testing.T) {
	p := newPicker("Please select IDE", []string{"Brownie", "Foundry", "Hardhat"}, false)
	p = press(t, p, keyDown, keyDown, keyDown, keyUp, keyEnter)

	assert.True(t, p.done)
	assert.Equal(t, []string{"Foundry"}, p.selection())
}

func TestPickerMultiSelection(t *testing.T) {
	p := newPicker("Select files", []string{"a.sol", "b.sol", "c.sol"}, true)
	assert.Contains(t, p.View(), "[ ] a.sol")

	p = press(t, p, keySpace, keyDown, keyDown, keySpace, keyUp, keySpace, keySpace)
	assert.Contains(t, p.View(), "[x]")

	p = press(t, p, keyEnter)
	assert.True(t, p.done)
	assert.Equal(t, []string{"a.sol", "c.sol"}, p.selection())
}

func TestPickerAbort(t *testing.T) {
	p := newPicker("Select files", []string{"a.sol"}, true)
	p = press(t, p, keyEsc)
	assert.True(t, p.aborted)
	assert.False(t, p.done)
}

func TestPickerToggleDoesNotLeakBetweenModels(t *testing.T) {
	original := newPicker("Select files", []string{"a.sol"}, true)
	toggled := press(t, original, keySpace)
	assert.Empty(t, original.selection())
	assert.Equal(t, []string{"a.sol"}, toggled.selection())
}
