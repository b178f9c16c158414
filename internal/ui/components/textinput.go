package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with lingoz styling. LettersOnly
// rejects anything but letters, spaces, apostrophes and hyphens, which is
// what a word prefix can contain.
type TextInput struct {
	Model       textinput.Model
	Prompt      string
	LettersOnly bool
}

// NewTextInput creates a focused text input.
func NewTextInput(prompt, placeholder string, lettersOnly bool, maxLen int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if maxLen > 0 {
		ti.CharLimit = maxLen
	}
	return TextInput{Model: ti, Prompt: prompt, LettersOnly: lettersOnly}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.LettersOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			if r := []rune(kmsg.String()); len(r) == 1 && !wordRune(r[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the prompt and input.
func (t TextInput) View() string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Prompt) + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

func wordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == ' ', r == '\'', r == '-':
		return true
	case r > 127:
		return true
	}
	return false
}
