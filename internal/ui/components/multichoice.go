package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Options are chosen with the
// arrows and Enter or with their number key.
type MultiChoice struct {
	Options  []string
	Selected int

	// Chosen is the submitted option index, -1 until Enter or a number key.
	Chosen int
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, Chosen: -1}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) MultiChoice {
	if m.Chosen >= 0 {
		return m
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		if len(m.Options) > 0 {
			m.Chosen = m.Selected
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Selected = i
				m.Chosen = i
			}
		}
	}
	return m
}

// Submitted reports whether an option was chosen.
func (m MultiChoice) Submitted() bool {
	return m.Chosen >= 0
}

// Value returns the chosen option text.
func (m MultiChoice) Value() string {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return ""
	}
	return m.Options[m.Chosen]
}

// View renders the options with the cursor on Selected.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		style := theme.Unselected
		if i == m.Selected {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d) %s", prefix, i+1, displayOption(opt))))
		b.WriteString("\n")
	}
	return b.String()
}

// ReviewView renders options read-only: the correct answer in green and a
// wrong selection in red.
func ReviewView(options []string, correct, selected string) string {
	var b strings.Builder
	for i, opt := range options {
		line := fmt.Sprintf("  %d) %s", i+1, displayOption(opt))
		var style lipgloss.Style
		switch {
		case opt == correct:
			style = theme.Correct
		case opt == selected:
			style = theme.Incorrect
		default:
			style = theme.Dim
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func displayOption(opt string) string {
	if opt == "" {
		return "—"
	}
	return opt
}
