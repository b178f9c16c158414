package home

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

const titleFull = `█   █ █▄ █ █▀▀ █▀█ ▀█
█▄▄ █ █ ▀█ █▄█ █▄█ █▄`

const titleCompact = "L · I · N · G · O · Z"

// contentWidth is the shared width of every home section.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+6) || layout.IsCompactWidth(width)
	cw := contentWidth(width)

	title := titleFull
	if compact {
		title = titleCompact
	}

	sections := []string{
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(theme.Title.Render(title)),
	}
	if stats := h.statsText(); stats != "" {
		sections = append(sections, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Width(cw-2).
			Align(lipgloss.Center).
			Render(theme.Phonetic.Render(stats)))
	}
	if !h.deps.RemoteEnabled {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render("Set an LLM API key for cloze, grammar and reading exams"))
	}
	sections = append(sections, lipgloss.NewStyle().Width(cw).Render(h.menu.View()))
	if h.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Foreground(theme.Error).Render(h.notice))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(sections, "\n\n"))
}
