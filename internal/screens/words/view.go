package words

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/ui/theme"
	"github.com/abhisek/lingoz/internal/vocab"
)

func (s *WordsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return theme.Hint.Width(width).Align(lipgloss.Center).Render("\n\nLoading words...")
	}

	var b strings.Builder
	if s.filtering {
		b.WriteString("  " + s.filter.View() + "\n\n")
		height -= 2
	}
	if s.list == nil || s.list.Len() == 0 {
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render("\nNo words yet. Add some with `lingoz words add`."))
		return b.String()
	}

	focus := s.list.Focus()
	var detail string
	if s.expanded {
		detail = renderDetail(s.list.At(focus), width)
		height -= lipgloss.Height(detail) + 1
	}
	if height < 1 {
		height = 1
	}

	// Keep the focused row in the visible window.
	start := focus - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > s.list.Len() {
		end = s.list.Len()
		if start = end - height; start < 0 {
			start = 0
		}
	}

	compact := layout.IsCompactWidth(width)
	for i := start; i < end; i++ {
		b.WriteString(s.renderRow(i, focus, compact, width))
		b.WriteString("\n")
		if i == focus && detail != "" {
			b.WriteString(detail)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *WordsScreen) renderRow(i, focus int, compact bool, width int) string {
	it := s.list.At(i)

	cursor := "  "
	wordStyle := theme.Unselected
	if i == focus {
		cursor = theme.Selected.Render("▸ ")
		wordStyle = theme.Selected
	}
	star := " "
	if it.Starred {
		star = theme.Starred.Render("★")
	}

	line := fmt.Sprintf("%s%s %s", cursor, star, wordStyle.Render(it.Word))
	if it.Pronunciation != "" {
		line += "  " + theme.Phonetic.Render(it.Pronunciation)
	}
	if !compact {
		if defs := it.DefinitionTexts(); len(defs) > 0 {
			line += "  " + theme.Dim.Render(defs[0])
		}
	}
	if i == s.flash {
		line += " " + theme.Correct.Render("•")
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func renderDetail(it vocab.Item, width int) string {
	var b strings.Builder
	for _, d := range it.Definitions {
		pos := ""
		if d.PartOfSpeech != "" {
			pos = theme.Hint.Render(d.PartOfSpeech) + " "
		}
		b.WriteString(pos + theme.Body.Render(d.Text) + "\n")
	}
	if len(it.Sentences) > 0 {
		b.WriteString("\n")
	}
	for _, sn := range it.Sentences {
		b.WriteString(theme.Body.Render("“" + sn.Text + "”"))
		if sn.Translation != "" {
			b.WriteString("\n" + theme.Dim.Render("  "+sn.Translation))
		}
		b.WriteString("\n")
	}
	b.WriteString(theme.Dim.Render(fmt.Sprintf("familiarity %+d", it.Familiarity)))

	inner := width - 6
	if inner < 20 {
		inner = 20
	}
	return theme.Card.Width(inner).MarginLeft(4).Render(b.String())
}
