package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	examctl "github.com/abhisek/lingoz/internal/exam"
	"github.com/abhisek/lingoz/internal/question"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

func (s *ExamScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}

	var body string
	switch s.ctl.State() {
	case examctl.StatePreparing:
		body = theme.Hint.Width(width).Align(lipgloss.Center).Render("\n\nPreparing questions...")
	case examctl.StateReady:
		body = s.renderReady(width)
	case examctl.StateStarted:
		body = s.renderQuestion(width)
	case examctl.StatePaused:
		body = theme.Title.Width(width).Render("\n\nPaused") + "\n" +
			theme.Subtitle.Width(width).Render("Press P to resume")
	case examctl.StateEnded:
		body = s.renderSummary(width)
	case examctl.StateAnswerMode:
		body = s.renderReview(width, height)
	}
	if s.notice != "" {
		body += "\n\n" + theme.Hint.Width(width).Align(lipgloss.Center).Render(s.notice)
	}
	return body
}

func (s *ExamScreen) renderReady(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	title := "Ready"
	if s.ctl.Attempt() > 1 {
		title = fmt.Sprintf("Retake %d", s.ctl.Attempt()-1)
	}
	b.WriteString(theme.Title.Width(width).Render(title))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Width(width).Render(
		fmt.Sprintf("%d %s questions. Press Enter to start.", s.ctl.Len(), s.deps.Kind)))
	return b.String()
}

func (s *ExamScreen) renderQuestion(width int) string {
	q, ok := s.ctl.CurrentQuestion()
	if !ok {
		return ""
	}
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	answered := s.ctl.Correct() + s.ctl.Wrong()
	b.WriteString("  " + components.NewProgressBar("Progress", answered, s.ctl.Len(), inner).View())
	b.WriteString("\n\n")

	if q.Passage != "" {
		b.WriteString(theme.Passage.Width(inner).Render(q.Passage))
		b.WriteString("\n\n")
	}
	b.WriteString(lipgloss.NewStyle().Width(inner).PaddingLeft(2).Foreground(theme.Text).Bold(true).Render(promptText(q)))
	b.WriteString("\n\n")

	if s.feedback != nil {
		b.WriteString(s.renderFeedback(inner))
		return b.String()
	}
	b.WriteString(s.mc.View())
	return b.String()
}

func promptText(q question.Question) string {
	if q.Kind == question.KindVocabulary {
		return fmt.Sprintf("What does %q mean?", q.Prompt)
	}
	return q.Prompt
}

func (s *ExamScreen) renderFeedback(width int) string {
	var b strings.Builder
	if s.feedback.correct {
		b.WriteString(theme.Correct.Render("  Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("  Not quite."))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("  Answer: " + s.feedback.answer))
	}
	if s.feedback.explanation != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(width).PaddingLeft(2).Render(s.feedback.explanation))
	}
	return b.String()
}

func (s *ExamScreen) renderSummary(width int) string {
	sum, ok := s.ctl.Summary()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Exam complete"))
	b.WriteString("\n\n")

	lines := []string{
		fmt.Sprintf("Correct   %d", sum.Correct),
		fmt.Sprintf("Wrong     %d", sum.Wrong),
		fmt.Sprintf("Accuracy  %.0f%%", sum.Accuracy()*100),
		fmt.Sprintf("Time      %s", layout.FormatTicks(sum.ElapsedTicks)),
	}
	if len(sum.ByKind) > 1 {
		for _, k := range question.Kinds {
			if r, ok := sum.ByKind[k]; ok {
				lines = append(lines, fmt.Sprintf("%-9s %d/%d", k, r.Correct, r.Total))
			}
		}
	}
	for _, l := range lines {
		b.WriteString(layout.Center(width, theme.Body.Render(l)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderReview lists every question with correctness coloring, keeping the
// cursor row in view.
func (s *ExamScreen) renderReview(width, height int) string {
	qs := s.ctl.Questions()
	blocks := make([]string, len(qs))
	for i, q := range qs {
		var b strings.Builder
		marker := theme.Correct.Render("✓")
		if !q.IsCorrect() {
			marker = theme.Incorrect.Render("✗")
		}
		head := fmt.Sprintf(" %s %d. %s", marker, i+1, promptText(q))
		if i == s.cursor {
			head = theme.Selected.Render("▸") + head
		} else {
			head = " " + head
		}
		b.WriteString(head)
		b.WriteString("\n")
		b.WriteString(components.ReviewView(q.Options, q.CorrectAnswer, q.Selected))
		blocks[i] = b.String()
	}

	// Drop leading blocks until the cursor block fits.
	start := 0
	for start < s.cursor && lipgloss.Height(strings.Join(blocks[start:s.cursor+1], "\n")) > height {
		start++
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(blocks[start:], "\n"))
}
