// Package history lists finished exams and the words answered most often.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/store"
	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

const (
	examLimit = 200
	wordLimit = 20
)

type historyLoadedMsg struct {
	Exams []store.ExamEventRecord
	Words []store.WordAccuracy
	Err   error
}

// HistoryScreen displays finished exams.
type HistoryScreen struct {
	eventRepo store.EventRepo
	exams     []store.ExamEventRecord
	words     []store.WordAccuracy
	selected  int
	expanded  map[int]bool
	showWords bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		ctx := context.Background()

		events, err := repo.QueryExamEvents(ctx, store.QueryOpts{Limit: examLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		var ended []store.ExamEventRecord
		for _, e := range events {
			if e.Action == store.ExamActionEnd {
				ended = append(ended, e)
			}
		}

		// Word stats are optional; the exam list still renders without them.
		words, _ := repo.WordAccuracy(ctx, wordLimit)
		return historyLoadedMsg{Exams: ended, Words: words}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "W", Description: "Words"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.exams = msg.Exams
			s.words = msg.Words
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.exams)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		case "w":
			s.showWords = !s.showWords
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if s.showWords {
		return s.wordsView(width)
	}
	if len(s.exams) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No exams yet. Take one from the home screen!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, e := range s.exams {
		var accuracy float64
		if e.Total > 0 {
			accuracy = float64(e.Correct) / float64(e.Total) * 100
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-8s %s  %d questions  %.0f%% accuracy",
			prefix, e.Timestamp.Local().Format("Jan 02, 2006"), e.Kind,
			layout.FormatTicks(e.ElapsedTicks), e.Total, accuracy)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    %s  %s  session %s",
				theme.Correct.Render(fmt.Sprintf("%d correct", e.Correct)),
				theme.Incorrect.Render(fmt.Sprintf("%d wrong", e.Wrong)),
				shortID(e.SessionID))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, detail))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (s *HistoryScreen) wordsView(width int) string {
	if len(s.words) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No answers recorded yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, w := range s.words {
		pct := float64(w.Correct) / float64(w.Answers) * 100
		style := theme.Correct
		if pct < 50 {
			style = theme.Incorrect
		}
		line := fmt.Sprintf("%-20s %3d answered  %s",
			w.Word, w.Answers, style.Render(fmt.Sprintf("%3.0f%%", pct)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
