// Package home is the landing screen: vocabulary stats and the main menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingoz/internal/question"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/vocab"
)

// Deps builds the screens reachable from home. A nil factory disables its
// menu entry.
type Deps struct {
	Repo vocab.Repository

	// RemoteEnabled reports whether generated question kinds are
	// available. Vocabulary questions never need a provider.
	RemoteEnabled bool

	NewExam    func(kind question.Kind) (screen.Screen, error)
	NewWords   func() screen.Screen
	NewHistory func() screen.Screen
}

type openFailedMsg struct {
	Err error
}

type statsLoadedMsg struct {
	Words   int
	Starred int
	Err     error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps    Deps
	menu    components.Menu
	words   int
	starred int
	loaded  bool
	notice  string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(deps Deps) *HomeScreen {
	var items []components.MenuItem
	for _, k := range question.Kinds {
		disabled := deps.NewExam == nil || (k.Remote() && !deps.RemoteEnabled)
		detail := ""
		if k.Remote() && !deps.RemoteEnabled {
			detail = "needs an LLM key"
		}
		items = append(items, components.MenuItem{
			Label:    examLabel(k),
			Detail:   detail,
			Disabled: disabled,
			Action:   openExam(deps.NewExam, k),
		})
	}
	items = append(items,
		components.MenuItem{Label: "Browse words", Disabled: deps.NewWords == nil, Action: push(deps.NewWords)},
		components.MenuItem{Label: "History", Disabled: deps.NewHistory == nil, Action: push(deps.NewHistory)},
		components.MenuItem{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	)

	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

func push(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		if build == nil {
			return nil
		}
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: build()}
		}
	}
}

func openExam(build func(question.Kind) (screen.Screen, error), k question.Kind) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			s, err := build(k)
			if err != nil {
				return openFailedMsg{Err: err}
			}
			return router.PushScreenMsg{Screen: s}
		}
	}
}

func examLabel(k question.Kind) string {
	switch k {
	case question.KindVocabulary:
		return "Vocabulary exam"
	default:
		s := string(k)
		return strings.ToUpper(s[:1]) + s[1:] + " exam"
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.deps.Repo == nil {
		return nil
	}
	repo := h.deps.Repo
	return func() tea.Msg {
		ctx := context.Background()
		words, err := repo.Count(ctx, vocab.Filter{})
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		starred, err := repo.Count(ctx, vocab.Filter{StarredOnly: true})
		return statsLoadedMsg{Words: words, Starred: starred, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err == nil {
			h.words, h.starred = msg.Words, msg.Starred
			h.loaded = true
		}
		return h, nil
	case openFailedMsg:
		h.notice = msg.Err.Error()
		return h, nil
	case tea.KeyMsg:
		h.notice = ""
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) statsText() string {
	if !h.loaded {
		return ""
	}
	return fmt.Sprintf("%d words  ·  %d starred", h.words, h.starred)
}
