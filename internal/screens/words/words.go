// Package words is the vocabulary browser. Rows around the cursor are
// enriched in the background as the cursor moves.
package words

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/lingoz/internal/enrich"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/vocab"
)

// Updater replays an edit on the stored copy of a word without blocking.
// vocab.Writer satisfies it.
type Updater interface {
	Update(word string, mutate func(it *vocab.Item))
}

// Deps wires the browser.
type Deps struct {
	Repo   vocab.Repository
	Filter vocab.Filter

	// Writer stores star and view edits; nil keeps them in memory only.
	Writer Updater

	// Pipeline enriches rows near the cursor; nil disables enrichment.
	Pipeline *enrich.Pipeline
	Window   int

	Log *zap.Logger
}

type wordsLoadedMsg struct {
	Items []vocab.Item
	Err   error
}

// enrichResultMsg carries one pipeline result back to the UI loop. ok is
// false once the batch channel is drained.
type enrichResultMsg struct {
	results <-chan enrich.Result
	result  enrich.Result
	ok      bool
}

// WordsScreen lists vocabulary items with their detail.
type WordsScreen struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc

	list    *enrich.List
	sched   *enrich.Scheduler
	queued  [][]vocab.Item

	expanded  bool
	filtering bool
	filter    components.TextInput
	flash     int // row refreshed by the last result, -1 for none
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*WordsScreen)(nil)
var _ screen.KeyHintProvider = (*WordsScreen)(nil)
var _ screen.StatusProvider = (*WordsScreen)(nil)
var _ screen.Closer = (*WordsScreen)(nil)
var _ screen.EscHandler = (*WordsScreen)(nil)

// New creates a WordsScreen. Items load in Init.
func New(deps Deps) *WordsScreen {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Window <= 0 {
		deps.Window = 5
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WordsScreen{deps: deps, ctx: ctx, cancel: cancel, flash: -1}
}

func (s *WordsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *WordsScreen) Title() string {
	if p := s.deps.Filter.LetterPrefix; p != "" {
		return fmt.Sprintf("Words · %s…", p)
	}
	return "Words"
}

func (s *WordsScreen) Status() string {
	if s.deps.Pipeline == nil {
		return ""
	}
	if n := s.deps.Pipeline.InFlight(); n > 0 {
		return fmt.Sprintf("fetching %d", n)
	}
	return ""
}

// Close abandons enrichment in flight. Results already fetched by other
// waiters are unaffected.
func (s *WordsScreen) Close() {
	s.cancel()
}

// HandlesEsc reports whether Esc should close the prefix input rather than
// leave the screen.
func (s *WordsScreen) HandlesEsc() bool {
	return s.filtering
}

func (s *WordsScreen) KeyHints() []layout.KeyHint {
	if s.filtering {
		return []layout.KeyHint{{Key: "Enter", Description: "Apply"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Details"},
		{Key: "S", Description: "Star"},
		{Key: "/", Description: "Prefix"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WordsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case wordsLoadedMsg:
		return s.handleLoaded(msg)

	case enrichResultMsg:
		return s.handleResult(msg)

	case tea.KeyMsg:
		if s.filtering {
			return s.handleFilterKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.filtering {
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *WordsScreen) load() tea.Cmd {
	ctx, repo, f := s.ctx, s.deps.Repo, s.deps.Filter
	return func() tea.Msg {
		items, err := repo.Fetch(ctx, f, 0)
		return wordsLoadedMsg{Items: items, Err: err}
	}
}

func (s *WordsScreen) handleLoaded(msg wordsLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loaded = true
	if msg.Err != nil {
		s.deps.Log.Warn("words not loaded", zap.Error(msg.Err))
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.errMsg = ""
	s.list = enrich.NewList(msg.Items)
	s.list.OnRefresh(func(i int) { s.flash = i })
	s.sched = enrich.NewScheduler(s.list, s.deps.Window, func(batch []vocab.Item) {
		s.queued = append(s.queued, batch)
	})
	return s, s.moveTo(0)
}

// moveTo focuses row i and starts enrichment for nearby rows.
func (s *WordsScreen) moveTo(i int) tea.Cmd {
	if s.list == nil || s.list.Len() == 0 {
		return nil
	}
	s.flash = -1
	if s.deps.Pipeline == nil {
		s.list.SetFocus(i)
		return nil
	}
	s.sched.OnPositionChanged(i)
	return s.startQueued()
}

func (s *WordsScreen) startQueued() tea.Cmd {
	var cmds []tea.Cmd
	for _, batch := range s.queued {
		ch := s.deps.Pipeline.Enrich(s.ctx, batch)
		cmds = append(cmds, waitResult(ch))
	}
	s.queued = nil
	return tea.Batch(cmds...)
}

func waitResult(ch <-chan enrich.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		return enrichResultMsg{results: ch, result: r, ok: ok}
	}
}

func (s *WordsScreen) handleResult(msg enrichResultMsg) (screen.Screen, tea.Cmd) {
	if !msg.ok {
		return s, nil
	}
	if s.ctx.Err() == nil && s.list != nil {
		s.deps.Pipeline.Apply(s.list, msg.result)
	}
	return s, waitResult(msg.results)
}

func (s *WordsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.list == nil {
		return s, nil
	}
	focus := s.list.Focus()
	switch msg.String() {
	case "up", "k":
		return s, s.moveTo(focus - 1)
	case "down", "j":
		return s, s.moveTo(focus + 1)
	case "pgup":
		return s, s.moveTo(focus - 10)
	case "pgdown":
		return s, s.moveTo(focus + 10)
	case "home", "g":
		return s, s.moveTo(0)
	case "end", "G":
		return s, s.moveTo(s.list.Len() - 1)
	case "enter":
		s.expanded = !s.expanded
		if s.expanded && s.list.Len() > 0 {
			now := time.Now()
			s.edit(focus, func(it *vocab.Item) { it.Touch(now) })
		}
	case "s":
		if s.list.Len() > 0 {
			starred := !s.list.At(focus).Starred
			s.edit(focus, func(it *vocab.Item) { it.Starred = starred })
		}
	case "/":
		s.filtering = true
		s.filter = components.NewTextInput("prefix: ", "type letters", true, 32)
		return s, s.filter.Init()
	}
	return s, nil
}

func (s *WordsScreen) handleFilterKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.filtering = false
		return s, nil
	case "enter":
		s.filtering = false
		s.deps.Filter.LetterPrefix = s.filter.Value()
		s.loaded = false
		return s, s.load()
	}

	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	return s, cmd
}

// edit applies mutate to row i and queues the same edit for storage.
func (s *WordsScreen) edit(i int, mutate func(it *vocab.Item)) {
	it := s.list.At(i)
	mutate(&it)
	s.list.Replace(it)
	if s.deps.Writer != nil {
		s.deps.Writer.Update(it.Word, mutate)
	}
}
