package exam

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	examctl "github.com/abhisek/lingoz/internal/exam"
	"github.com/abhisek/lingoz/internal/question"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/vocab"
)

// PoolFunc loads the vocabulary pool questions are built from.
type PoolFunc func(ctx context.Context) ([]vocab.Item, error)

// Deps wires the exam screen.
type Deps struct {
	Kind     question.Kind
	Source   question.Source
	Pool     PoolFunc
	Limit    int
	Tick     time.Duration
	Recorder examctl.Recorder
	Scorer   examctl.Scorer
	Log      *zap.Logger
}

// feedback is the result of the last answer, shown until a key is pressed.
type feedback struct {
	correct     bool
	answer      string
	explanation string
}

// ExamScreen runs one exam on the Bubble Tea loop.
type ExamScreen struct {
	deps   Deps
	ctl    *examctl.Controller
	timer  *tickTimer
	ctx    context.Context
	cancel context.CancelFunc

	mc       components.MultiChoice
	feedback *feedback
	cursor   int // review mode row
	notice   string
	errMsg   string
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.StatusProvider = (*ExamScreen)(nil)
var _ screen.Closer = (*ExamScreen)(nil)

// New creates an ExamScreen. Generation starts in Init.
func New(deps Deps) *ExamScreen {
	if deps.Tick <= 0 {
		deps.Tick = time.Second
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	timer := &tickTimer{interval: deps.Tick}
	opts := []examctl.Option{examctl.WithTimer(timer), examctl.WithLogger(deps.Log)}
	if deps.Recorder != nil {
		opts = append(opts, examctl.WithRecorder(deps.Recorder))
	}
	if deps.Scorer != nil {
		opts = append(opts, examctl.WithScorer(deps.Scorer))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ExamScreen{
		deps:   deps,
		ctl:    examctl.New(deps.Source, opts...),
		timer:  timer,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *ExamScreen) Init() tea.Cmd {
	return s.generate()
}

func (s *ExamScreen) Title() string {
	return fmt.Sprintf("Exam · %s", s.deps.Kind)
}

func (s *ExamScreen) Status() string {
	switch s.ctl.State() {
	case examctl.StateStarted, examctl.StatePaused, examctl.StateEnded, examctl.StateAnswerMode:
		return fmt.Sprintf("✓ %d  ✗ %d  %s", s.ctl.Correct(), s.ctl.Wrong(), layout.FormatTicks(s.ctl.Elapsed()))
	}
	return ""
}

// Close cancels generation in flight and stops the timer.
func (s *ExamScreen) Close() {
	s.cancel()
	s.timer.Stop()
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	switch s.ctl.State() {
	case examctl.StateReady:
		return []layout.KeyHint{{Key: "Enter", Description: "Start"}, {Key: "Esc", Description: "Back"}}
	case examctl.StateStarted:
		if s.feedback != nil {
			return []layout.KeyHint{{Key: "any key", Description: "Next"}}
		}
		return []layout.KeyHint{
			{Key: "1-9", Description: "Answer"},
			{Key: "↑↓", Description: "Move"},
			{Key: "P", Description: "Pause"},
		}
	case examctl.StatePaused:
		return []layout.KeyHint{{Key: "P", Description: "Resume"}}
	case examctl.StateEnded:
		return []layout.KeyHint{
			{Key: "V", Description: "Review"},
			{Key: "R", Description: "Retake missed"},
			{Key: "Esc", Description: "Done"},
		}
	case examctl.StateAnswerMode:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "V", Description: "Summary"},
			{Key: "R", Description: "Retake missed"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case batchReadyMsg:
		return s.handleBatch(msg)

	case tickMsg:
		if s.timer.accept(msg) {
			s.ctl.Tick()
		}
		return s, s.timer.cmd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// generate loads the pool and builds the batch off the UI loop.
func (s *ExamScreen) generate() tea.Cmd {
	ctx, deps := s.ctx, s.deps
	return func() tea.Msg {
		pool, err := deps.Pool(ctx)
		if err != nil {
			return batchReadyMsg{Err: fmt.Errorf("load words: %w", err)}
		}
		qs, err := deps.Source.Generate(ctx, pool, deps.Limit)
		return batchReadyMsg{Questions: qs, Err: err}
	}
}

func (s *ExamScreen) handleBatch(msg batchReadyMsg) (screen.Screen, tea.Cmd) {
	if errors.Is(msg.Err, context.Canceled) {
		return s, nil
	}
	err := msg.Err
	if err == nil {
		err = s.ctl.Load(msg.Questions)
	}
	if err != nil {
		s.errMsg = describeError(err)
		s.deps.Log.Info("exam not started", zap.Error(err))
	}
	return s, nil
}

func describeError(err error) string {
	switch {
	case errors.Is(err, question.ErrInsufficientData):
		return "Add at least 3 words before taking an exam."
	case errors.Is(err, examctl.ErrNoQuestions):
		return "No questions could be generated. Try again later."
	default:
		return err.Error()
	}
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	key := msg.String()
	s.notice = ""

	switch s.ctl.State() {
	case examctl.StateReady:
		if key == "enter" || key == "space" {
			if err := s.ctl.Begin(); err == nil {
				s.resetChoice()
			}
		}

	case examctl.StateStarted:
		if key == "p" {
			_ = s.ctl.Pause()
			if s.feedback != nil {
				s.feedback = nil
				s.resetChoice()
			}
			break
		}
		if s.feedback != nil {
			s.feedback = nil
			s.resetChoice()
			break
		}
		s.mc = s.mc.Update(msg)
		if s.mc.Submitted() {
			s.submit()
		}

	case examctl.StatePaused:
		if key == "p" || key == "enter" {
			_ = s.ctl.Resume()
		}

	case examctl.StateEnded, examctl.StateAnswerMode:
		return s.handleFinishedKey(key)
	}

	return s, s.timer.cmd()
}

func (s *ExamScreen) handleFinishedKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "v":
		if s.ctl.State() == examctl.StateEnded {
			_ = s.ctl.EnterReviewMode()
			s.cursor = 0
		} else {
			_ = s.ctl.ExitReviewMode()
		}
	case "r":
		if err := s.ctl.Retake(); errors.Is(err, examctl.ErrNoQuestions) {
			s.notice = "Nothing to retake, every answer was correct."
		}
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < s.ctl.Len()-1 {
			s.cursor++
		}
	case "enter":
		if s.ctl.State() == examctl.StateEnded {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *ExamScreen) submit() {
	q, ok := s.ctl.CurrentQuestion()
	if !ok {
		return
	}
	out, err := s.ctl.SubmitAnswer(q.Key(), s.mc.Value())
	if err != nil {
		s.deps.Log.Warn("answer rejected", zap.Error(err))
		s.resetChoice()
		return
	}
	if out.Ended {
		return
	}
	s.feedback = &feedback{
		correct:     out.Correct,
		answer:      q.CorrectAnswer,
		explanation: q.Explanation,
	}
}

func (s *ExamScreen) resetChoice() {
	if q, ok := s.ctl.CurrentQuestion(); ok {
		s.mc = components.NewMultiChoice(q.Options)
	}
}
