package exam

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/lingoz/internal/question"
	"github.com/abhisek/lingoz/internal/store"
	"github.com/abhisek/lingoz/internal/vocab"
)

// Timer measures elapsed time while an attempt is running. Ticks are
// delivered back through Controller.Tick on the controller's goroutine.
type Timer interface {
	Start()
	Stop()
}

// Recorder persists exam history. store.EventRepo satisfies it.
type Recorder interface {
	AppendExamEvent(ctx context.Context, data store.ExamEventData) error
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
}

// Scorer receives the outcome of every answered question tied to a stored
// word. It must not block. familiarity.Scorer satisfies it.
type Scorer interface {
	Record(word string, correct bool)
}

// Outcome is the result of a submitted answer.
type Outcome struct {
	Correct bool

	// Ended is set when the answer completed the attempt.
	Ended bool

	// Next is the index of the next unanswered question when not ended.
	Next int
}

// Option configures a Controller.
type Option func(*Controller)

func WithTimer(t Timer) Option { return func(c *Controller) { c.timer = t } }

func WithRecorder(r Recorder) Option { return func(c *Controller) { c.recorder = r } }

func WithScorer(s Scorer) Option { return func(c *Controller) { c.scorer = s } }

func WithLogger(log *zap.Logger) Option { return func(c *Controller) { c.log = log } }

// Controller is the exam state machine.
type Controller struct {
	source   question.Source
	timer    Timer
	recorder Recorder
	scorer   Scorer
	log      *zap.Logger

	state     State
	questions []question.Question
	current   int
	correct   int
	wrong     int
	elapsed   int
	sessionID string
	attempt   int
	summary   *Summary
}

// New creates a controller in StatePreparing. source may be nil when
// batches are supplied through Load.
func New(source question.Source, opts ...Option) *Controller {
	c := &Controller{source: source, state: StatePreparing}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Start generates a batch from pool and loads it. On error the controller
// stays in StatePreparing.
func (c *Controller) Start(ctx context.Context, pool []vocab.Item, limit int) ([]question.Question, error) {
	if c.state != StatePreparing {
		return nil, &TransitionError{From: c.state, Event: EventLoad}
	}
	if c.source == nil {
		return nil, fmt.Errorf("exam has no question source")
	}
	qs, err := c.source.Generate(ctx, pool, limit)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	if err := c.Load(qs); err != nil {
		return nil, err
	}
	return c.Questions(), nil
}

// Load installs a generated batch and moves to StateReady. Use it when the
// batch was generated off the controller's goroutine.
func (c *Controller) Load(qs []question.Question) error {
	if c.state != StatePreparing {
		return &TransitionError{From: c.state, Event: EventLoad}
	}
	if len(qs) == 0 {
		return ErrNoQuestions
	}
	c.questions = make([]question.Question, len(qs))
	for i, q := range qs {
		q.ClearAnswer()
		c.questions[i] = q
	}
	c.sessionID = uuid.NewString()
	c.attempt = 1
	c.reset()
	c.state = StateReady
	return nil
}

// Begin starts the attempt and the timer.
func (c *Controller) Begin() error {
	if c.state != StateReady {
		return &TransitionError{From: c.state, Event: EventBegin}
	}
	c.state = StateStarted
	c.startTimer()
	c.recordExam(store.ExamActionStart)
	return nil
}

// Pause stops the timer. Answers are rejected until Resume.
func (c *Controller) Pause() error {
	if c.state != StateStarted {
		return &TransitionError{From: c.state, Event: EventPause}
	}
	c.state = StatePaused
	c.stopTimer()
	return nil
}

// Resume restarts the timer after Pause.
func (c *Controller) Resume() error {
	if c.state != StatePaused {
		return &TransitionError{From: c.state, Event: EventResume}
	}
	c.state = StateStarted
	c.startTimer()
	return nil
}

// SubmitAnswer records selected for the question identified by key, which
// is question.Question.Key: the prompt, qualified by the passage for reading
// questions. Questions are matched by key, not position.
func (c *Controller) SubmitAnswer(key, selected string) (Outcome, error) {
	if c.state != StateStarted {
		return Outcome{}, &TransitionError{From: c.state, Event: EventAnswer}
	}
	idx := c.indexOf(key)
	if idx < 0 {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownQuestion, key)
	}
	q := &c.questions[idx]
	if q.Answered() {
		return Outcome{}, fmt.Errorf("%w: %q", ErrAlreadyAnswered, key)
	}

	q.Answer(selected)
	ok := q.IsCorrect()
	if ok {
		c.correct++
	} else {
		c.wrong++
	}
	if q.Word != "" && c.scorer != nil {
		c.scorer.Record(q.Word, ok)
	}
	c.recordAnswer(*q)

	if c.correct+c.wrong == len(c.questions) {
		c.end()
		return Outcome{Correct: ok, Ended: true}, nil
	}
	c.current = c.nextUnanswered(idx)
	return Outcome{Correct: ok, Next: c.current}, nil
}

// Tick advances the elapsed counter while started.
func (c *Controller) Tick() {
	if c.state == StateStarted {
		c.elapsed++
	}
}

// EnterReviewMode shows the ended batch read-only.
func (c *Controller) EnterReviewMode() error {
	if c.state != StateEnded {
		return &TransitionError{From: c.state, Event: EventReview}
	}
	c.state = StateAnswerMode
	return nil
}

// ExitReviewMode returns from review to the ended state.
func (c *Controller) ExitReviewMode() error {
	if c.state != StateAnswerMode {
		return &TransitionError{From: c.state, Event: EventReview}
	}
	c.state = StateEnded
	return nil
}

// Retake narrows the batch to the questions answered wrong in the last
// attempt and returns to StateReady with counters and timer reset. With no
// wrong answers it returns ErrNoQuestions and the state is unchanged.
func (c *Controller) Retake() error {
	if c.state != StateEnded && c.state != StateAnswerMode {
		return &TransitionError{From: c.state, Event: EventRetake}
	}
	var missed []question.Question
	for _, q := range c.questions {
		if !q.IsCorrect() {
			q.ClearAnswer()
			missed = append(missed, q)
		}
	}
	if len(missed) == 0 {
		return ErrNoQuestions
	}
	c.questions = missed
	c.attempt++
	c.reset()
	c.state = StateReady
	c.recordExam(store.ExamActionRetake)
	return nil
}

// Reset abandons the batch and returns to StatePreparing so a new batch
// can be loaded.
func (c *Controller) Reset() {
	c.reset()
	c.questions = nil
	c.sessionID = ""
	c.attempt = 0
	c.state = StatePreparing
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Correct() int { return c.correct }

func (c *Controller) Wrong() int { return c.wrong }

// Elapsed returns the ticks counted in the current attempt.
func (c *Controller) Elapsed() int { return c.elapsed }

func (c *Controller) SessionID() string { return c.sessionID }

// Attempt is 1 for the first run and increments on every retake.
func (c *Controller) Attempt() int { return c.attempt }

// Current returns the index of the question being answered.
func (c *Controller) Current() int { return c.current }

// Len returns the size of the active batch.
func (c *Controller) Len() int { return len(c.questions) }

// Questions returns a copy of the active batch.
func (c *Controller) Questions() []question.Question {
	out := make([]question.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// CurrentQuestion returns the question being answered.
func (c *Controller) CurrentQuestion() (question.Question, bool) {
	if c.current < 0 || c.current >= len(c.questions) {
		return question.Question{}, false
	}
	return c.questions[c.current], true
}

// Summary returns the summary of the last ended attempt.
func (c *Controller) Summary() (Summary, bool) {
	if c.summary == nil {
		return Summary{}, false
	}
	return *c.summary, true
}

func (c *Controller) reset() {
	c.current = 0
	c.correct = 0
	c.wrong = 0
	c.elapsed = 0
	c.summary = nil
	c.stopTimer()
}

func (c *Controller) end() {
	c.stopTimer()
	c.state = StateEnded
	s := buildSummary(c)
	c.summary = &s
	c.recordExam(store.ExamActionEnd)
}

func (c *Controller) indexOf(key string) int {
	for i, q := range c.questions {
		if q.Key() == key {
			return i
		}
	}
	return -1
}

// nextUnanswered searches forward from after, wrapping around.
func (c *Controller) nextUnanswered(after int) int {
	n := len(c.questions)
	for step := 1; step <= n; step++ {
		i := (after + step) % n
		if !c.questions[i].Answered() {
			return i
		}
	}
	return after
}

func (c *Controller) startTimer() {
	if c.timer != nil {
		c.timer.Start()
	}
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Controller) kindLabel() string {
	if len(c.questions) == 0 {
		return ""
	}
	return string(c.questions[0].Kind)
}

func (c *Controller) recordExam(action string) {
	if c.recorder == nil {
		return
	}
	err := c.recorder.AppendExamEvent(context.Background(), store.ExamEventData{
		SessionID:    c.sessionID,
		Action:       action,
		Kind:         c.kindLabel(),
		Total:        len(c.questions),
		Correct:      c.correct,
		Wrong:        c.wrong,
		ElapsedTicks: c.elapsed,
	})
	if err != nil {
		c.log.Warn("exam event not recorded", zap.String("action", action), zap.Error(err))
	}
}

func (c *Controller) recordAnswer(q question.Question) {
	if c.recorder == nil {
		return
	}
	err := c.recorder.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID:     c.sessionID,
		Kind:          string(q.Kind),
		Word:          q.Word,
		Prompt:        q.Prompt,
		Selected:      q.Selected,
		CorrectAnswer: q.CorrectAnswer,
		Correct:       q.IsCorrect(),
	})
	if err != nil {
		c.log.Warn("answer event not recorded", zap.String("word", q.Word), zap.Error(err))
	}
}
