// Package exam drives a learner through a question batch: start, pause,
// answer, end, review and retake. The controller is single-writer and must
// only be touched from one goroutine (the UI loop).
package exam

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestions is returned when a batch or retake would hold no
	// questions. The controller does not leave its current state.
	ErrNoQuestions = errors.New("no questions available")

	// ErrInvalidTransition is matched by every *TransitionError.
	ErrInvalidTransition = errors.New("invalid exam transition")

	// ErrUnknownQuestion is returned when an answer names a prompt that is
	// not in the active batch.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrAlreadyAnswered is returned when a question in the active attempt
	// is answered twice.
	ErrAlreadyAnswered = errors.New("question already answered")
)

// State is the controller phase.
type State int

const (
	StatePreparing State = iota // waiting for a question batch
	StateReady                  // batch loaded, not started
	StateStarted                // answering, timer running
	StatePaused                 // timer stopped, answers rejected
	StateEnded                  // every question answered
	StateAnswerMode             // read-only review of the ended batch
)

func (s State) String() string {
	switch s {
	case StatePreparing:
		return "preparing"
	case StateReady:
		return "ready"
	case StateStarted:
		return "started"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateAnswerMode:
		return "answer-mode"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event names a requested transition.
type Event string

const (
	EventLoad   Event = "load"
	EventBegin  Event = "begin"
	EventPause  Event = "pause"
	EventResume Event = "resume"
	EventAnswer Event = "answer"
	EventReview Event = "review"
	EventRetake Event = "retake"
)

// TransitionError reports an event that is not valid in the current state.
type TransitionError struct {
	From  State
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
