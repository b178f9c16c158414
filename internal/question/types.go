// Package question builds multiple-choice exam questions, either locally
// from the vocabulary pool or through the remote generator.
package question

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/lingoz/internal/vocab"
)

var (
	// ErrInsufficientData is returned when the pool has fewer than
	// MinPoolSize items; a choice needs two distractors besides the answer.
	ErrInsufficientData = errors.New("insufficient data: at least 3 vocabulary items are required")

	// ErrMalformedResponse marks generator output that could not be decoded
	// into a usable question.
	ErrMalformedResponse = errors.New("malformed question response")
)

// MinPoolSize is the smallest pool a question batch can be built from.
const MinPoolSize = 3

// Kind is the question variant.
type Kind string

const (
	KindVocabulary Kind = "vocab"
	KindCloze      Kind = "cloze"
	KindGrammar    Kind = "grammar"
	KindReading    Kind = "reading"
)

// Kinds lists every question kind.
var Kinds = []Kind{KindVocabulary, KindCloze, KindGrammar, KindReading}

// ParseKind converts a flag value into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown question kind %q (want vocab, cloze, grammar or reading)", s)
}

// Remote reports whether questions of this kind come from the generator.
func (k Kind) Remote() bool {
	return k != KindVocabulary
}

// Question is one multiple-choice item.
type Question struct {
	Kind Kind

	// Prompt is what the learner answers.
	Prompt string

	// Passage is the reading text for KindReading; empty otherwise.
	Passage string

	Options       []string
	CorrectAnswer string

	// Selected is the learner's choice. A blank distractor can be chosen,
	// so an empty Selected does not mean unanswered; see Answered.
	Selected string
	answered bool

	// Word is the key of the vocabulary item this question exercises, or
	// empty when the question is not tied to a stored word.
	Word string

	Explanation string
}

// Key identifies the question within a batch. It is the prompt, qualified
// by the passage for reading questions, whose prompts repeat across texts.
func (q Question) Key() string {
	if q.Passage == "" {
		return q.Prompt
	}
	return q.Passage + "\n\n" + q.Prompt
}

// Answer records selected as the learner's choice.
func (q *Question) Answer(selected string) {
	q.Selected = selected
	q.answered = true
}

// ClearAnswer returns the question to the unanswered state.
func (q *Question) ClearAnswer() {
	q.Selected = ""
	q.answered = false
}

// Answered reports whether an option has been chosen, including a blank one.
func (q Question) Answered() bool {
	return q.answered
}

// IsCorrect reports whether the selected option is the correct answer.
func (q Question) IsCorrect() bool {
	return q.Answered() && q.Selected == q.CorrectAnswer
}

// Source produces a batch of questions from a vocabulary pool. Sources may
// return fewer than limit questions; limit <= 0 means one per pool item.
type Source interface {
	Generate(ctx context.Context, pool []vocab.Item, limit int) ([]Question, error)
}

func checkPool(pool []vocab.Item) error {
	if len(pool) < MinPoolSize {
		return fmt.Errorf("%w (have %d)", ErrInsufficientData, len(pool))
	}
	return nil
}

func clampLimit(limit, poolSize int) int {
	if limit <= 0 || limit > poolSize {
		return poolSize
	}
	return limit
}
