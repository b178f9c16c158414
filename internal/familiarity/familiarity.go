// Package familiarity turns exam outcomes into per-word familiarity scores.
package familiarity

import "github.com/abhisek/lingoz/internal/vocab"

// Adjust returns the score after one answer: +1 when correct, -1 otherwise.
// Scores accumulate without floor or ceiling.
func Adjust(current int, correct bool) int {
	if correct {
		return current + 1
	}
	return current - 1
}

// Scorer applies Adjust to stored items. Nudges go through the shared
// vocab.Writer, so they queue behind any other edit of the same word.
type Scorer struct {
	w *vocab.Writer
}

// NewScorer creates a Scorer writing through w. The caller owns w.
func NewScorer(w *vocab.Writer) *Scorer {
	return &Scorer{w: w}
}

// Record queues an adjustment for word and returns without waiting for the
// store. Failures are logged by the writer.
func (s *Scorer) Record(word string, correct bool) {
	if word == "" {
		return
	}
	s.w.Update(word, func(it *vocab.Item) {
		it.Familiarity = Adjust(it.Familiarity, correct)
	})
}
