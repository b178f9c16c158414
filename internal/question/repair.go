package question

import (
	"math/rand/v2"
	"strings"
)

// normalizeSpace trims s and collapses inner whitespace runs to one space.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// EnsureOptionsValid restores the invariant that q.Options contains
// q.CorrectAnswer exactly once. Options and answer are whitespace
// normalized and exact duplicates dropped. If the answer is missing it
// overwrites the first slot and the options are reshuffled.
func EnsureOptionsValid(q *Question, rng *rand.Rand) {
	q.CorrectAnswer = normalizeSpace(q.CorrectAnswer)

	seen := make(map[string]bool, len(q.Options))
	opts := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		o = normalizeSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		opts = append(opts, o)
	}

	if !seen[q.CorrectAnswer] {
		if len(opts) == 0 {
			opts = append(opts, q.CorrectAnswer)
		} else {
			opts[0] = q.CorrectAnswer
		}
		shuffle := rand.Shuffle
		if rng != nil {
			shuffle = rng.Shuffle
		}
		shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	}
	q.Options = opts
}
