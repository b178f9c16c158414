package question

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/abhisek/lingoz/internal/vocab"
)

// LocalGenerator builds "pick the meaning" questions from the pool itself:
// the answer is one of the word's definitions and the two distractors are
// definitions of other pool words.
type LocalGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocalGenerator creates a LocalGenerator. A nil rng uses a randomly
// seeded source.
func NewLocalGenerator(rng *rand.Rand) *LocalGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &LocalGenerator{rng: rng}
}

// Generate returns up to limit questions. Words without definitions are
// skipped. When the pool lacks two distinct alternative definitions the
// missing distractors are empty strings.
func (g *LocalGenerator) Generate(_ context.Context, pool []vocab.Item, limit int) ([]Question, error) {
	if err := checkPool(pool); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	shuffled := make([]vocab.Item, len(pool))
	copy(shuffled, pool)
	g.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	limit = clampLimit(limit, len(shuffled))
	out := make([]Question, 0, limit)
	for i, it := range shuffled {
		if len(out) == limit {
			break
		}
		defs := it.DefinitionTexts()
		if len(defs) == 0 {
			continue
		}
		correct := defs[g.rng.IntN(len(defs))]

		options := append([]string{correct}, g.distractors(shuffled, i, correct)...)
		g.rng.Shuffle(len(options), func(a, b int) { options[a], options[b] = options[b], options[a] })

		out = append(out, Question{
			Kind:          KindVocabulary,
			Prompt:        it.Word,
			Options:       options,
			CorrectAnswer: correct,
			Word:          it.Word,
		})
	}
	return out, nil
}

// distractors picks two definitions of other pool members, distinct from
// each other and from correct.
func (g *LocalGenerator) distractors(pool []vocab.Item, self int, correct string) []string {
	others := make([]int, 0, len(pool)-1)
	for i := range pool {
		if i != self {
			others = append(others, i)
		}
	}
	g.rng.Shuffle(len(others), func(a, b int) { others[a], others[b] = others[b], others[a] })

	seen := map[string]bool{correct: true}
	picked := make([]string, 0, 2)
	for _, i := range others {
		defs := pool[i].DefinitionTexts()
		if len(defs) == 0 {
			continue
		}
		// Try this member's senses in random order.
		for _, j := range g.rng.Perm(len(defs)) {
			if d := defs[j]; !seen[d] {
				seen[d] = true
				picked = append(picked, d)
				break
			}
		}
		if len(picked) == 2 {
			return picked
		}
	}
	for len(picked) < 2 {
		picked = append(picked, "")
	}
	return picked
}
