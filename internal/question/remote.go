package question

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lingoz/internal/dedup"
	"github.com/abhisek/lingoz/internal/llm"
	"github.com/abhisek/lingoz/internal/vocab"
)

// RemoteConfig tunes remote question generation.
type RemoteConfig struct {
	MaxTokens   int
	Temperature float64

	// Language names the language being studied.
	Language string

	// MaxPriorQuestions caps how many earlier prompts are sent as
	// "already asked" context.
	MaxPriorQuestions int

	// ContextWords is how many pool words grammar and reading prompts use.
	ContextWords int
}

func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		MaxTokens:         1024,
		Temperature:       0.8,
		Language:          "English",
		MaxPriorQuestions: 20,
		ContextWords:      3,
	}
}

// RemoteGenerator asks the remote generator for one question per slot, all
// slots in parallel. Concurrent requests for the same slot key share one
// call. A failed slot yields no question instead of failing the batch.
type RemoteGenerator struct {
	provider   llm.Provider
	kind       Kind
	cfg        RemoteConfig
	validators []Validator
	log        *zap.Logger

	calls dedup.Group[Question]

	mu    sync.Mutex
	rng   *rand.Rand
	prior []string
}

// NewRemoteGenerator creates a generator for a remote kind.
func NewRemoteGenerator(provider llm.Provider, kind Kind, cfg RemoteConfig, log *zap.Logger) (*RemoteGenerator, error) {
	if !kind.Remote() {
		return nil, fmt.Errorf("question kind %q is not generated remotely", kind)
	}
	if provider == nil {
		return nil, fmt.Errorf("%s questions need a configured LLM provider", kind)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RemoteGenerator{
		provider:   provider,
		kind:       kind,
		cfg:        cfg,
		validators: DefaultValidators(),
		log:        log,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}, nil
}

// WithRand replaces the random source. Used by tests.
func (g *RemoteGenerator) WithRand(rng *rand.Rand) *RemoteGenerator {
	g.mu.Lock()
	g.rng = rng
	g.mu.Unlock()
	return g
}

// Generate returns up to limit questions with unique prompts.
func (g *RemoteGenerator) Generate(ctx context.Context, pool []vocab.Item, limit int) ([]Question, error) {
	if err := checkPool(pool); err != nil {
		return nil, err
	}
	seeds, prior := g.plan(pool, clampLimit(limit, len(pool)))

	slots := make([]*Question, len(seeds))
	var eg errgroup.Group
	for i, s := range seeds {
		key := g.key(s)
		eg.Go(func() error {
			q, err := g.calls.Do(ctx, key, func(ctx context.Context) (Question, error) {
				return g.generateOne(ctx, s, prior)
			})
			if err != nil {
				g.log.Warn("question generation failed",
					zap.String("kind", string(g.kind)),
					zap.String("word", s.item.Word),
					zap.Error(err))
				return nil
			}
			// Shared results alias the same option slice.
			q.Options = append([]string(nil), q.Options...)
			slots[i] = &q
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(slots))
	out := make([]Question, 0, len(slots))
	for _, q := range slots {
		if q == nil || seen[q.Key()] {
			continue
		}
		seen[q.Key()] = true
		out = append(out, *q)
	}
	g.remember(out)
	return out, nil
}

// plan shuffles the pool and picks one seed per slot.
func (g *RemoteGenerator) plan(pool []vocab.Item, n int) ([]seed, []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	shuffled := make([]vocab.Item, len(pool))
	copy(shuffled, pool)
	g.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	topicOffset := g.rng.IntN(len(grammarTopics))
	seeds := make([]seed, n)
	for i := range n {
		s := seed{item: shuffled[i]}
		if g.kind == KindGrammar {
			s.topic = grammarTopics[(topicOffset+i)%len(grammarTopics)]
		}
		if g.kind != KindCloze {
			for j := 0; j < g.cfg.ContextWords && j < len(shuffled); j++ {
				s.context = append(s.context, shuffled[(i+j)%len(shuffled)].Word)
			}
		}
		seeds[i] = s
	}
	return seeds, append([]string(nil), g.prior...)
}

func (g *RemoteGenerator) key(s seed) string {
	if g.kind == KindGrammar {
		return fmt.Sprintf("%s:%s:%s", g.kind, s.topic, s.item.Word)
	}
	return fmt.Sprintf("%s:%s", g.kind, s.item.Word)
}

func (g *RemoteGenerator) remember(qs []Question) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, q := range qs {
		g.prior = append(g.prior, q.Prompt)
	}
	if max := g.cfg.MaxPriorQuestions; max > 0 && len(g.prior) > max {
		g.prior = append([]string(nil), g.prior[len(g.prior)-max:]...)
	}
}

// questionOutput is the raw response before repair and validation.
type questionOutput struct {
	Prompt        string   `json:"prompt"`
	Passage       string   `json:"passage"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

func (g *RemoteGenerator) generateOne(ctx context.Context, s seed, prior []string) (Question, error) {
	ctx = llm.WithPurpose(ctx, kindPurposes[g.kind])

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt(g.kind),
		Messages:    llm.UserPrompt(buildUserMessage(g.kind, s, prior, g.cfg)),
		Schema:      kindSchemas[g.kind],
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return Question{}, fmt.Errorf("generate %s question: %w", g.kind, err)
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return Question{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	q := Question{
		Kind:          g.kind,
		Prompt:        normalizeSpace(raw.Prompt),
		Passage:       normalizeSpace(raw.Passage),
		Options:       raw.Options,
		CorrectAnswer: raw.CorrectAnswer,
		Explanation:   normalizeSpace(raw.Explanation),
	}
	if g.kind == KindCloze {
		q.Word = s.item.Word
	}

	g.mu.Lock()
	EnsureOptionsValid(&q, g.rng)
	g.mu.Unlock()

	for _, v := range g.validators {
		if verr := v.Validate(&q); verr != nil {
			return Question{}, fmt.Errorf("%w: %v", ErrMalformedResponse, verr)
		}
	}
	return q, nil
}
