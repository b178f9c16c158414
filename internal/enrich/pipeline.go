package enrich

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lingoz/internal/dedup"
	"github.com/abhisek/lingoz/internal/vocab"
)

// Result is the detail produced for one word.
type Result struct {
	Word   string
	Detail Detail

	// Shared is true when the remote call was shared with another batch.
	Shared bool
}

// WorkingSet is the caller-owned list of items being enriched. The pipeline
// only reaches it through these methods, all of which must be called on the
// caller's UI-affine context.
type WorkingSet interface {
	// Update applies mutate to the item keyed by word and returns its index.
	// ok is false when the word is no longer in the set.
	Update(word string, mutate func(it *vocab.Item)) (index int, ok bool)

	// Focus is the index the user currently looks at.
	Focus() int

	// Refresh signals that the row at index changed.
	Refresh(index int)
}

// PersistFunc hands storage the edit just applied to word in the working
// set, to be replayed on the stored row. It runs on the UI-affine context
// and should not block; failures are the callee's to report.
// vocab.Writer.Update satisfies it.
type PersistFunc func(word string, mutate func(it *vocab.Item))

// Pipeline fans enrichment calls out in parallel and hands the results back
// for single-threaded application.
type Pipeline struct {
	enricher Enricher
	persist  PersistFunc
	log      *zap.Logger
	calls    dedup.Group[Detail]
}

// NewPipeline creates a Pipeline. persist may be nil.
func NewPipeline(e Enricher, persist PersistFunc, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{enricher: e, persist: persist, log: log}
}

// Enrich requests detail for every item in parallel. Each result is sent on
// the returned channel as it arrives, in no particular order; failures are
// logged and dropped without affecting the other items. The channel closes
// once every item has settled.
func (p *Pipeline) Enrich(ctx context.Context, items []vocab.Item) <-chan Result {
	out := make(chan Result, len(items))
	var g errgroup.Group

	for _, it := range items {
		g.Go(func() error {
			r := <-p.calls.Fetch(ctx, it.Word, func(ctx context.Context) (Detail, error) {
				return p.enricher.Enrich(ctx, it)
			})
			if r.Err != nil {
				p.log.Warn("enrichment dropped", zap.String("word", it.Word), zap.Error(r.Err))
				return nil
			}
			if r.Value.Empty() {
				return nil
			}
			out <- Result{Word: it.Word, Detail: r.Value, Shared: r.Shared}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(out)
	}()
	return out
}

// Run enriches items and applies each result to ws through post, which
// must execute the closure on the UI-affine context (mainloop.Loop.Post,
// tea.Program.Send wrappers and the like). done, if non-nil, is posted
// after the last result.
func (p *Pipeline) Run(ctx context.Context, ws WorkingSet, items []vocab.Item, post func(func()) bool, done func()) {
	results := p.Enrich(ctx, items)
	go func() {
		for r := range results {
			post(func() { p.Apply(ws, r) })
		}
		if done != nil {
			post(done)
		}
	}()
}

// Apply writes r back into ws, persists the updated item and signals a
// refresh when the row is still in focus. It reports the row index and
// whether a refresh was signalled; index is -1 when the word has left the
// working set.
func (p *Pipeline) Apply(ws WorkingSet, r Result) (index int, refreshed bool) {
	detail := r.Detail
	mutate := func(it *vocab.Item) {
		it.SetPronunciation(detail.Pronunciation)
		it.AppendSentence(detail.Sentence)
	}
	idx, ok := ws.Update(r.Word, mutate)
	if !ok {
		p.log.Debug("enrichment result for departed word", zap.String("word", r.Word))
		return -1, false
	}

	if p.persist != nil {
		p.persist(r.Word, mutate)
	}

	if idx != ws.Focus() {
		return idx, false
	}
	ws.Refresh(idx)
	return idx, true
}

// InFlight reports how many distinct words are being fetched right now.
func (p *Pipeline) InFlight() int {
	return p.calls.InFlight()
}
