package vocab

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Writer applies edits to a Repository one at a time on a single worker.
// Every edit re-reads the stored row before saving, so edits of the same
// word made from different places never overwrite each other.
type Writer struct {
	repo Repository
	log  *zap.Logger
	ctx  context.Context

	mu      sync.Mutex
	queue   []edit
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

type edit struct {
	word   string
	mutate func(it *Item)
	done   chan struct{} // set for Flush markers
}

// NewWriter starts the worker. ctx bounds every repository call.
func NewWriter(ctx context.Context, repo Repository, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Writer{
		repo:    repo,
		log:     log,
		ctx:     ctx,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go w.processLoop()
	return w
}

// Update queues mutate for the stored copy of word and returns at once.
// Edits are applied in call order. Words with no stored row are skipped;
// edits after Close are dropped.
func (w *Writer) Update(word string, mutate func(it *Item)) {
	if word == "" || mutate == nil {
		return
	}
	if !w.enqueue(edit{word: word, mutate: mutate}) {
		w.log.Debug("vocabulary writer closed, dropping", zap.String("word", word))
	}
}

// Flush waits until every edit queued before the call has been applied.
func (w *Writer) Flush() {
	done := make(chan struct{})
	if !w.enqueue(edit{done: done}) {
		<-w.stopped
		return
	}
	<-done
}

// Close stops accepting edits and waits for the queue to drain.
func (w *Writer) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.signal()
	<-w.stopped
}

func (w *Writer) enqueue(e edit) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return false
	}
	w.queue = append(w.queue, e)
	w.mu.Unlock()
	w.signal()
	return true
}

func (w *Writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Writer) processLoop() {
	defer close(w.stopped)
	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.closed {
			w.mu.Unlock()
			<-w.wake
			w.mu.Lock()
		}
		batch := w.queue
		w.queue = nil
		closed := w.closed
		w.mu.Unlock()

		for _, e := range batch {
			w.apply(e)
		}
		if closed && len(batch) == 0 {
			return
		}
	}
}

func (w *Writer) apply(e edit) {
	if e.done != nil {
		close(e.done)
		return
	}
	if err := w.save(e); err != nil {
		w.log.Warn("word update failed", zap.String("word", e.word), zap.Error(err))
	}
}

func (w *Writer) save(e edit) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	it, err := w.repo.Get(w.ctx, e.word)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// The word may have been removed since the edit was queued.
			w.log.Debug("word update target missing", zap.String("word", e.word))
			return nil
		}
		return err
	}
	e.mutate(it)
	return w.repo.Save(w.ctx, *it)
}
