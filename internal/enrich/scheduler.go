package enrich

import "github.com/abhisek/lingoz/internal/vocab"

// Schedule returns up to count indices radiating from center: center,
// center+1, center-1, center+2, center-2, ... Candidates outside [0, length)
// or for which skip reports true are dropped, so the result may be shorter
// than count.
func Schedule(center, count, length int, skip func(index int) bool) []int {
	out := make([]int, 0, count)
	for i := range count {
		idx := center
		switch {
		case i == 0:
		case i%2 == 1:
			idx = center + (i+1)/2
		default:
			idx = center - i/2
		}
		if idx < 0 || idx >= length {
			continue
		}
		if skip != nil && skip(idx) {
			continue
		}
		out = append(out, idx)
	}
	return out
}

// Scheduler turns focus changes on a List into enrichment batches.
type Scheduler struct {
	list     *List
	window   int
	dispatch func(batch []vocab.Item)
}

// NewScheduler creates a Scheduler warming window rows around the focus.
// dispatch receives each non-empty batch; it typically calls Pipeline.Run.
func NewScheduler(list *List, window int, dispatch func(batch []vocab.Item)) *Scheduler {
	return &Scheduler{list: list, window: window, dispatch: dispatch}
}

// OnPositionChanged moves the focus to newIndex and dispatches a batch for
// the rows around it that still lack detail. It returns the scheduled
// indices. Calling it again before an earlier batch finishes is fine;
// overlapping words share their remote call.
func (s *Scheduler) OnPositionChanged(newIndex int) []int {
	s.list.SetFocus(newIndex)
	idx := Schedule(s.list.Focus(), s.window, s.list.Len(), s.list.Enriched)
	if len(idx) == 0 {
		return nil
	}

	batch := make([]vocab.Item, len(idx))
	for i, n := range idx {
		batch[i] = s.list.At(n)
	}
	s.dispatch(batch)
	return idx
}
