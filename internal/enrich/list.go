package enrich

import "github.com/abhisek/lingoz/internal/vocab"

// List is an ordered WorkingSet. It is not safe for concurrent use; keep it
// on the UI-affine context.
type List struct {
	items     []vocab.Item
	index     map[string]int
	focus     int
	onRefresh func(index int)
}

// NewList copies items into a new List focused on index 0.
func NewList(items []vocab.Item) *List {
	l := &List{
		items: make([]vocab.Item, len(items)),
		index: make(map[string]int, len(items)),
	}
	for i, it := range items {
		l.items[i] = it.Clone()
		l.index[it.Word] = i
	}
	return l
}

// OnRefresh sets the callback fired by Refresh.
func (l *List) OnRefresh(fn func(index int)) {
	l.onRefresh = fn
}

func (l *List) Len() int { return len(l.items) }

// At returns a copy of the item at i.
func (l *List) At(i int) vocab.Item { return l.items[i].Clone() }

// Items returns copies of all items in order.
func (l *List) Items() []vocab.Item {
	out := make([]vocab.Item, len(l.items))
	for i, it := range l.items {
		out[i] = it.Clone()
	}
	return out
}

// Enriched reports whether the item at i already has detail.
func (l *List) Enriched(i int) bool {
	return l.items[i].Enriched()
}

// SetFocus clamps i into range and makes it the focused row.
func (l *List) SetFocus(i int) {
	switch {
	case len(l.items) == 0:
		i = 0
	case i < 0:
		i = 0
	case i >= len(l.items):
		i = len(l.items) - 1
	}
	l.focus = i
}

func (l *List) Focus() int { return l.focus }

func (l *List) Update(word string, mutate func(it *vocab.Item)) (int, bool) {
	i, ok := l.index[word]
	if !ok {
		return -1, false
	}
	mutate(&l.items[i])
	return i, true
}

// Replace swaps in a new version of the item at the same word key.
func (l *List) Replace(it vocab.Item) bool {
	i, ok := l.index[it.Word]
	if !ok {
		return false
	}
	l.items[i] = it.Clone()
	return true
}

func (l *List) Refresh(index int) {
	if l.onRefresh != nil {
		l.onRefresh(index)
	}
}
