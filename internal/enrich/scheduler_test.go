package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/lingoz/internal/vocab"
)

func TestSchedule(t *testing.T) {
	tests := []struct {
		name   string
		center int
		count  int
		length int
		skip   func(int) bool
		want   []int
	}{
		{"radiates forward first", 10, 5, 100, nil, []int{10, 11, 9, 12, 8}},
		{"single", 3, 1, 10, nil, []int{3}},
		{"zero count", 3, 0, 10, nil, []int{}},
		{"clipped at start", 0, 5, 10, nil, []int{0, 1, 2}},
		{"clipped at end", 9, 5, 10, nil, []int{9, 8, 7}},
		{"empty list", 0, 5, 0, nil, []int{}},
		{"skips enriched", 10, 5, 100, func(i int) bool { return i == 11 || i == 8 }, []int{10, 9, 12}},
		{"everything enriched", 4, 3, 10, func(int) bool { return true }, []int{}},
		{"even count", 5, 4, 100, nil, []int{5, 6, 4, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Schedule(tt.center, tt.count, tt.length, tt.skip))
		})
	}
}

func makeList(n int, enriched ...int) *List {
	items := make([]vocab.Item, n)
	for i := range items {
		items[i] = vocab.Item{Word: wordAt(i)}
	}
	for _, i := range enriched {
		items[i].Pronunciation = "/x/"
		items[i].Sentences = []vocab.Sentence{{Text: "s"}}
	}
	return NewList(items)
}

func wordAt(i int) string {
	return string(rune('a'+i/26)) + string(rune('a'+i%26))
}

func TestScheduler_OnPositionChanged(t *testing.T) {
	list := makeList(20, 11)
	var batches [][]string
	s := NewScheduler(list, 5, func(batch []vocab.Item) {
		var words []string
		for _, it := range batch {
			words = append(words, it.Word)
		}
		batches = append(batches, words)
	})

	idx := s.OnPositionChanged(10)
	assert.Equal(t, []int{10, 9, 12, 8}, idx)
	assert.Equal(t, 10, list.Focus())
	assert.Equal(t, [][]string{{wordAt(10), wordAt(9), wordAt(12), wordAt(8)}}, batches)
}

func TestScheduler_ClampsFocusAndSkipsEmptyBatch(t *testing.T) {
	list := makeList(3, 0, 1, 2)
	dispatched := false
	s := NewScheduler(list, 5, func([]vocab.Item) { dispatched = true })

	assert.Nil(t, s.OnPositionChanged(99))
	assert.Equal(t, 2, list.Focus())
	assert.False(t, dispatched)
}
