package familiarity

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoz/internal/vocab"
)

func TestAdjust(t *testing.T) {
	tests := []struct {
		cur     int
		correct bool
		want    int
	}{
		{0, true, 1},
		{0, false, -1},
		{-5, false, -6},
		{41, true, 42},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Adjust(tt.cur, tt.correct), "Adjust(%d, %v)", tt.cur, tt.correct)
	}
}

func TestAdjust_Unbounded(t *testing.T) {
	score := 0
	for range 100 {
		score = Adjust(score, false)
	}
	assert.Equal(t, -100, score)
}

type memRepo struct {
	mu    sync.Mutex
	items map[string]vocab.Item
}

func newMemRepo(items ...vocab.Item) *memRepo {
	r := &memRepo{items: map[string]vocab.Item{}}
	for _, it := range items {
		r.items[it.Word] = it
	}
	return r
}

func (r *memRepo) Fetch(context.Context, vocab.Filter, int) ([]vocab.Item, error) { return nil, nil }
func (r *memRepo) Count(context.Context, vocab.Filter) (int, error)              { return len(r.items), nil }

func (r *memRepo) Get(_ context.Context, word string) (*vocab.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[word]
	if !ok {
		return nil, vocab.ErrNotFound
	}
	return &it, nil
}

func (r *memRepo) Save(_ context.Context, it vocab.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.Word] = it
	return nil
}

func TestScorer_ConcurrentNudgesOnSameWord(t *testing.T) {
	repo := newMemRepo(vocab.Item{Word: "apple", Familiarity: 0})
	w := vocab.NewWriter(context.Background(), repo, nil)
	s := NewScorer(w)

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Record("apple", i%4 != 0) // 30 correct, 10 wrong
		}()
	}
	wg.Wait()
	w.Close()

	it, err := repo.Get(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, 20, it.Familiarity)
}

func TestScorer_KeepsConcurrentStar(t *testing.T) {
	repo := newMemRepo(vocab.Item{Word: "apple", Familiarity: 3})
	w := vocab.NewWriter(context.Background(), repo, nil)
	s := NewScorer(w)

	s.Record("apple", false)
	w.Update("apple", func(it *vocab.Item) { it.Starred = true })
	s.Record("apple", false)
	w.Close()

	it, err := repo.Get(context.Background(), "apple")
	require.NoError(t, err)
	assert.True(t, it.Starred)
	assert.Equal(t, 1, it.Familiarity)
}

func TestScorer_MissingOrBlankWordSkipped(t *testing.T) {
	repo := newMemRepo()
	w := vocab.NewWriter(context.Background(), repo, nil)
	s := NewScorer(w)

	s.Record("ghost", true)
	s.Record("", true)
	w.Close()

	n, _ := repo.Count(context.Background(), vocab.Filter{})
	assert.Zero(t, n)
}
