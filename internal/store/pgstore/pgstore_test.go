package pgstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoz/internal/vocab"
)

func openTestRepo(t *testing.T) *VocabRepository {
	t.Helper()
	dsn := os.Getenv("LINGOZ_TEST_PG_URL")
	if dsn == "" {
		t.Skip("LINGOZ_TEST_PG_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, PoolConfig{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewVocabRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))
	_, err = pool.Exec(ctx, `TRUNCATE vocab_items`)
	require.NoError(t, err)
	return repo
}

func TestVocabRepository_RoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	in := vocab.Item{
		Word:          "abide",
		Definitions:   []vocab.Definition{{PartOfSpeech: "verb", Text: "to tolerate"}},
		Pronunciation: "/əˈbaɪd/",
		Sentences:     []vocab.Sentence{{Text: "I cannot abide noise.", Translation: "-"}},
		Familiarity:   -3,
		Starred:       true,
		LastViewedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, in))

	got, err := repo.Get(ctx, "abide")
	require.NoError(t, err)
	assert.Equal(t, in.Definitions, got.Definitions)
	assert.Equal(t, in.Sentences, got.Sentences)
	assert.Equal(t, -3, got.Familiarity)
	assert.True(t, got.Starred)
	assert.True(t, in.LastViewedAt.Equal(got.LastViewedAt))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, vocab.ErrNotFound)
}

func TestVocabRepository_FetchAndCount(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, it := range []vocab.Item{
		{Word: "apple", Familiarity: 2},
		{Word: "apricot", Familiarity: -1, Starred: true},
		{Word: "banana", Starred: true},
	} {
		require.NoError(t, repo.Save(ctx, it))
	}

	items, err := repo.Fetch(ctx, vocab.Filter{LetterPrefix: "AP"}, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "apple", items[0].Word)

	items, err = repo.Fetch(ctx, vocab.Filter{SortBy: vocab.SortFamiliarity}, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "apricot", items[0].Word)

	n, err := repo.Count(ctx, vocab.Filter{StarredOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.Delete(ctx, "banana"))
	n, err = repo.Count(ctx, vocab.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBuildWhere(t *testing.T) {
	where, args := buildWhere(vocab.Filter{LetterPrefix: "a_%", StarredOnly: true})
	assert.Equal(t, " WHERE word ILIKE $1 AND starred", where)
	assert.Equal(t, []any{`a\_\%%`}, args)

	where, args = buildWhere(vocab.Filter{})
	assert.Empty(t, where)
	assert.Nil(t, args)
}
