package question

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoz/internal/vocab"
)

func item(word string, defs ...string) vocab.Item {
	it := vocab.Item{Word: word}
	for _, d := range defs {
		it.Definitions = append(it.Definitions, vocab.Definition{PartOfSpeech: "noun", Text: d})
	}
	return it
}

func fivePool() []vocab.Item {
	return []vocab.Item{
		item("apple", "a round fruit"),
		item("river", "a large natural stream of water"),
		item("candle", "a stick of wax with a wick"),
		item("ladder", "a set of steps between two uprights"),
		item("anchor", "a heavy object that holds a ship in place"),
	}
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestLocalGenerator_InsufficientData(t *testing.T) {
	g := NewLocalGenerator(seeded())
	for n := 0; n < MinPoolSize; n++ {
		_, err := g.Generate(context.Background(), fivePool()[:n], 3)
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("pool of %d: err = %v, want ErrInsufficientData", n, err)
		}
	}
}

func TestLocalGenerator_FivePoolThreeQuestions(t *testing.T) {
	pool := fivePool()
	defs := map[string]string{}
	for _, it := range pool {
		defs[it.Word] = it.Definitions[0].Text
	}

	qs, err := NewLocalGenerator(seeded()).Generate(context.Background(), pool, 3)
	require.NoError(t, err)
	require.Len(t, qs, 3)

	prompts := map[string]bool{}
	for _, q := range qs {
		assert.Equal(t, KindVocabulary, q.Kind)
		assert.Equal(t, q.Prompt, q.Word)
		assert.Equal(t, defs[q.Word], q.CorrectAnswer)
		assert.False(t, prompts[q.Prompt], "duplicate prompt %q", q.Prompt)
		prompts[q.Prompt] = true

		require.Len(t, q.Options, 3)
		distinct := map[string]bool{}
		for _, o := range q.Options {
			assert.NotEmpty(t, o)
			distinct[o] = true
		}
		assert.Len(t, distinct, 3)
		assert.Equal(t, 1, countOf(q.Options, q.CorrectAnswer))
	}
}

func TestLocalGenerator_LimitClamp(t *testing.T) {
	g := NewLocalGenerator(seeded())

	qs, err := g.Generate(context.Background(), fivePool(), 0)
	require.NoError(t, err)
	assert.Len(t, qs, 5)

	qs, err = g.Generate(context.Background(), fivePool(), 50)
	require.NoError(t, err)
	assert.Len(t, qs, 5)
}

func TestLocalGenerator_SkipsWordsWithoutDefinitions(t *testing.T) {
	pool := append(fivePool(), item("blank"))
	qs, err := NewLocalGenerator(seeded()).Generate(context.Background(), pool, 0)
	require.NoError(t, err)
	assert.Len(t, qs, 5)
	for _, q := range qs {
		assert.NotEqual(t, "blank", q.Word)
	}
}

func TestLocalGenerator_HomogeneousPoolDegrades(t *testing.T) {
	pool := []vocab.Item{
		item("a", "same"),
		item("b", "same"),
		item("c", "same"),
	}
	qs, err := NewLocalGenerator(seeded()).Generate(context.Background(), pool, 1)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, 1, countOf(qs[0].Options, "same"))
	assert.Equal(t, 2, countOf(qs[0].Options, ""))
}

func TestQuestion_IsCorrect(t *testing.T) {
	q := Question{CorrectAnswer: "x", Options: []string{"x", "y"}}
	assert.False(t, q.Answered())
	assert.False(t, q.IsCorrect())

	q.Answer("y")
	assert.True(t, q.Answered())
	assert.False(t, q.IsCorrect())

	q.Answer("x")
	assert.True(t, q.IsCorrect())

	q.ClearAnswer()
	assert.False(t, q.Answered())
}

func TestQuestion_BlankChoiceCountsAsAnswered(t *testing.T) {
	q := Question{CorrectAnswer: "x", Options: []string{"x", "", ""}}
	q.Answer("")
	assert.True(t, q.Answered())
	assert.False(t, q.IsCorrect())
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("essay")
	assert.Error(t, err)

	assert.False(t, KindVocabulary.Remote())
	assert.True(t, KindReading.Remote())
}

func countOf(opts []string, s string) int {
	n := 0
	for _, o := range opts {
		if o == s {
			n++
		}
	}
	return n
}
