package vocab

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppendSentence_SkipsConsecutiveDuplicate(t *testing.T) {
	it := Item{Word: "apple"}

	assert.True(t, it.AppendSentence(Sentence{Text: "I ate an apple.", Translation: "Я съел яблоко."}))
	assert.False(t, it.AppendSentence(Sentence{Text: "I ate an apple.", Translation: "другое"}))
	assert.Len(t, it.Sentences, 1)
}

func TestAppendSentence_AllowsNonConsecutiveRepeat(t *testing.T) {
	it := Item{Word: "apple"}
	it.AppendSentence(Sentence{Text: "A"})
	it.AppendSentence(Sentence{Text: "B"})
	it.AppendSentence(Sentence{Text: "A"})

	assert.Len(t, it.Sentences, 3)
}

func TestAppendSentence_TrimsAndRejectsEmpty(t *testing.T) {
	it := Item{Word: "apple"}
	assert.False(t, it.AppendSentence(Sentence{Text: "   "}))
	assert.True(t, it.AppendSentence(Sentence{Text: "  Hello.  "}))
	assert.False(t, it.AppendSentence(Sentence{Text: "Hello."}))
	assert.Equal(t, "Hello.", it.Sentences[0].Text)
}

func TestEnriched(t *testing.T) {
	it := Item{Word: "x"}
	if it.Enriched() {
		t.Error("empty item should not be enriched")
	}
	it.SetPronunciation("/eks/")
	if it.Enriched() {
		t.Error("item without sentences should not be enriched")
	}
	it.AppendSentence(Sentence{Text: "x marks the spot"})
	if !it.Enriched() {
		t.Error("expected enriched")
	}
}

func TestSetPronunciation_IgnoresBlank(t *testing.T) {
	it := Item{Word: "x", Pronunciation: "/eks/"}
	it.SetPronunciation("  ")
	if it.Pronunciation != "/eks/" {
		t.Errorf("pronunciation = %q, want /eks/", it.Pronunciation)
	}
}

func TestClone_DoesNotAlias(t *testing.T) {
	it := Item{Word: "x", Sentences: []Sentence{{Text: "a"}}}
	c := it.Clone()
	c.Sentences[0].Text = "b"
	if it.Sentences[0].Text != "a" {
		t.Error("clone aliased the sentence slice")
	}
}

func TestTouch_StoresUTC(t *testing.T) {
	loc := time.FixedZone("X", 3600)
	it := Item{Word: "x"}
	it.Touch(time.Date(2026, 1, 2, 3, 4, 5, 0, loc))
	assert.Equal(t, time.UTC, it.LastViewedAt.Location())
}

func TestDefinitionTexts(t *testing.T) {
	it := Item{Definitions: []Definition{{Text: "a"}, {Text: " "}, {Text: "b"}}}
	assert.Equal(t, []string{"a", "b"}, it.DefinitionTexts())
}
