package vocab

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by repositories when a word has no stored item.
var ErrNotFound = errors.New("vocabulary item not found")

// Definition is one sense of a word.
type Definition struct {
	PartOfSpeech string `json:"part_of_speech"`
	Text         string `json:"text"`
}

// Sentence is an example sentence with its translation.
type Sentence struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

// Item is a single vocabulary entry. Word is its stable identity.
type Item struct {
	Word          string       `json:"word"`
	Definitions   []Definition `json:"definitions"`
	Pronunciation string       `json:"pronunciation"`
	Sentences     []Sentence   `json:"sentences"`

	// Familiarity is a signed mastery score adjusted by exam outcomes.
	// It has no floor or ceiling.
	Familiarity int `json:"familiarity"`

	Starred      bool      `json:"starred"`
	LastViewedAt time.Time `json:"last_viewed_at"`
}

// AppendSentence adds s unless the newest stored sentence has the same text.
// Reports whether the list changed.
func (it *Item) AppendSentence(s Sentence) bool {
	text := strings.TrimSpace(s.Text)
	if text == "" {
		return false
	}
	if n := len(it.Sentences); n > 0 && strings.TrimSpace(it.Sentences[n-1].Text) == text {
		return false
	}
	s.Text = text
	it.Sentences = append(it.Sentences, s)
	return true
}

// SetPronunciation overwrites the pronunciation when p is non-empty.
func (it *Item) SetPronunciation(p string) {
	if p = strings.TrimSpace(p); p != "" {
		it.Pronunciation = p
	}
}

// Enriched reports whether the item already carries pronunciation and at
// least one example sentence.
func (it Item) Enriched() bool {
	return it.Pronunciation != "" && len(it.Sentences) > 0
}

// Touch records that the item was viewed at now.
func (it *Item) Touch(now time.Time) {
	it.LastViewedAt = now.UTC()
}

// DefinitionTexts returns the non-empty definition texts in order.
func (it Item) DefinitionTexts() []string {
	out := make([]string, 0, len(it.Definitions))
	for _, d := range it.Definitions {
		if t := strings.TrimSpace(d.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a deep copy so callers can mutate without aliasing slices.
func (it Item) Clone() Item {
	c := it
	c.Definitions = append([]Definition(nil), it.Definitions...)
	c.Sentences = append([]Sentence(nil), it.Sentences...)
	return c
}
