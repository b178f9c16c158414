package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/abhisek/lingoz/internal/llm"
	"github.com/abhisek/lingoz/internal/vocab"
)

// ErrMalformedResponse is returned when generator output carries neither a
// pronunciation nor a sentence.
var ErrMalformedResponse = errors.New("malformed enrichment response")

// Detail is what one enrichment call produces for a word.
type Detail struct {
	Pronunciation string
	Sentence      vocab.Sentence
}

// Empty reports whether d carries nothing worth applying.
func (d Detail) Empty() bool {
	return d.Pronunciation == "" && strings.TrimSpace(d.Sentence.Text) == ""
}

// Enricher fetches detail for a single item. Implementations make one
// remote call and do not retry.
type Enricher interface {
	Enrich(ctx context.Context, it vocab.Item) (Detail, error)
}

// Config tunes the generator-backed enricher.
type Config struct {
	MaxTokens   int
	Temperature float64

	// TranslationLanguage is the language example sentences are translated to.
	TranslationLanguage string
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:           512,
		Temperature:         0.7,
		TranslationLanguage: "English",
	}
}

// LLMEnricher asks the remote generator for a pronunciation and one fresh
// example sentence.
type LLMEnricher struct {
	provider llm.Provider
	cfg      Config
}

func NewLLMEnricher(provider llm.Provider, cfg Config) *LLMEnricher {
	return &LLMEnricher{provider: provider, cfg: cfg}
}

// WordEnrichmentSchema is the structured response shape for enrichment.
var WordEnrichmentSchema = &llm.Schema{
	Name:        "word-enrichment",
	Description: "Pronunciation and one example sentence for a vocabulary word",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pronunciation": map[string]any{
				"type":        "string",
				"description": "IPA transcription between slashes, e.g. /əˈbaɪd/",
			},
			"sentence": map[string]any{
				"type":        "string",
				"description": "One natural example sentence using the word",
			},
			"translation": map[string]any{
				"type":        "string",
				"description": "Translation of the sentence",
			},
		},
		"required":             []any{"pronunciation", "sentence", "translation"},
		"additionalProperties": false,
	},
}

const enrichSystemPrompt = `You are a lexicographer helping a language learner.
For the given word, return its pronunciation in IPA and one short, natural
example sentence that shows the word's most common meaning, plus a
translation of that sentence. Never repeat a sentence the learner already has.`

func (e *LLMEnricher) Enrich(ctx context.Context, it vocab.Item) (Detail, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeEnrich)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      enrichSystemPrompt,
		Messages:    llm.UserPrompt(e.prompt(it)),
		Schema:      WordEnrichmentSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return Detail{}, fmt.Errorf("enrich %q: %w", it.Word, err)
	}
	return decodeDetail(resp.Content)
}

func (e *LLMEnricher) prompt(it vocab.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word: %s\n", it.Word)
	if defs := it.DefinitionTexts(); len(defs) > 0 {
		fmt.Fprintf(&b, "Meanings: %s\n", strings.Join(defs, "; "))
	}
	fmt.Fprintf(&b, "Translate the sentence to %s.\n", e.cfg.TranslationLanguage)
	if len(it.Sentences) > 0 {
		b.WriteString("\nSentences the learner already has:\n")
		for _, s := range it.Sentences {
			fmt.Fprintf(&b, "- %s\n", s.Text)
		}
	}
	return b.String()
}

// decodeDetail reads the enrichment fields, accepting the variants models
// drift into (nested sentence objects, "ipa" keys, sentence arrays).
func decodeDetail(raw []byte) (Detail, error) {
	if !gjson.ValidBytes(raw) {
		return Detail{}, fmt.Errorf("%w: not JSON", ErrMalformedResponse)
	}
	doc := gjson.ParseBytes(raw)

	d := Detail{
		Pronunciation: firstString(doc, "pronunciation", "ipa", "pronunciation.ipa"),
		Sentence: vocab.Sentence{
			Text:        firstString(doc, "sentence", "sentence.text", "example", "sentences.0.text", "sentences.0"),
			Translation: firstString(doc, "translation", "sentence.translation", "sentences.0.translation"),
		},
	}
	if d.Empty() {
		return Detail{}, fmt.Errorf("%w: no pronunciation or sentence", ErrMalformedResponse)
	}
	return d, nil
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := doc.Get(p); v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}
