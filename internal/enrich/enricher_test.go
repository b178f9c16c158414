package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoz/internal/llm"
	"github.com/abhisek/lingoz/internal/vocab"
)

func TestLLMEnricher_Enrich(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"pronunciation":"/əˈbaɪd/","sentence":"I cannot abide liars.","translation":"No soporto a los mentirosos."}`),
	})
	e := NewLLMEnricher(mock, DefaultConfig())

	d, err := e.Enrich(context.Background(), vocab.Item{
		Word:        "abide",
		Definitions: []vocab.Definition{{PartOfSpeech: "verb", Text: "to tolerate"}},
		Sentences:   []vocab.Sentence{{Text: "Old sentence."}},
	})
	require.NoError(t, err)
	assert.Equal(t, "/əˈbaɪd/", d.Pronunciation)
	assert.Equal(t, "I cannot abide liars.", d.Sentence.Text)
	assert.Equal(t, "No soporto a los mentirosos.", d.Sentence.Translation)

	require.Len(t, mock.Calls, 1)
	req := mock.Calls[0]
	assert.Equal(t, WordEnrichmentSchema, req.Schema)
	prompt := req.Messages[0].Content
	assert.True(t, strings.Contains(prompt, "Word: abide"))
	assert.True(t, strings.Contains(prompt, "to tolerate"))
	assert.True(t, strings.Contains(prompt, "Old sentence."))
}

func TestLLMEnricher_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	e := NewLLMEnricher(mock, DefaultConfig())

	_, err := e.Enrich(context.Background(), vocab.Item{Word: "x"})
	var un *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &un))
}

func TestDecodeDetail(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Detail
		wantErr bool
	}{
		{
			name: "flat",
			raw:  `{"pronunciation":" /a/ ","sentence":"A.","translation":"B."}`,
			want: Detail{Pronunciation: "/a/", Sentence: vocab.Sentence{Text: "A.", Translation: "B."}},
		},
		{
			name: "nested sentence",
			raw:  `{"ipa":"/a/","sentence":{"text":"A.","translation":"B."}}`,
			want: Detail{Pronunciation: "/a/", Sentence: vocab.Sentence{Text: "A.", Translation: "B."}},
		},
		{
			name: "sentence array",
			raw:  `{"pronunciation":"/a/","sentences":[{"text":"A.","translation":"B."},{"text":"C."}]}`,
			want: Detail{Pronunciation: "/a/", Sentence: vocab.Sentence{Text: "A.", Translation: "B."}},
		},
		{
			name: "pronunciation only",
			raw:  `{"pronunciation":"/a/","sentence":""}`,
			want: Detail{Pronunciation: "/a/"},
		},
		{name: "empty object", raw: `{}`, wantErr: true},
		{name: "not json", raw: `pronunciation: /a/`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeDetail([]byte(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
