package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingoz/internal/llm"
)

// targetWord pulls the "Target word:" line out of a cloze prompt.
func targetWord(req llm.Request) string {
	for _, line := range strings.Split(req.Messages[0].Content, "\n") {
		if w, ok := strings.CutPrefix(line, "Target word: "); ok {
			return w
		}
	}
	return ""
}

func clozeResponder(fail map[string]bool) func(req llm.Request) llm.MockResponse {
	return func(req llm.Request) llm.MockResponse {
		w := targetWord(req)
		if fail[w] {
			return llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}
		}
		body, _ := json.Marshal(map[string]any{
			"prompt":         fmt.Sprintf("I saw the ___ (%s).", w),
			"passage":        "",
			"options":        []string{"wrong one", "wrong two", "wrong three"},
			"correct_answer": w,
			"explanation":    "",
		})
		return llm.MockResponse{Content: body}
	}
}

func TestRemoteGenerator_Cloze(t *testing.T) {
	mock := llm.NewMockResponder(clozeResponder(nil))
	g, err := NewRemoteGenerator(mock, KindCloze, DefaultRemoteConfig(), nil)
	require.NoError(t, err)
	g.WithRand(seeded())

	qs, err := g.Generate(context.Background(), fivePool(), 3)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, 3, mock.CallCount())

	for _, q := range qs {
		assert.Equal(t, KindCloze, q.Kind)
		assert.Equal(t, q.Word, q.CorrectAnswer)
		assert.Len(t, q.Options, 3)
		assert.Equal(t, 1, countOf(q.Options, q.CorrectAnswer))
	}
	for _, req := range mock.Calls {
		assert.Equal(t, "cloze-question", req.Schema.Name)
	}
}

func TestRemoteGenerator_PartialFailure(t *testing.T) {
	pool := fivePool()
	mock := llm.NewMockResponder(clozeResponder(map[string]bool{"apple": true, "river": true}))
	g, err := NewRemoteGenerator(mock, KindCloze, DefaultRemoteConfig(), nil)
	require.NoError(t, err)

	qs, err := g.Generate(context.Background(), pool, 0)
	require.NoError(t, err)
	assert.Len(t, qs, 3)
	for _, q := range qs {
		assert.NotEqual(t, "apple", q.Word)
		assert.NotEqual(t, "river", q.Word)
	}
}

func TestRemoteGenerator_MalformedDropped(t *testing.T) {
	var n atomic.Int32
	mock := llm.NewMockResponder(func(req llm.Request) llm.MockResponse {
		if n.Add(1) == 1 {
			// Schema-valid but fails structural validation.
			return llm.MockResponse{Content: json.RawMessage(
				`{"prompt":"","passage":"","options":["a","b"],"correct_answer":"a","explanation":""}`)}
		}
		return clozeResponder(nil)(req)
	})
	g, err := NewRemoteGenerator(mock, KindCloze, DefaultRemoteConfig(), nil)
	require.NoError(t, err)

	qs, err := g.Generate(context.Background(), fivePool(), 3)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestRemoteGenerator_AllFailYieldsEmpty(t *testing.T) {
	mock := llm.NewMockResponder(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Err: &llm.ErrRateLimit{}}
	})
	g, err := NewRemoteGenerator(mock, KindGrammar, DefaultRemoteConfig(), nil)
	require.NoError(t, err)

	qs, err := g.Generate(context.Background(), fivePool(), 3)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestRemoteGenerator_RepairsMissingAnswer(t *testing.T) {
	var n atomic.Int32
	mock := llm.NewMockResponder(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Content: json.RawMessage(fmt.Sprintf(
			`{"prompt":"Pick one (%d)","passage":"A short text.","options":["x","y","z"],"correct_answer":"w","explanation":"because"}`, n.Add(1)))}
	})
	g, err := NewRemoteGenerator(mock, KindReading, DefaultRemoteConfig(), nil)
	require.NoError(t, err)

	qs, err := g.Generate(context.Background(), fivePool(), 2)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	for _, q := range qs {
		assert.Equal(t, "", q.Word)
		assert.Equal(t, "A short text.", q.Passage)
		assert.Len(t, q.Options, 3)
		assert.Equal(t, 1, countOf(q.Options, "w"))
	}
}

func TestRemoteGenerator_ReadingPromptsKeyedByPassage(t *testing.T) {
	var n atomic.Int32
	mock := llm.NewMockResponder(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Content: json.RawMessage(fmt.Sprintf(
			`{"prompt":"What is the main idea?","passage":"Text number %d.","options":["x","y","z"],"correct_answer":"x","explanation":""}`, n.Add(1)))}
	})
	g, err := NewRemoteGenerator(mock, KindReading, DefaultRemoteConfig(), nil)
	require.NoError(t, err)

	qs, err := g.Generate(context.Background(), fivePool(), 3)
	require.NoError(t, err)
	require.Len(t, qs, 3)

	keys := map[string]bool{}
	for _, q := range qs {
		assert.Equal(t, "What is the main idea?", q.Prompt)
		keys[q.Key()] = true
	}
	assert.Len(t, keys, 3)
}

func TestRemoteGenerator_DuplicatePromptsCollapsed(t *testing.T) {
	mock := llm.NewMockResponder(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Content: json.RawMessage(
			`{"prompt":"Same ___ every time.","passage":"","options":["a","b","c"],"correct_answer":"a","explanation":""}`)}
	})
	g, err := NewRemoteGenerator(mock, KindGrammar, DefaultRemoteConfig(), nil)
	require.NoError(t, err)

	qs, err := g.Generate(context.Background(), fivePool(), 3)
	require.NoError(t, err)
	assert.Len(t, qs, 1)
}

func TestRemoteGenerator_PriorPromptsSent(t *testing.T) {
	mock := llm.NewMockResponder(clozeResponder(nil))
	g, err := NewRemoteGenerator(mock, KindCloze, DefaultRemoteConfig(), nil)
	require.NoError(t, err)

	first, err := g.Generate(context.Background(), fivePool(), 1)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = g.Generate(context.Background(), fivePool(), 1)
	require.NoError(t, err)

	last := mock.Calls[len(mock.Calls)-1].Messages[0].Content
	assert.Contains(t, last, first[0].Prompt)
}

func TestRemoteGenerator_InsufficientData(t *testing.T) {
	g, err := NewRemoteGenerator(llm.NewMockProvider(), KindCloze, DefaultRemoteConfig(), nil)
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), fivePool()[:2], 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestRemoteGenerator_CanceledContext(t *testing.T) {
	mock := llm.NewMockResponder(clozeResponder(nil))
	g, err := NewRemoteGenerator(mock, KindCloze, DefaultRemoteConfig(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx, fivePool(), 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSource(t *testing.T) {
	s, err := NewSource(KindVocabulary, nil, DefaultRemoteConfig(), nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalGenerator{}, s)

	_, err = NewSource(KindGrammar, nil, DefaultRemoteConfig(), nil)
	assert.Error(t, err)

	s, err = NewSource(KindReading, llm.NewMockProvider(), DefaultRemoteConfig(), nil)
	require.NoError(t, err)
	assert.IsType(t, &RemoteGenerator{}, s)

	_, err = NewRemoteGenerator(llm.NewMockProvider(), KindVocabulary, DefaultRemoteConfig(), nil)
	assert.Error(t, err)
}
