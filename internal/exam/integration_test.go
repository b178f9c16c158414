package exam

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/lingoz/internal/familiarity"
	"github.com/abhisek/lingoz/internal/mainloop"
	"github.com/abhisek/lingoz/internal/question"
	"github.com/abhisek/lingoz/internal/store"
	"github.com/abhisek/lingoz/internal/vocab"
)

func TestController_WithStoreAndLoop(t *testing.T) {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	words := st.VocabRepo()
	for _, it := range fivePool() {
		require.NoError(t, words.Save(ctx, it))
	}
	events := st.EventRepo()

	loop := mainloop.New(16)
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(loopCtx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	writer := vocab.NewWriter(ctx, words, zap.NewNop())
	scorer := familiarity.NewScorer(writer)

	var c *Controller
	ticker := mainloop.NewTicker(loop, 5*time.Millisecond, func() { c.Tick() })
	c = New(question.NewLocalGenerator(rand.New(rand.NewPCG(7, 8))),
		WithTimer(ticker), WithRecorder(events), WithScorer(scorer))

	pool, err := words.Fetch(ctx, vocab.Filter{}, 0)
	require.NoError(t, err)

	require.NoError(t, loop.Call(ctx, func() {
		_, err = c.Start(ctx, pool, 3)
	}))
	require.NoError(t, err)
	require.NoError(t, loop.Call(ctx, func() { err = c.Begin() }))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		var n int
		_ = loop.Call(ctx, func() { n = c.Elapsed() })
		return n > 0
	}, 2*time.Second, 5*time.Millisecond)

	var missed string
	require.NoError(t, loop.Call(ctx, func() {
		qs := c.Questions()
		missed = qs[0].Word
		for i, q := range qs {
			sel := q.CorrectAnswer
			if i == 0 {
				sel = "not it"
			}
			if _, err = c.SubmitAnswer(q.Key(), sel); err != nil {
				return
			}
		}
	}))
	require.NoError(t, err)
	writer.Close()

	var state State
	require.NoError(t, loop.Call(ctx, func() { state = c.State() }))
	assert.Equal(t, StateEnded, state)
	assert.False(t, ticker.Running())

	it, err := words.Get(ctx, missed)
	require.NoError(t, err)
	assert.Equal(t, -1, it.Familiarity)

	exams, err := events.QueryExamEvents(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, exams, 2)
	assert.Equal(t, store.ExamActionEnd, exams[0].Action)
	assert.Equal(t, 1, exams[0].Wrong)
	assert.Positive(t, exams[0].ElapsedTicks)
}
