package panel_test

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pagelens/pagelens"
	"github.com/pagelens/pagelens/heuristic"
	"github.com/pagelens/pagelens/mock"
	"github.com/pagelens/pagelens/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessions(tabID string, snap *pagelens.Snapshot) *mock.SessionService {
	return &mock.SessionService{
		ActiveTabFn: func() (string, bool) { return tabID, tabID != "" },
		CurrentSnapshotFn: func(string) (*pagelens.Snapshot, error) {
			if snap == nil {
				return nil, pagelens.Errorf(pagelens.ENOTFOUND, "snapshot not yet available")
			}
			return snap, nil
		},
	}
}

func echoAnswerer() *mock.Answerer {
	return &mock.Answerer{
		AnswerFn: func(_ context.Context, query *pagelens.Query) (*pagelens.Answer, error) {
			return &pagelens.Answer{Text: "answer to " + query.Question, Source: pagelens.SourceRemote}, nil
		},
	}
}

func TestController_Probe(t *testing.T) {
	t.Parallel()

	t.Run("starts connecting", func(t *testing.T) {
		t.Parallel()
		c := panel.NewController(testSessions("", nil), echoAnswerer(), nil)
		assert.Equal(t, panel.StatusConnecting, c.Status())
	})

	t.Run("healthy probe connects", func(t *testing.T) {
		t.Parallel()
		health := &mock.HealthChecker{HealthyFn: func(context.Context) bool { return true }}
		c := panel.NewController(testSessions("", nil), echoAnswerer(), health)
		assert.Equal(t, panel.StatusConnected, c.Probe(context.Background()))
		assert.Equal(t, panel.StatusConnected, c.Status())
	})

	t.Run("unhealthy probe disconnects but submission still works", func(t *testing.T) {
		t.Parallel()
		health := &mock.HealthChecker{HealthyFn: func(context.Context) bool { return false }}
		c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{Title: "T"}), echoAnswerer(), health)
		assert.Equal(t, panel.StatusDisconnected, c.Probe(context.Background()))

		c.RefreshSnapshot()
		answer, err := c.Submit(context.Background(), "still there?")
		require.NoError(t, err)
		require.NotNil(t, answer)
	})
}

func TestController_RefreshSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("no active tab is a notice", func(t *testing.T) {
		t.Parallel()
		c := panel.NewController(testSessions("", nil), echoAnswerer(), nil)
		c.RefreshSnapshot()
		assert.Nil(t, c.Snapshot())
		assert.NotEmpty(t, c.Notice())
	})

	t.Run("missing snapshot is recoverable", func(t *testing.T) {
		t.Parallel()
		snap := &pagelens.Snapshot{Title: "Widget Docs"}
		sessions := testSessions("tab-1", nil)
		c := panel.NewController(sessions, echoAnswerer(), nil)

		c.RefreshSnapshot()
		assert.Nil(t, c.Snapshot())
		assert.Contains(t, c.Notice(), "not yet available")

		sessions.CurrentSnapshotFn = func(string) (*pagelens.Snapshot, error) { return snap, nil }
		c.RefreshSnapshot()
		require.NotNil(t, c.Snapshot())
		assert.Equal(t, "Widget Docs", c.Snapshot().Title)
		assert.Empty(t, c.Notice())
	})
}

func TestController_Submit(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty and whitespace without dispatch or history change", func(t *testing.T) {
		t.Parallel()
		calls := 0
		answerer := &mock.Answerer{
			AnswerFn: func(context.Context, *pagelens.Query) (*pagelens.Answer, error) {
				calls++
				return &pagelens.Answer{Text: "x"}, nil
			},
		}
		c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{}), answerer, nil)
		c.RefreshSnapshot()

		for _, q := range []string{"", "   ", "\t\n"} {
			_, err := c.Submit(context.Background(), q)
			require.Error(t, err)
			assert.Equal(t, pagelens.EINVALID, pagelens.ErrorCode(err))
		}
		assert.Zero(t, calls, "nothing should be dispatched")
		assert.Empty(t, c.History())
	})

	t.Run("success prepends entry with trimmed question", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
		c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{}), echoAnswerer(), nil,
			panel.WithClock(func() time.Time { return now }))
		c.RefreshSnapshot()

		answer, err := c.Submit(context.Background(), "  what is this?  ")
		require.NoError(t, err)
		assert.Equal(t, "answer to what is this?", answer.Text)

		history := c.History()
		require.Len(t, history, 1)
		assert.Equal(t, "what is this?", history[0].Question)
		assert.Equal(t, "answer to what is this?", history[0].Answer)
		assert.Equal(t, now, history[0].Timestamp)
	})

	t.Run("evicts oldest past capacity", func(t *testing.T) {
		t.Parallel()
		c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{}), echoAnswerer(), nil)
		c.RefreshSnapshot()

		for i := 1; i <= pagelens.MaxConversationEntries+1; i++ {
			_, err := c.Submit(context.Background(), fmt.Sprintf("q%d", i))
			require.NoError(t, err)
		}

		history := c.History()
		require.Len(t, history, pagelens.MaxConversationEntries)
		assert.Equal(t, "q11", history[0].Question)
		assert.Equal(t, "q2", history[len(history)-1].Question)
	})

	t.Run("rejects concurrent submission", func(t *testing.T) {
		t.Parallel()
		started := make(chan struct{})
		release := make(chan struct{})
		answerer := &mock.Answerer{
			AnswerFn: func(context.Context, *pagelens.Query) (*pagelens.Answer, error) {
				close(started)
				<-release
				return &pagelens.Answer{Text: "slow"}, nil
			},
		}
		c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{}), answerer, nil)
		c.RefreshSnapshot()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Submit(context.Background(), "first")
			assert.NoError(t, err)
		}()

		<-started
		_, err := c.Submit(context.Background(), "second")
		require.Error(t, err)
		assert.Equal(t, pagelens.ECONFLICT, pagelens.ErrorCode(err))

		close(release)
		wg.Wait()
		assert.Len(t, c.History(), 1)
	})

	t.Run("at most one submission reaches the answerer under contention", func(t *testing.T) {
		t.Parallel()
		var inAnswerer, overlaps atomic.Int32
		answerer := &mock.Answerer{
			AnswerFn: func(context.Context, *pagelens.Query) (*pagelens.Answer, error) {
				if inAnswerer.Add(1) > 1 {
					overlaps.Add(1)
				}
				runtime.Gosched()
				inAnswerer.Add(-1)
				return &pagelens.Answer{Text: "x"}, nil
			},
		}
		c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{}), answerer, nil)
		c.RefreshSnapshot()

		const submitters = 16
		var answered, rejected atomic.Int32
		var wg sync.WaitGroup
		for range submitters {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.Submit(context.Background(), "question")
				switch {
				case err == nil:
					answered.Add(1)
				case pagelens.ErrorCode(err) == pagelens.ECONFLICT:
					rejected.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Zero(t, overlaps.Load(), "two submissions entered the answerer at once")
		assert.Equal(t, int32(submitters), answered.Load()+rejected.Load())
		assert.GreaterOrEqual(t, answered.Load(), int32(1))
	})

	t.Run("rejected empty submission releases the guard", func(t *testing.T) {
		t.Parallel()
		c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{}), echoAnswerer(), nil)
		c.RefreshSnapshot()

		_, err := c.Submit(context.Background(), "   ")
		require.Error(t, err)
		require.Equal(t, pagelens.EINVALID, pagelens.ErrorCode(err))

		answer, err := c.Submit(context.Background(), "still works?")
		require.NoError(t, err)
		require.NotNil(t, answer)
	})

	t.Run("answer failure leaves history untouched", func(t *testing.T) {
		t.Parallel()
		answerer := &mock.Answerer{
			AnswerFn: func(context.Context, *pagelens.Query) (*pagelens.Answer, error) {
				return nil, pagelens.Errorf(pagelens.EUNAVAILABLE, "remote down")
			},
		}
		c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{}), answerer, nil)
		c.RefreshSnapshot()

		_, err := c.Submit(context.Background(), "anything?")
		require.Error(t, err)
		assert.Empty(t, c.History())
	})

	t.Run("discards answer for abandoned session", func(t *testing.T) {
		t.Parallel()
		activeTab := "tab-1"
		sessions := &mock.SessionService{
			ActiveTabFn: func() (string, bool) { return activeTab, true },
			CurrentSnapshotFn: func(string) (*pagelens.Snapshot, error) {
				return &pagelens.Snapshot{}, nil
			},
		}
		answerer := &mock.Answerer{
			AnswerFn: func(context.Context, *pagelens.Query) (*pagelens.Answer, error) {
				activeTab = "tab-2" // tab switch while in flight
				return &pagelens.Answer{Text: "late"}, nil
			},
		}
		c := panel.NewController(sessions, answerer, nil)
		c.RefreshSnapshot()

		answer, err := c.Submit(context.Background(), "too late?")
		require.NoError(t, err)
		assert.Nil(t, answer, "answer for an abandoned session is not rendered")
		assert.Empty(t, c.History())
	})
}

func TestController_ClearHistory(t *testing.T) {
	t.Parallel()

	c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{}), echoAnswerer(), nil)
	c.RefreshSnapshot()
	_, err := c.Submit(context.Background(), "q1")
	require.NoError(t, err)
	require.Len(t, c.History(), 1)

	c.ClearHistory()
	assert.Empty(t, c.History())
}

func TestController_CopyAnswer(t *testing.T) {
	t.Parallel()

	t.Run("copies newest answer", func(t *testing.T) {
		t.Parallel()
		var copied string
		c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{}), echoAnswerer(), nil,
			panel.WithCopyFunc(func(s string) error {
				copied = s
				return nil
			}))
		c.RefreshSnapshot()
		_, err := c.Submit(context.Background(), "q1")
		require.NoError(t, err)
		_, err = c.Submit(context.Background(), "q2")
		require.NoError(t, err)

		require.NoError(t, c.CopyAnswer())
		assert.Equal(t, "answer to q2", copied)
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()
		c := panel.NewController(testSessions("", nil), echoAnswerer(), nil,
			panel.WithCopyFunc(func(string) error { return nil }))
		err := c.CopyAnswer()
		require.Error(t, err)
		assert.Equal(t, pagelens.ENOTFOUND, pagelens.ErrorCode(err))
	})

	t.Run("no copy function", func(t *testing.T) {
		t.Parallel()
		c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{}), echoAnswerer(), nil)
		c.RefreshSnapshot()
		_, err := c.Submit(context.Background(), "q1")
		require.NoError(t, err)

		err = c.CopyAnswer()
		require.Error(t, err)
		assert.Equal(t, pagelens.EINVALID, pagelens.ErrorCode(err))
	})
}

func TestController_Suggestions(t *testing.T) {
	t.Parallel()

	suggester := &mock.Suggester{
		SuggestFn: func(snap *pagelens.Snapshot) []string {
			if snap == nil {
				return []string{"generic"}
			}
			return []string{"about " + snap.Title}
		},
	}
	c := panel.NewController(testSessions("tab-1", &pagelens.Snapshot{Title: "Widget Docs"}), echoAnswerer(), nil,
		panel.WithSuggester(suggester))

	assert.Equal(t, []string{"generic"}, c.Suggestions(), "no snapshot yet")
	c.RefreshSnapshot()
	assert.Equal(t, []string{"about Widget Docs"}, c.Suggestions())
}

func TestController_Suggestions_BeforeSnapshot(t *testing.T) {
	t.Parallel()

	c := panel.NewController(testSessions("", nil), echoAnswerer(), nil,
		panel.WithSuggester(heuristic.NewSuggester()))

	suggestions := c.Suggestions()
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "What is this page about?", suggestions[0])
}
