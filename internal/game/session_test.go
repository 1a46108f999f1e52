package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessquest/client-go/internal/api"
	"github.com/guessquest/client-go/internal/apperr"
	"github.com/guessquest/client-go/internal/model"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	startRes    *api.StartGameResult
	startErr    error
	question    *model.Question
	questionErr error
	answerRes   *api.AnswerResult
	answerErr   error
	guessRes    *api.GuessResult
	guessErr    error
	suggestions []string

	// when set, calls block until the channel is closed
	block chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (b *fakeBackend) enter(name string) {
	b.mu.Lock()
	b.calls[name]++
	block := b.block
	b.mu.Unlock()
	if block != nil {
		<-block
	}
}

func (b *fakeBackend) callCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

func (b *fakeBackend) StartGame(_ context.Context, themeID, levelID int64) (*api.StartGameResult, error) {
	b.enter("start")
	return b.startRes, b.startErr
}

func (b *fakeBackend) FetchQuestion(_ context.Context, _ string, _ int64) (*model.Question, error) {
	b.enter("fetch")
	return b.question, b.questionErr
}

func (b *fakeBackend) SubmitAnswer(_ context.Context, _ string, _ int64) (*api.AnswerResult, error) {
	b.enter("answer")
	return b.answerRes, b.answerErr
}

func (b *fakeBackend) VerifyGuess(_ context.Context, _, _ string) (*api.GuessResult, error) {
	b.enter("guess")
	return b.guessRes, b.guessErr
}

func (b *fakeBackend) Suggestions(_ context.Context, _ string) ([]string, error) {
	b.enter("suggestions")
	return b.suggestions, nil
}

type fakeIdentity struct {
	authed bool
	user   model.User
}

func (f *fakeIdentity) IsAuthenticated() bool { return f.authed }

func (f *fakeIdentity) CurrentUser() *model.User {
	if !f.authed {
		return nil
	}
	user := f.user
	return &user
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []Record
}

func (r *fakeRecorder) Record(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRecorder) all() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

func testCategories(n int) []model.Category {
	cats := make([]model.Category, n)
	for i := range cats {
		cats[i] = model.Category{
			ID:   model.ID(i + 1),
			Name: model.Plain(fmt.Sprintf("Category %d", i+1)),
			Slug: fmt.Sprintf("cat-%d", i+1),
		}
	}
	return cats
}

func testStartResult(categories, timeLimit int) *api.StartGameResult {
	return &api.StartGameResult{
		SessionToken:    "tok-abc",
		Categories:      testCategories(categories),
		CategoriesCount: categories,
		TimePerAttempt:  timeLimit,
	}
}

func testQuestion() *model.Question {
	return &model.Question{
		ID:   101,
		Text: model.Plain("What field did this person work in?"),
		Options: []model.QuestionOption{
			{ID: 1, Text: model.Plain("X")},
			{ID: 2, Text: model.Plain("Y")},
		},
	}
}

var testTheme = model.Theme{ID: 1, Name: model.Plain("Famous People"), Slug: "famous-people"}
var testLevel = model.Level{ID: 2, Name: model.Plain("Medium"), Slug: "medium", CategoriesCount: 5, TimePerAttempt: 300}

func newTestSession(backend *fakeBackend, opts ...Option) *Session {
	identity := &fakeIdentity{authed: true, user: model.User{ID: "u1", Name: "Sam"}}
	base := []Option{WithClock(clockwork.NewFakeClock())}
	return NewSession(backend, identity, append(base, opts...)...)
}

func startSession(t *testing.T, backend *fakeBackend, opts ...Option) *Session {
	t.Helper()
	session := newTestSession(backend, opts...)
	require.NoError(t, session.Start(context.Background(), testTheme, testLevel))
	return session
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("enters category selection with server counters", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		session := newTestSession(backend)

		require.NoError(t, session.Start(ctx, testTheme, testLevel))

		assert.Equal(t, StatusCategorySelection, session.Status())
		assert.Equal(t, 300, session.TimeRemaining())
		assert.Equal(t, 300, session.TimeLimit())
		assert.Equal(t, 5, session.CategoriesCount())

		categories := session.Categories()
		require.Len(t, categories, 5)
		for _, cat := range categories {
			assert.False(t, cat.Used)
		}
	})

	t.Run("falls back to level counters when server omits them", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = &api.StartGameResult{SessionToken: "tok", Categories: testCategories(5)}
		session := newTestSession(backend)

		require.NoError(t, session.Start(ctx, testTheme, testLevel))

		assert.Equal(t, 300, session.TimeRemaining())
		assert.Equal(t, 5, session.CategoriesCount())
	})

	t.Run("requires authentication and makes no network call", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		session := NewSession(backend, &fakeIdentity{authed: false}, WithClock(clockwork.NewFakeClock()))

		err := session.Start(ctx, testTheme, testLevel)

		assert.Equal(t, apperr.ErrCodeNotAuthenticated, apperr.GetCode(err))
		assert.Equal(t, 0, backend.callCount("start"))
		assert.Equal(t, StatusIdle, session.Status())
	})

	t.Run("failure leaves prior state untouched", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		session := startSession(t, backend)

		backend.startRes = nil
		backend.startErr = fmt.Errorf("backend down")

		err := session.Start(ctx, testTheme, testLevel)

		assert.Error(t, err)
		assert.Equal(t, StatusCategorySelection, session.Status())
		assert.Equal(t, "tok-abc", session.Token())
		assert.Equal(t, "Failed to start game", session.LastError())
	})

	t.Run("fully replaces state from a previous session", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.question = testQuestion()
		backend.answerRes = &api.AnswerResult{Yes: true}
		session := startSession(t, backend)

		_, err := session.SelectCategory(ctx, 1)
		require.NoError(t, err)
		_, err = session.AnswerOption(ctx, testQuestion().Options[0])
		require.NoError(t, err)
		require.NotEmpty(t, session.Conversation())
		require.Equal(t, 1, session.QuestionsAsked())

		backend.startRes = testStartResult(3, 120)
		backend.startRes.SessionToken = "tok-new"
		require.NoError(t, session.Start(ctx, testTheme, testLevel))

		assert.Equal(t, "tok-new", session.Token())
		assert.Empty(t, session.Conversation())
		assert.Equal(t, 0, session.QuestionsAsked())
		assert.Equal(t, 120, session.TimeRemaining())
		assert.Len(t, session.Categories(), 3)
		assert.Nil(t, session.Result())
		assert.Nil(t, session.Entity())
	})
}

func TestSelectCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("stores question and moves to questioning", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.question = testQuestion()
		session := startSession(t, backend)

		question, err := session.SelectCategory(ctx, 1)
		require.NoError(t, err)

		require.Len(t, question.Options, 2)
		assert.Equal(t, "X", question.Options[0].Text.Resolve([]string{"en"}))
		assert.Equal(t, "Y", question.Options[1].Text.Resolve([]string{"en"}))
		assert.Equal(t, StatusQuestioning, session.Status())
		assert.NotNil(t, session.CurrentQuestion())
	})

	t.Run("rejected without a session and makes no network call", func(t *testing.T) {
		backend := newFakeBackend()
		session := newTestSession(backend)

		_, err := session.SelectCategory(ctx, 1)

		assert.Equal(t, apperr.ErrCodeNoSession, apperr.GetCode(err))
		assert.Equal(t, 0, backend.callCount("fetch"))
	})

	t.Run("rejected for a used category", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.question = testQuestion()
		backend.answerRes = &api.AnswerResult{
			Yes:        true,
			Categories: markUsed(testCategories(5), 1),
		}
		session := startSession(t, backend)

		_, err := session.SelectCategory(ctx, 1)
		require.NoError(t, err)
		_, err = session.AnswerOption(ctx, testQuestion().Options[0])
		require.NoError(t, err)

		fetches := backend.callCount("fetch")
		_, err = session.SelectCategory(ctx, 1)

		assert.Equal(t, apperr.ErrCodeCategoryUsed, apperr.GetCode(err))
		assert.Equal(t, fetches, backend.callCount("fetch"))
	})

	t.Run("rejected for an unknown category", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		session := startSession(t, backend)

		_, err := session.SelectCategory(ctx, 99)

		assert.Equal(t, apperr.ErrCodeInvalidInput, apperr.GetCode(err))
		assert.Equal(t, 0, backend.callCount("fetch"))
	})

	t.Run("failure stays in category selection", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.questionErr = fmt.Errorf("backend down")
		session := startSession(t, backend)

		_, err := session.SelectCategory(ctx, 1)

		assert.Error(t, err)
		assert.Equal(t, StatusCategorySelection, session.Status())
		assert.Nil(t, session.CurrentQuestion())
		assert.Equal(t, "Failed to fetch questions", session.LastError())
	})
}

func markUsed(cats []model.Category, ids ...model.ID) []model.Category {
	for _, id := range ids {
		for i := range cats {
			if cats[i].ID == id {
				cats[i].Used = true
			}
		}
	}
	return cats
}

func TestAnswerOption(t *testing.T) {
	ctx := context.Background()

	startQuestioning := func(t *testing.T, backend *fakeBackend) *Session {
		t.Helper()
		backend.startRes = testStartResult(5, 300)
		backend.question = testQuestion()
		session := startSession(t, backend)
		_, err := session.SelectCategory(ctx, 1)
		require.NoError(t, err)
		return session
	}

	t.Run("appends conversation entry and returns to category selection", func(t *testing.T) {
		backend := newFakeBackend()
		session := startQuestioning(t, backend)
		backend.answerRes = &api.AnswerResult{Yes: true, Categories: markUsed(testCategories(5), 1)}

		yes, err := session.AnswerOption(ctx, testQuestion().Options[0])
		require.NoError(t, err)

		assert.True(t, yes)
		assert.Equal(t, 1, session.QuestionsAsked())
		assert.Equal(t, StatusCategorySelection, session.Status())
		assert.Nil(t, session.CurrentQuestion())

		conversation := session.Conversation()
		require.Len(t, conversation, 1)
		assert.Equal(t, "X", conversation[0].Option.Text.Resolve([]string{"en"}))
		assert.True(t, conversation[0].Answer)
	})

	t.Run("merges server used flags", func(t *testing.T) {
		backend := newFakeBackend()
		session := startQuestioning(t, backend)
		backend.answerRes = &api.AnswerResult{Yes: false, Categories: markUsed(testCategories(5), 1)}

		_, err := session.AnswerOption(ctx, testQuestion().Options[1])
		require.NoError(t, err)

		categories := session.Categories()
		assert.True(t, categories[0].Used)
		assert.False(t, categories[1].Used)
	})

	t.Run("used flag never reverts even if the server un-sets it", func(t *testing.T) {
		backend := newFakeBackend()
		session := startQuestioning(t, backend)
		backend.answerRes = &api.AnswerResult{Yes: true, Categories: markUsed(testCategories(5), 1)}

		_, err := session.AnswerOption(ctx, testQuestion().Options[0])
		require.NoError(t, err)
		require.True(t, session.Categories()[0].Used)

		// category 1 arrives unused in the next response
		_, err = session.SelectCategory(ctx, 2)
		require.NoError(t, err)
		backend.answerRes = &api.AnswerResult{Yes: false, Categories: markUsed(testCategories(5), 2)}
		_, err = session.AnswerOption(ctx, testQuestion().Options[0])
		require.NoError(t, err)

		categories := session.Categories()
		assert.True(t, categories[0].Used)
		assert.True(t, categories[1].Used)
	})

	t.Run("rejected outside questioning with no network call", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		session := startSession(t, backend)

		_, err := session.AnswerOption(ctx, testQuestion().Options[0])

		assert.Equal(t, apperr.ErrCodeNoActiveQuestion, apperr.GetCode(err))
		assert.Equal(t, 0, backend.callCount("answer"))
	})

	t.Run("failure keeps the active question", func(t *testing.T) {
		backend := newFakeBackend()
		session := startQuestioning(t, backend)
		backend.answerErr = fmt.Errorf("backend down")

		_, err := session.AnswerOption(ctx, testQuestion().Options[0])

		assert.Error(t, err)
		assert.Equal(t, StatusQuestioning, session.Status())
		assert.NotNil(t, session.CurrentQuestion())
		assert.Empty(t, session.Conversation())
		assert.Equal(t, 0, session.QuestionsAsked())
	})
}

func TestVerifyGuess(t *testing.T) {
	ctx := context.Background()

	t.Run("match ends the session won citing categories used", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.guessRes = &api.GuessResult{
			Match:          true,
			CategoriesUsed: 2,
			EntityName:     "Einstein",
			Entity:         &model.Entity{Name: "Einstein"},
		}
		session := startSession(t, backend)

		result, err := session.VerifyGuess(ctx, "Einstein")
		require.NoError(t, err)

		assert.Equal(t, model.OutcomeWon, result.Outcome)
		assert.Contains(t, result.Message, "2 categories")
		assert.Equal(t, StatusWon, session.Status())
		require.NotNil(t, session.Entity())
		assert.Equal(t, "Einstein", session.Entity().Name)
	})

	t.Run("single category uses singular wording", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.guessRes = &api.GuessResult{Match: true, CategoriesUsed: 1}
		session := startSession(t, backend)

		result, err := session.VerifyGuess(ctx, "Einstein")
		require.NoError(t, err)

		assert.Contains(t, result.Message, "1 category")
		assert.NotContains(t, result.Message, "1 categories")
	})

	t.Run("zero categories stays plural", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.guessRes = &api.GuessResult{Match: true, CategoriesUsed: 0}
		session := startSession(t, backend)

		result, err := session.VerifyGuess(ctx, "Einstein")
		require.NoError(t, err)

		assert.Contains(t, result.Message, "0 categories")
	})

	t.Run("non-match ends the session lost citing the answer", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.guessRes = &api.GuessResult{Match: false, EntityName: "Einstein"}
		session := startSession(t, backend)

		result, err := session.VerifyGuess(ctx, "Newton")
		require.NoError(t, err)

		assert.Equal(t, model.OutcomeLost, result.Outcome)
		assert.Contains(t, result.Message, "Einstein")
		assert.Equal(t, StatusLost, session.Status())
	})

	t.Run("rejected after the session has ended", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.guessRes = &api.GuessResult{Match: true, CategoriesUsed: 1}
		session := startSession(t, backend)

		_, err := session.VerifyGuess(ctx, "Einstein")
		require.NoError(t, err)

		guesses := backend.callCount("guess")
		_, err = session.VerifyGuess(ctx, "Einstein")

		assert.Equal(t, apperr.ErrCodeSessionEnded, apperr.GetCode(err))
		assert.Equal(t, guesses, backend.callCount("guess"))
	})

	t.Run("rejected without a session", func(t *testing.T) {
		backend := newFakeBackend()
		session := newTestSession(backend)

		_, err := session.VerifyGuess(ctx, "Einstein")

		assert.Equal(t, apperr.ErrCodeNoSession, apperr.GetCode(err))
		assert.Equal(t, 0, backend.callCount("guess"))
	})

	t.Run("empty guess is rejected locally", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		session := startSession(t, backend)

		_, err := session.VerifyGuess(ctx, "   ")

		assert.Equal(t, apperr.ErrCodeMissingRequired, apperr.GetCode(err))
		assert.Equal(t, 0, backend.callCount("guess"))
	})

	t.Run("failure keeps the session playable", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.guessErr = fmt.Errorf("backend down")
		session := startSession(t, backend)

		_, err := session.VerifyGuess(ctx, "Einstein")

		assert.Error(t, err)
		assert.Equal(t, StatusCategorySelection, session.Status())
		assert.Nil(t, session.Result())
	})

	t.Run("archives the finished session", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.guessRes = &api.GuessResult{Match: true, CategoriesUsed: 3}
		recorder := &fakeRecorder{}
		session := startSession(t, backend, WithRecorder(recorder))

		_, err := session.VerifyGuess(ctx, "Einstein")
		require.NoError(t, err)

		records := recorder.all()
		require.Len(t, records, 1)
		assert.Equal(t, model.OutcomeWon, records[0].Outcome)
		assert.Equal(t, 3, records[0].CategoriesUsed)
		assert.Equal(t, "Famous People", records[0].Theme)
	})
}

func TestTick(t *testing.T) {
	ctx := context.Background()

	t.Run("exactly timeLimit ticks force a timed-out loss", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 3)
		session := startSession(t, backend)

		for i := 0; i < 3; i++ {
			session.Tick()
		}

		assert.Equal(t, StatusLost, session.Status())
		assert.Equal(t, 0, session.TimeRemaining())
		require.NotNil(t, session.Result())
		assert.Equal(t, timeExpiredMessage, session.Result().Message)
	})

	t.Run("further ticks after expiry change nothing", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 1)
		session := startSession(t, backend)

		session.Tick()
		require.Equal(t, StatusLost, session.Status())

		session.Tick()
		session.Tick()
		assert.Equal(t, StatusLost, session.Status())
		assert.Equal(t, 0, session.TimeRemaining())
		assert.Equal(t, timeExpiredMessage, session.Result().Message)
	})

	t.Run("tick is a no-op while idle", func(t *testing.T) {
		backend := newFakeBackend()
		session := newTestSession(backend)

		session.Tick()

		assert.Equal(t, StatusIdle, session.Status())
		assert.Equal(t, 0, session.TimeRemaining())
	})

	t.Run("expiry archives a lost record", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 1)
		recorder := &fakeRecorder{}
		session := startSession(t, backend, WithRecorder(recorder))

		session.Tick()

		records := recorder.all()
		require.Len(t, records, 1)
		assert.Equal(t, model.OutcomeLost, records[0].Outcome)
		assert.Equal(t, timeExpiredMessage, records[0].Message)
	})

	t.Run("tick from a superseded countdown never touches the new session", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 10)
		session := startSession(t, backend)

		session.mu.Lock()
		stale := session.timer
		session.mu.Unlock()
		require.NotNil(t, stale)

		// replace the session; the stale countdown's tick may already be
		// past its select, waiting on the mutex
		backend.startRes = testStartResult(5, 10)
		backend.startRes.SessionToken = "tok-new"
		require.NoError(t, session.Start(ctx, testTheme, testLevel))

		session.tick(stale)

		assert.Equal(t, 10, session.TimeRemaining())
		assert.Equal(t, StatusCategorySelection, session.Status())

		// the owning countdown still ticks
		session.mu.Lock()
		current := session.timer
		session.mu.Unlock()
		session.tick(current)
		assert.Equal(t, 9, session.TimeRemaining())
	})

	t.Run("stale tick after reset stays a no-op", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 10)
		session := startSession(t, backend)

		session.mu.Lock()
		stale := session.timer
		session.mu.Unlock()

		session.Reset()
		session.tick(stale)

		assert.Equal(t, StatusIdle, session.Status())
		assert.Equal(t, 0, session.TimeRemaining())
	})

	t.Run("fake clock drives the countdown", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 10)
		identity := &fakeIdentity{authed: true}
		session := NewSession(backend, identity, WithClock(clock))
		require.NoError(t, session.Start(ctx, testTheme, testLevel))

		clock.BlockUntil(1)
		clock.Advance(time.Second)

		require.Eventually(t, func() bool {
			return session.TimeRemaining() == 9
		}, time.Second, time.Millisecond)

		session.Reset()
	})

	t.Run("no ticks are observed after reset", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 10)
		identity := &fakeIdentity{authed: true}
		session := NewSession(backend, identity, WithClock(clock))
		require.NoError(t, session.Start(ctx, testTheme, testLevel))

		clock.BlockUntil(1)
		session.Reset()
		clock.Advance(5 * time.Second)

		assert.Equal(t, StatusIdle, session.Status())
		assert.Equal(t, 0, session.TimeRemaining())
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()

	assertIdle := func(t *testing.T, session *Session) {
		t.Helper()
		assert.Equal(t, StatusIdle, session.Status())
		assert.Empty(t, session.Token())
		assert.Empty(t, session.Categories())
		assert.Empty(t, session.Conversation())
		assert.Equal(t, 0, session.QuestionsAsked())
		assert.Equal(t, 0, session.TimeRemaining())
		assert.Nil(t, session.CurrentQuestion())
		assert.Nil(t, session.Result())
		assert.Nil(t, session.Entity())
		assert.Empty(t, session.LastError())
	}

	t.Run("from idle is a no-op", func(t *testing.T) {
		session := newTestSession(newFakeBackend())
		session.Reset()
		assertIdle(t, session)
	})

	t.Run("from an active session clears everything", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.question = testQuestion()
		session := startSession(t, backend)
		_, err := session.SelectCategory(ctx, 1)
		require.NoError(t, err)

		session.Reset()
		assertIdle(t, session)
	})

	t.Run("from a terminal state clears everything", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.guessRes = &api.GuessResult{Match: true, CategoriesUsed: 1}
		session := startSession(t, backend)
		_, err := session.VerifyGuess(ctx, "Einstein")
		require.NoError(t, err)

		session.Reset()
		assertIdle(t, session)
	})

	t.Run("repeated resets are safe", func(t *testing.T) {
		session := newTestSession(newFakeBackend())
		session.Reset()
		session.Reset()
		assertIdle(t, session)
	})
}

func TestConcurrencyGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("second mutating call is rejected while one is in flight", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.question = testQuestion()
		session := startSession(t, backend)

		backend.mu.Lock()
		backend.block = make(chan struct{})
		backend.mu.Unlock()

		firstDone := make(chan error, 1)
		go func() {
			_, err := session.SelectCategory(ctx, 1)
			firstDone <- err
		}()

		require.Eventually(t, func() bool {
			return backend.callCount("fetch") == 1
		}, time.Second, time.Millisecond)

		_, err := session.SelectCategory(ctx, 2)
		assert.Equal(t, apperr.ErrCodeConcurrentCall, apperr.GetCode(err))

		close(backend.block)
		assert.NoError(t, <-firstDone)
	})
}

func TestSuggestions(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an active session", func(t *testing.T) {
		backend := newFakeBackend()
		session := newTestSession(backend)

		_, err := session.Suggestions(ctx)

		assert.Equal(t, apperr.ErrCodeNoSession, apperr.GetCode(err))
		assert.Equal(t, 0, backend.callCount("suggestions"))
	})

	t.Run("returns the backend list", func(t *testing.T) {
		backend := newFakeBackend()
		backend.startRes = testStartResult(5, 300)
		backend.suggestions = []string{"Einstein", "Newton"}
		session := startSession(t, backend)

		names, err := session.Suggestions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Einstein", "Newton"}, names)
	})
}
