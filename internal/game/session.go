// Package game holds the client-side session state machine. The backend owns
// all game logic; this type mirrors its responses and enforces the transition
// contracts locally: precondition checks before any network call, atomic
// state replacement on success, prior state untouched on failure.
package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/guessquest/client-go/internal/api"
	"github.com/guessquest/client-go/internal/apperr"
	"github.com/guessquest/client-go/internal/model"
)

const timeExpiredMessage = "Time expired! You ran out of time."

// Backend is the slice of the API client the session drives.
type Backend interface {
	StartGame(ctx context.Context, themeID, levelID int64) (*api.StartGameResult, error)
	FetchQuestion(ctx context.Context, sessionToken string, categoryID int64) (*model.Question, error)
	SubmitAnswer(ctx context.Context, sessionToken string, optionID int64) (*api.AnswerResult, error)
	VerifyGuess(ctx context.Context, sessionToken, guess string) (*api.GuessResult, error)
	Suggestions(ctx context.Context, sessionToken string) ([]string, error)
}

// Identity gates session creation on a signed-in user.
type Identity interface {
	IsAuthenticated() bool
	CurrentUser() *model.User
}

// Record is the terminal artifact handed to the Recorder when a session ends.
type Record struct {
	Theme          string
	Level          string
	Outcome        model.Outcome
	Message        string
	QuestionsAsked int
	CategoriesUsed int
	DurationSecs   int
	FinishedAt     time.Time
}

// Recorder archives finished sessions. Failures are logged, never surfaced:
// archiving must not affect game state.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Session owns all session-scoped state. Every mutation flows through the
// transition methods; the timer goroutine shares the same mutex, so ticks
// serialize with transitions.
type Session struct {
	backend  Backend
	identity Identity
	clock    clockwork.Clock
	locales  []string
	recorder Recorder

	mu       sync.Mutex
	inflight bool

	token           string
	theme           *model.Theme
	level           *model.Level
	categories      []model.Category
	question        *model.Question
	conversation    []model.ConversationEntry
	questionsAsked  int
	categoriesCount int
	timeLimit       int
	timeRemaining   int
	status          Status
	entity          *model.Entity
	score           int
	result          *model.ResultSummary
	lastErr         string

	timer *countdown
}

type Option func(*Session)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

func WithRecorder(rec Recorder) Option {
	return func(s *Session) { s.recorder = rec }
}

func WithLocales(locales []string) Option {
	return func(s *Session) { s.locales = locales }
}

func NewSession(backend Backend, identity Identity, opts ...Option) *Session {
	s := &Session{
		backend:  backend,
		identity: identity,
		clock:    clockwork.NewRealClock(),
		locales:  []string{"en", "ar"},
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start requests a new session for the chosen theme and level. On success it
// replaces all session-scoped state atomically and enters category selection;
// on failure prior state is untouched and no partial session exists.
func (s *Session) Start(ctx context.Context, theme model.Theme, level model.Level) error {
	s.mu.Lock()
	if !s.identity.IsAuthenticated() {
		s.mu.Unlock()
		return apperr.NotAuthenticated()
	}
	if s.inflight {
		s.mu.Unlock()
		return apperr.ConcurrentCall()
	}
	s.inflight = true
	s.mu.Unlock()

	res, err := s.backend.StartGame(ctx, theme.ID.Int64(), level.ID.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = false

	if err != nil {
		s.lastErr = "Failed to start game"
		log.Error().Err(err).Msg("start game failed")
		return err
	}
	if res.SessionToken == "" {
		s.lastErr = "Failed to start game"
		return apperr.Backend("start game", fmt.Errorf("backend returned no session token"))
	}

	s.stopTimerLocked()

	count := res.CategoriesCount
	if count == 0 {
		count = level.CategoriesCount
	}
	limit := res.TimePerAttempt
	if limit == 0 {
		limit = level.TimePerAttempt
	}

	themeCopy := theme
	levelCopy := level
	s.token = res.SessionToken
	s.theme = &themeCopy
	s.level = &levelCopy
	s.categories = append([]model.Category(nil), res.Categories...)
	s.question = nil
	s.conversation = nil
	s.questionsAsked = 0
	s.categoriesCount = count
	s.timeLimit = limit
	s.timeRemaining = limit
	s.status = StatusCategorySelection
	s.entity = nil
	s.score = 0
	s.result = nil
	s.lastErr = ""

	s.timer = newCountdown(s.clock, s.tick)

	log.Info().
		Str("theme", theme.Name.Resolve(s.locales)).
		Str("level", level.Name.Resolve(s.locales)).
		Int("categories", count).
		Int("timeLimit", limit).
		Msg("game started")
	return nil
}

// SelectCategory fetches the first question for an unused category and moves
// to questioning.
func (s *Session) SelectCategory(ctx context.Context, categoryID model.ID) (*model.Question, error) {
	s.mu.Lock()
	if s.inflight {
		s.mu.Unlock()
		return nil, apperr.ConcurrentCall()
	}
	if s.token == "" {
		s.mu.Unlock()
		return nil, apperr.NoSession()
	}
	if s.status != StatusCategorySelection {
		s.mu.Unlock()
		if s.status.Terminal() {
			return nil, apperr.SessionEnded()
		}
		return nil, apperr.InvalidState("category selection is not open")
	}
	cat := s.findCategoryLocked(categoryID)
	if cat == nil {
		s.mu.Unlock()
		return nil, apperr.InvalidInput("category", "unknown id "+categoryID.String())
	}
	if cat.Used {
		name := cat.Name.Resolve(s.locales)
		s.mu.Unlock()
		return nil, apperr.CategoryUsed(name)
	}
	token := s.token
	s.inflight = true
	s.mu.Unlock()

	question, err := s.backend.FetchQuestion(ctx, token, categoryID.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = false

	if err != nil {
		s.lastErr = "Failed to fetch questions"
		log.Error().Err(err).Int64("categoryId", categoryID.Int64()).Msg("fetch question failed")
		return nil, err
	}
	if s.token != token || s.status != StatusCategorySelection {
		// The session expired or was reset while the call was in flight.
		return nil, apperr.InvalidState("session changed during request")
	}

	q := *question
	s.question = &q
	s.status = StatusQuestioning
	s.lastErr = ""
	return question, nil
}

// AnswerOption submits the chosen option, appends a conversation entry, folds
// in the backend's used-flags, and returns to category selection. The backend
// is the sole authority on which categories become exhausted.
func (s *Session) AnswerOption(ctx context.Context, option model.QuestionOption) (bool, error) {
	s.mu.Lock()
	if s.inflight {
		s.mu.Unlock()
		return false, apperr.ConcurrentCall()
	}
	if s.token == "" {
		s.mu.Unlock()
		return false, apperr.NoSession()
	}
	if s.status != StatusQuestioning || s.question == nil {
		s.mu.Unlock()
		if s.status.Terminal() {
			return false, apperr.SessionEnded()
		}
		return false, apperr.NoActiveQuestion()
	}
	token := s.token
	s.inflight = true
	s.mu.Unlock()

	res, err := s.backend.SubmitAnswer(ctx, token, option.ID.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = false

	if err != nil {
		s.lastErr = "Failed to ask question"
		log.Error().Err(err).Int64("optionId", option.ID.Int64()).Msg("submit answer failed")
		return false, err
	}
	if s.token != token || s.status != StatusQuestioning {
		return false, apperr.InvalidState("session changed during request")
	}

	s.conversation = append(s.conversation, model.ConversationEntry{
		Option:  option,
		Answer:  res.Yes,
		AskedAt: s.clock.Now(),
	})
	if res.Categories != nil {
		s.categories = mergeUsedFlags(s.categories, res.Categories)
	}
	s.questionsAsked++
	s.question = nil
	s.status = StatusCategorySelection
	s.lastErr = ""
	return res.Yes, nil
}

// VerifyGuess submits the final free-text guess. The transition is terminal:
// a second call after the session has ended is a precondition violation.
func (s *Session) VerifyGuess(ctx context.Context, guess string) (*model.ResultSummary, error) {
	guess = strings.TrimSpace(guess)

	s.mu.Lock()
	if s.inflight {
		s.mu.Unlock()
		return nil, apperr.ConcurrentCall()
	}
	if s.status.Terminal() {
		s.mu.Unlock()
		return nil, apperr.SessionEnded()
	}
	if s.token == "" {
		s.mu.Unlock()
		return nil, apperr.NoSession()
	}
	if guess == "" {
		s.mu.Unlock()
		return nil, apperr.MissingRequired("guess")
	}
	token := s.token
	s.inflight = true
	s.mu.Unlock()

	res, err := s.backend.VerifyGuess(ctx, token, guess)

	s.mu.Lock()
	s.inflight = false

	if err != nil {
		s.lastErr = "Failed to verify guess"
		s.mu.Unlock()
		log.Error().Err(err).Msg("verify guess failed")
		return nil, err
	}
	if s.token != token || s.status.Terminal() {
		// Timer expiry won the race; the session is already settled.
		s.mu.Unlock()
		return nil, apperr.SessionEnded()
	}

	s.stopTimerLocked()

	if res.Entity != nil {
		entity := *res.Entity
		s.entity = &entity
	}

	var summary model.ResultSummary
	if res.Match {
		noun := "categories"
		if res.CategoriesUsed == 1 {
			noun = "category"
		}
		summary = model.ResultSummary{
			Outcome: model.OutcomeWon,
			Message: fmt.Sprintf("You used %d %s to guess correctly!", res.CategoriesUsed, noun),
		}
		s.status = StatusWon
	} else {
		summary = model.ResultSummary{
			Outcome: model.OutcomeLost,
			Message: fmt.Sprintf("The correct answer was: %s", res.EntityName),
		}
		s.status = StatusLost
	}
	s.result = &summary
	s.lastErr = ""

	rec := s.buildRecordLocked(summary, res.CategoriesUsed)
	s.mu.Unlock()

	s.archive(rec)

	log.Info().Str("outcome", string(summary.Outcome)).Msg("guess verified")
	result := summary
	return &result, nil
}

// Tick decrements the remaining time by one second. At zero it forces the
// terminal loss with the fixed time-expired summary and stops the timer.
func (s *Session) Tick() {
	s.tick(nil)
}

func (s *Session) tick(from *countdown) bool {
	s.mu.Lock()

	// A tick from a countdown this session no longer owns was cancelled;
	// it must not touch the replacing session's clock.
	if from != nil && s.timer != from {
		s.mu.Unlock()
		return false
	}
	if !s.status.Active() {
		s.mu.Unlock()
		return false
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining > 0 {
		s.mu.Unlock()
		return true
	}

	s.stopTimerLocked()
	summary := model.ResultSummary{
		Outcome: model.OutcomeLost,
		Message: timeExpiredMessage,
	}
	s.status = StatusLost
	s.result = &summary
	rec := s.buildRecordLocked(summary, s.usedCountLocked())
	s.mu.Unlock()

	s.archive(rec)

	log.Info().Msg("time expired, session lost")
	return false
}

// Reset returns to the canonical idle state from anywhere. It never fails,
// needs no network, and is safe with no active session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()

	s.token = ""
	s.theme = nil
	s.level = nil
	s.categories = nil
	s.question = nil
	s.conversation = nil
	s.questionsAsked = 0
	s.categoriesCount = 0
	s.timeLimit = 0
	s.timeRemaining = 0
	s.status = StatusIdle
	s.entity = nil
	s.score = 0
	s.result = nil
	s.lastErr = ""
}

// Suggestions fetches guess suggestions for the active session. Read-only:
// failures leave state untouched.
func (s *Session) Suggestions(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return nil, apperr.NoSession()
	}
	token := s.token
	s.mu.Unlock()

	return s.backend.Suggestions(ctx, token)
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.stop()
		s.timer = nil
	}
}

func (s *Session) findCategoryLocked(id model.ID) *model.Category {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return &s.categories[i]
		}
	}
	return nil
}

func (s *Session) usedCountLocked() int {
	n := 0
	for _, cat := range s.categories {
		if cat.Used {
			n++
		}
	}
	return n
}

func (s *Session) buildRecordLocked(summary model.ResultSummary, categoriesUsed int) Record {
	rec := Record{
		Outcome:        summary.Outcome,
		Message:        summary.Message,
		QuestionsAsked: s.questionsAsked,
		CategoriesUsed: categoriesUsed,
		DurationSecs:   s.timeLimit - s.timeRemaining,
		FinishedAt:     s.clock.Now(),
	}
	if s.theme != nil {
		rec.Theme = s.theme.Name.Resolve(s.locales)
	}
	if s.level != nil {
		rec.Level = s.level.Name.Resolve(s.locales)
	}
	return rec
}

func (s *Session) archive(rec Record) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(context.Background(), rec); err != nil {
		log.Warn().Err(err).Msg("failed to archive finished session")
	}
}

// mergeUsedFlags replaces the local category list with the server's while
// keeping the used flag monotonic: once used locally, never unused again.
func mergeUsedFlags(local, server []model.Category) []model.Category {
	usedLocally := make(map[model.ID]bool, len(local))
	for _, cat := range local {
		if cat.Used {
			usedLocally[cat.ID] = true
		}
	}
	merged := append([]model.Category(nil), server...)
	for i := range merged {
		if usedLocally[merged[i].ID] {
			merged[i].Used = true
		}
	}
	return merged
}
