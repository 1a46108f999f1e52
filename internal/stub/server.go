// Package stub is a development backend implementing the game's HTTP surface
// with deterministic fixtures. It exists so the client can be exercised end
// to end without the real service; it is not a game engine.
package stub

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guessquest/client-go/internal/model"
)

// Every OTP the stub sends is this value.
const FixedOTP = "123456"

type Server struct {
	store Store

	mu     sync.RWMutex
	tokens map[string]model.User
}

func NewServer(store Store) *Server {
	return &Server{
		store:  store,
		tokens: make(map[string]model.User),
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/manual", s.loginManual)
		r.Post("/send-otp", s.sendOTP)
		r.Post("/verify-otp", s.verifyOTP)
		r.Post("/google", s.loginGoogle)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/themes", s.listThemes)
		r.Get("/levels", s.listLevels)
		r.Get("/leaderboard", s.leaderboard)
		r.Post("/start-game", s.startGame)
		r.Post("/fetch-questions", s.fetchQuestions)
		r.Post("/ask-question", s.askQuestion)
		r.Post("/verify-guess", s.verifyGuess)
		r.Post("/suggestions", s.suggestions)
	})

	return r
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" || token == authHeader {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Missing authentication token"})
			return
		}

		s.mu.RLock()
		_, ok := s.tokens[token]
		s.mu.RUnlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) issueToken(user model.User) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = user
	s.mu.Unlock()
	return token
}

// RevokeToken forgets an issued token so later calls 401. Used by tests to
// simulate server-side revocation.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

func (s *Server) loginManual(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "name and email are required"})
		return
	}

	user := model.User{ID: uuid.NewString(), Name: req.Name, Email: req.Email}
	token := s.issueToken(user)
	writeJSON(w, http.StatusOK, envelope(map[string]any{"user": user, "token": token}))
}

func (s *Server) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email is required"})
		return
	}
	log.Info().Str("email", req.Email).Str("otp", FixedOTP).Msg("stub otp issued")
	writeJSON(w, http.StatusOK, envelope(map[string]any{"message": "OTP sent"}))
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.OTP == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email and otp are required"})
		return
	}
	if req.OTP != FixedOTP {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid or expired OTP"})
		return
	}

	name := strings.SplitN(req.Email, "@", 2)[0]
	user := model.User{ID: uuid.NewString(), Name: name, Email: req.Email}
	token := s.issueToken(user)
	writeJSON(w, http.StatusOK, envelope(map[string]any{"user": user, "token": token}))
}

func (s *Server) loginGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "token is required"})
		return
	}

	user := model.User{ID: uuid.NewString(), Name: "Google User", Email: "google-user@example.com"}
	token := s.issueToken(user)
	writeJSON(w, http.StatusOK, envelope(map[string]any{"user": user, "token": token}))
}

func (s *Server) listThemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope(fixtureThemes()))
}

// listLevels responds with a bare array; the real backend does this for
// levels but wraps themes, and the client handles both shapes.
func (s *Server) listLevels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, fixtureLevels())
}

func (s *Server) leaderboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": fixtureLeaderboard()})
}

func (s *Server) startGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ThemeID int64 `json:"theme_id"`
		LevelID int64 `json:"level_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	var level *model.Level
	for _, l := range fixtureLevels() {
		if l.ID.Int64() == req.LevelID {
			lvl := l
			level = &lvl
			break
		}
	}
	if level == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown level"})
		return
	}

	sess := &GameSession{
		Token:      uuid.NewString(),
		ThemeID:    req.ThemeID,
		LevelID:    req.LevelID,
		EntityName: fixtureEntity(req.ThemeID),
		Categories: fixtureCategories(req.ThemeID, level.CategoriesCount),
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("failed to save stub session")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "failed to save session"})
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]any{
		"session_token":    sess.Token,
		"categories":       sess.Categories,
		"categories_count": level.CategoriesCount,
		"time_per_attempt": level.TimePerAttempt,
	}))
}

func (s *Server) fetchQuestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
		CategoryID   int64  `json:"category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	if _, err := s.store.Get(r.Context(), req.SessionToken); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown session"})
		return
	}

	question, ok := fixtureQuestion(req.CategoryID)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown category"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": question})
}

func (s *Server) askQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
		OptionID     int64  `json:"option_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	sess, err := s.store.Get(r.Context(), req.SessionToken)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown session"})
		return
	}

	answer := "no"
	if yesOptions[sess.ThemeID][req.OptionID] {
		answer = "yes"
	}

	categoryID := req.OptionID / 100
	for i := range sess.Categories {
		if sess.Categories[i].ID.Int64() == categoryID {
			sess.Categories[i].Used = true
		}
	}
	sess.QuestionsAsked++
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("failed to update stub session")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "failed to update session"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":     answer,
		"categories": sess.Categories,
	})
}

func (s *Server) verifyGuess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
		GuessName    string `json:"guess_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	sess, err := s.store.Get(r.Context(), req.SessionToken)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown session"})
		return
	}

	match := strings.EqualFold(strings.TrimSpace(req.GuessName), sess.EntityName)
	message := "Wrong guess!"
	if match {
		message = "Correct guess!"
	}

	writeJSON(w, http.StatusOK, envelope(map[string]any{
		"match":           match,
		"message":         message,
		"categories_used": sess.UsedCount(),
		"entity_name":     sess.EntityName,
		"entity": model.Entity{
			Name:       sess.EntityName,
			Attributes: map[string]any{"theme_id": sess.ThemeID},
		},
	}))
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	sess, err := s.store.Get(r.Context(), req.SessionToken)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown session"})
		return
	}

	names := []string{sess.EntityName, "Newton", "Tesla", "Giraffe", "Lion"}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": names})
}

func envelope(data any) map[string]any {
	return map[string]any{"data": data}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
