// Package auth owns the signed-out / signed-in lifecycle. All entry paths
// (manual login, OTP, federated token exchange) converge on the same success
// contract: persist the identity and bearer token, mark signed-in.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/guessquest/client-go/internal/api"
	"github.com/guessquest/client-go/internal/apperr"
	"github.com/guessquest/client-go/internal/credstore"
	"github.com/guessquest/client-go/internal/model"
)

// Backend is the slice of the API client the gate needs.
type Backend interface {
	LoginManual(ctx context.Context, name, email string) (*api.AuthResult, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (*api.AuthResult, error)
	LoginGoogle(ctx context.Context, idToken string) (*api.AuthResult, error)
}

type Gate struct {
	backend Backend
	store   credstore.Store

	mu    sync.RWMutex
	user  *model.User
	token string
}

func NewGate(backend Backend, store credstore.Store) *Gate {
	return &Gate{backend: backend, store: store}
}

func (g *Gate) LoginManual(ctx context.Context, name, email string) (*model.User, error) {
	if name == "" {
		return nil, apperr.MissingRequired("name")
	}
	if email == "" {
		return nil, apperr.MissingRequired("email")
	}
	res, err := g.backend.LoginManual(ctx, name, email)
	if err != nil {
		return nil, err
	}
	return g.signIn(ctx, res)
}

func (g *Gate) SendOTP(ctx context.Context, email string) error {
	if email == "" {
		return apperr.MissingRequired("email")
	}
	return g.backend.SendOTP(ctx, email)
}

// ResendOTP is an alias kept for callers that distinguish the two actions.
func (g *Gate) ResendOTP(ctx context.Context, email string) error {
	return g.SendOTP(ctx, email)
}

func (g *Gate) VerifyOTP(ctx context.Context, email, otp string) (*model.User, error) {
	if email == "" {
		return nil, apperr.MissingRequired("email")
	}
	if otp == "" {
		return nil, apperr.MissingRequired("otp")
	}
	res, err := g.backend.VerifyOTP(ctx, email, otp)
	if err != nil {
		return nil, err
	}
	return g.signIn(ctx, res)
}

func (g *Gate) LoginGoogle(ctx context.Context, idToken string) (*model.User, error) {
	if idToken == "" {
		return nil, apperr.MissingRequired("token")
	}
	res, err := g.backend.LoginGoogle(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return g.signIn(ctx, res)
}

func (g *Gate) signIn(ctx context.Context, res *api.AuthResult) (*model.User, error) {
	if res.Token == "" {
		return nil, apperr.Backend("sign in", errors.New("backend returned no token"))
	}

	userJSON, err := json.Marshal(res.User)
	if err != nil {
		return nil, apperr.Internal("encode user").WithCause(err)
	}
	if err := g.store.Set(ctx, credstore.KeyAuthToken, res.Token); err != nil {
		return nil, apperr.Storage(err)
	}
	if err := g.store.Set(ctx, credstore.KeyUser, string(userJSON)); err != nil {
		// roll the token back; an orphaned token would still be attached
		// as a bearer header while the gate reports signed out
		if delErr := g.store.Delete(ctx, credstore.KeyAuthToken); delErr != nil {
			log.Error().Err(delErr).Msg("failed to roll back stored token")
		}
		return nil, apperr.Storage(err)
	}

	g.mu.Lock()
	user := res.User
	g.user = &user
	g.token = res.Token
	g.mu.Unlock()

	log.Info().Str("userId", res.User.ID).Msg("signed in")
	return &user, nil
}

// Logout clears memory and persisted credentials. It never fails: storage
// errors are logged and swallowed so the caller always ends up signed out.
func (g *Gate) Logout(ctx context.Context) {
	g.clear(ctx)
	log.Info().Msg("signed out")
}

// HandleUnauthorized is wired as the API client's 401 hook. The stored token
// is treated as revoked regardless of which call was rejected.
func (g *Gate) HandleUnauthorized(ctx context.Context) {
	g.clear(ctx)
}

func (g *Gate) clear(ctx context.Context) {
	g.mu.Lock()
	g.user = nil
	g.token = ""
	g.mu.Unlock()

	if err := g.store.Delete(ctx, credstore.KeyAuthToken); err != nil {
		log.Error().Err(err).Msg("failed to delete stored token")
	}
	if err := g.store.Delete(ctx, credstore.KeyUser); err != nil {
		log.Error().Err(err).Msg("failed to delete stored user")
	}
}

// LoadFromStorage restores a previous sign-in if both the token and the user
// record are present. Missing keys leave the gate signed out.
func (g *Gate) LoadFromStorage(ctx context.Context) error {
	token, err := g.store.Get(ctx, credstore.KeyAuthToken)
	if errors.Is(err, credstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperr.Storage(err)
	}

	userJSON, err := g.store.Get(ctx, credstore.KeyUser)
	if errors.Is(err, credstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperr.Storage(err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		log.Warn().Err(err).Msg("stored user record is corrupt, ignoring")
		return nil
	}

	g.mu.Lock()
	g.user = &user
	g.token = token
	g.mu.Unlock()

	log.Debug().Str("userId", user.ID).Msg("restored sign-in from storage")
	return nil
}

func (g *Gate) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token != ""
}

func (g *Gate) CurrentUser() *model.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return nil
	}
	user := *g.user
	return &user
}

func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}
