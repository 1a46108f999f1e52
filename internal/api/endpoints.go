package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/guessquest/client-go/internal/model"
)

type StartGameResult struct {
	SessionToken    string           `json:"session_token"`
	Categories      []model.Category `json:"categories"`
	CategoriesCount int              `json:"categories_count"`
	TimePerAttempt  int              `json:"time_per_attempt"`
}

func (c *Client) StartGame(ctx context.Context, themeID, levelID int64) (*StartGameResult, error) {
	req := map[string]any{
		"theme_id": themeID,
		"level_id": levelID,
	}
	var out StartGameResult
	if err := c.post(ctx, "/start-game", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchQuestion(ctx context.Context, sessionToken string, categoryID int64) (*model.Question, error) {
	req := map[string]any{
		"session_token": sessionToken,
		"category_id":   categoryID,
	}
	var out struct {
		Questions model.Question `json:"questions"`
	}
	if err := c.post(ctx, "/fetch-questions", req, &out, false); err != nil {
		return nil, err
	}
	return &out.Questions, nil
}

type AnswerResult struct {
	Yes        bool
	Categories []model.Category
}

func (c *Client) SubmitAnswer(ctx context.Context, sessionToken string, optionID int64) (*AnswerResult, error) {
	req := map[string]any{
		"session_token": sessionToken,
		"option_id":     optionID,
	}
	var out struct {
		Answer     flexBool         `json:"answer"`
		Categories []model.Category `json:"categories"`
	}
	if err := c.post(ctx, "/ask-question", req, &out, false); err != nil {
		return nil, err
	}
	return &AnswerResult{Yes: bool(out.Answer), Categories: out.Categories}, nil
}

type GuessResult struct {
	Match          bool
	Message        string
	CategoriesUsed int
	EntityName     string
	Entity         *model.Entity
}

func (c *Client) VerifyGuess(ctx context.Context, sessionToken, guess string) (*GuessResult, error) {
	req := map[string]any{
		"session_token": sessionToken,
		"guess_name":    guess,
	}
	var out struct {
		Match          flexBool      `json:"match"`
		Message        string        `json:"message"`
		CategoriesUsed int           `json:"categories_used"`
		EntityName     string        `json:"entity_name"`
		Entity         *model.Entity `json:"entity"`
	}
	if err := c.post(ctx, "/verify-guess", req, &out, true); err != nil {
		return nil, err
	}
	return &GuessResult{
		Match:          bool(out.Match),
		Message:        out.Message,
		CategoriesUsed: out.CategoriesUsed,
		EntityName:     out.EntityName,
		Entity:         out.Entity,
	}, nil
}

// suggestionItem is either a plain string or an object with a name field.
type suggestionItem string

func (s *suggestionItem) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*s = suggestionItem(plain)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("cannot parse suggestion item %s", data)
	}
	*s = suggestionItem(obj.Name)
	return nil
}

func (c *Client) Suggestions(ctx context.Context, sessionToken string) ([]string, error) {
	req := map[string]any{
		"session_token": sessionToken,
	}
	var out struct {
		Suggestions []suggestionItem `json:"suggestions"`
		Data        []suggestionItem `json:"data"`
	}
	if err := c.post(ctx, "/suggestions", req, &out, false); err != nil {
		return nil, err
	}
	items := out.Suggestions
	if items == nil {
		items = out.Data
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, string(item))
	}
	return names, nil
}

func (c *Client) ListThemes(ctx context.Context) ([]model.Theme, error) {
	var out []model.Theme
	if err := c.get(ctx, "/themes", &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListLevels(ctx context.Context) ([]model.Level, error) {
	var out []model.Level
	if err := c.get(ctx, "/levels", &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Leaderboard(ctx context.Context, filter string) ([]model.LeaderboardEntry, error) {
	path := "/leaderboard"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}
	var out struct {
		Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
	}
	if err := c.get(ctx, path, &out, false); err != nil {
		return nil, err
	}
	return out.Leaderboard, nil
}

type AuthResult struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

func (c *Client) LoginManual(ctx context.Context, name, email string) (*AuthResult, error) {
	req := map[string]any{"name": name, "email": email}
	var out AuthResult
	if err := c.post(ctx, "/auth/manual", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/send-otp", map[string]any{"email": email}, nil, false)
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error) {
	req := map[string]any{"email": email, "otp": otp}
	var out AuthResult
	if err := c.post(ctx, "/auth/verify-otp", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LoginGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	req := map[string]any{"token": idToken}
	var out AuthResult
	if err := c.post(ctx, "/auth/google", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}
