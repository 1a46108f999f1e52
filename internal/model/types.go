package model

import "time"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Score int    `json:"score,omitempty"`
	Level int    `json:"level,omitempty"`
}

type Theme struct {
	ID          ID            `json:"id"`
	Name        LocalizedText `json:"name"`
	Slug        string        `json:"slug"`
	Icon        string        `json:"icon,omitempty"`
	Description *string       `json:"description,omitempty"`
}

type Level struct {
	ID              ID            `json:"id"`
	Name            LocalizedText `json:"name"`
	Slug            string        `json:"slug"`
	CategoriesCount int           `json:"categories_count"`
	TimePerAttempt  int           `json:"time_per_attempt"`
	Difficulty      string        `json:"difficulty,omitempty"`
}

type Category struct {
	ID          ID            `json:"id"`
	Name        LocalizedText `json:"name"`
	Slug        string        `json:"slug"`
	Description *string       `json:"description,omitempty"`
	Used        bool          `json:"used"`
}

type QuestionOption struct {
	ID         ID            `json:"id"`
	Text       LocalizedText `json:"text"`
	CategoryID ID            `json:"category_id,omitempty"`
}

type Question struct {
	ID      ID               `json:"question_id"`
	Text    LocalizedText    `json:"text"`
	Hint    *string          `json:"hint,omitempty"`
	Options []QuestionOption `json:"options"`
}

// ConversationEntry records one asked option and its yes/no answer. Entries
// are append-only; AskedAt disambiguates repeated option ids.
type ConversationEntry struct {
	Option  QuestionOption `json:"option"`
	Answer  bool           `json:"answer"`
	AskedAt time.Time      `json:"asked_at"`
}

// Entity is the hidden answer, revealed only after guess verification.
type Entity struct {
	Name       string         `json:"name"`
	ImageURL   string         `json:"image_url,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

type ResultSummary struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

type LeaderboardEntry struct {
	Rank  int    `json:"rank,omitempty"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}
