// Package history archives finished sessions in a local SQLite database.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/guessquest/client-go/internal/game"
	"github.com/guessquest/client-go/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	theme TEXT NOT NULL,
	level TEXT NOT NULL,
	outcome TEXT NOT NULL,
	message TEXT NOT NULL,
	questions_asked INTEGER NOT NULL,
	categories_used INTEGER NOT NULL,
	duration_secs INTEGER NOT NULL,
	finished_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_results_finished_at ON game_results(finished_at DESC);
`

type resultRow struct {
	ID             int64     `db:"id"`
	Theme          string    `db:"theme"`
	Level          string    `db:"level"`
	Outcome        string    `db:"outcome"`
	Message        string    `db:"message"`
	QuestionsAsked int       `db:"questions_asked"`
	CategoriesUsed int       `db:"categories_used"`
	DurationSecs   int       `db:"duration_secs"`
	FinishedAt     time.Time `db:"finished_at"`
}

type Repository struct {
	db *sqlx.DB
}

func Open(path string) (*Repository, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Record implements game.Recorder.
func (r *Repository) Record(ctx context.Context, rec game.Record) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO game_results (theme, level, outcome, message, questions_asked, categories_used, duration_secs, finished_at)
		VALUES (:theme, :level, :outcome, :message, :questions_asked, :categories_used, :duration_secs, :finished_at)`,
		resultRow{
			Theme:          rec.Theme,
			Level:          rec.Level,
			Outcome:        string(rec.Outcome),
			Message:        rec.Message,
			QuestionsAsked: rec.QuestionsAsked,
			CategoriesUsed: rec.CategoriesUsed,
			DurationSecs:   rec.DurationSecs,
			FinishedAt:     rec.FinishedAt,
		})
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

// Recent returns the most recently finished sessions, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]game.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []resultRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, theme, level, outcome, message, questions_asked, categories_used, duration_secs, finished_at
		FROM game_results
		ORDER BY finished_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select game results: %w", err)
	}

	records := make([]game.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, game.Record{
			Theme:          row.Theme,
			Level:          row.Level,
			Outcome:        model.Outcome(row.Outcome),
			Message:        row.Message,
			QuestionsAsked: row.QuestionsAsked,
			CategoriesUsed: row.CategoriesUsed,
			DurationSecs:   row.DurationSecs,
			FinishedAt:     row.FinishedAt,
		})
	}
	return records, nil
}
