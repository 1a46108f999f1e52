package stub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guessquest/client-go/internal/model"
)

var ErrSessionNotFound = errors.New("stub: session not found")

// GameSession is the stub's server-side record of one attempt.
type GameSession struct {
	Token          string           `json:"token"`
	ThemeID        int64            `json:"theme_id"`
	LevelID        int64            `json:"level_id"`
	EntityName     string           `json:"entity_name"`
	Categories     []model.Category `json:"categories"`
	QuestionsAsked int              `json:"questions_asked"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (s *GameSession) UsedCount() int {
	n := 0
	for _, cat := range s.Categories {
		if cat.Used {
			n++
		}
	}
	return n
}

// Store holds stub sessions. The in-memory implementation serves tests; the
// Redis one lets several stub instances share state.
type Store interface {
	Save(ctx context.Context, sess *GameSession) error
	Get(ctx context.Context, token string) (*GameSession, error)
	Delete(ctx context.Context, token string) error
}

type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]*GameSession
}

func NewMemStore() *MemStore {
	return &MemStore{sessions: make(map[string]*GameSession)}
}

func (s *MemStore) Save(_ context.Context, sess *GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	copied.Categories = append([]model.Category(nil), sess.Categories...)
	s.sessions[sess.Token] = &copied
	return nil
}

func (s *MemStore) Get(_ context.Context, token string) (*GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *sess
	copied.Categories = append([]model.Category(nil), sess.Categories...)
	return &copied, nil
}

func (s *MemStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

const redisSessionTTL = time.Hour

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func sessionKey(token string) string {
	return "guessquest:stub:session:" + token
}

func (s *RedisStore) Save(ctx context.Context, sess *GameSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.Token), raw, redisSessionTTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*GameSession, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess GameSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
