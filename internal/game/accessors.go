package game

import "github.com/guessquest/client-go/internal/model"

// Read accessors. All take the mutex and return copies; nothing handed out
// aliases session-owned state.

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Theme() *model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == nil {
		return nil
	}
	theme := *s.theme
	return &theme
}

func (s *Session) Level() *model.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.level == nil {
		return nil
	}
	level := *s.level
	return &level
}

func (s *Session) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.categories...)
}

func (s *Session) CurrentQuestion() *model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.question == nil {
		return nil
	}
	q := *s.question
	q.Options = append([]model.QuestionOption(nil), s.question.Options...)
	return &q
}

func (s *Session) Conversation() []model.ConversationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ConversationEntry(nil), s.conversation...)
}

func (s *Session) QuestionsAsked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionsAsked
}

func (s *Session) CategoriesCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoriesCount
}

func (s *Session) TimeLimit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeLimit
}

func (s *Session) TimeRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeRemaining
}

func (s *Session) Entity() *model.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entity == nil {
		return nil
	}
	entity := *s.entity
	return &entity
}

// Score mirrors the server-reported score; the backend currently never
// populates it past zero.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

func (s *Session) Result() *model.ResultSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	result := *s.result
	return &result
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}
