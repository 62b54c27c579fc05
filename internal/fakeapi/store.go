package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"quiz-data-client/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate id")
)

// Store keeps quizzes and attempts in memory, in insertion order.
type Store struct {
	mu       sync.RWMutex
	quizzes  []models.QuizData
	attempts []models.QuizAttempt
}

// Seed is the json-server db.json layout.
type Seed struct {
	Quizzes  []models.QuizData    `json:"quizzes"`
	Attempts []models.QuizAttempt `json:"attempts"`
}

func NewStore() *Store {
	return &Store{}
}

// NewStoreFromSeed loads a db.json style file.
func NewStoreFromSeed(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	s := NewStore()
	for _, q := range seed.Quizzes {
		if _, err := s.CreateQuiz(q); err != nil {
			return nil, fmt.Errorf("seed quiz %q: %w", q.ID, err)
		}
	}
	for _, a := range seed.Attempts {
		s.putAttempt(a)
	}
	return s, nil
}

func (s *Store) ListQuizzes() []models.QuizData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.QuizData, len(s.quizzes))
	for i, q := range s.quizzes {
		out[i] = cloneQuiz(q)
	}
	return out
}

func (s *Store) GetQuiz(id string) (models.QuizData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.quizIndex(id); i >= 0 {
		return cloneQuiz(s.quizzes[i]), nil
	}
	return models.QuizData{}, ErrNotFound
}

// CreateQuiz keeps a caller-supplied id and assigns a UUID otherwise.
func (s *Store) CreateQuiz(quiz models.QuizData) (models.QuizData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	} else if s.quizIndex(quiz.ID) >= 0 {
		return models.QuizData{}, ErrDuplicate
	}
	quiz = cloneQuiz(quiz)
	s.quizzes = append(s.quizzes, quiz)
	return cloneQuiz(quiz), nil
}

// ReplaceQuiz stores quiz under id; the id in the path wins over the body.
func (s *Store) ReplaceQuiz(id string, quiz models.QuizData) (models.QuizData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.quizIndex(id)
	if i < 0 {
		return models.QuizData{}, ErrNotFound
	}
	quiz.ID = id
	s.quizzes[i] = cloneQuiz(quiz)
	return quiz, nil
}

func (s *Store) DeleteQuiz(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.quizIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	s.quizzes = append(s.quizzes[:i], s.quizzes[i+1:]...)
	return nil
}

// CreateAttempt always assigns a fresh id.
func (s *Store) CreateAttempt(draft models.AttemptDraft) models.QuizAttempt {
	attempt := models.QuizAttempt{ID: uuid.NewString(), AttemptDraft: draft}
	if attempt.Answers == nil {
		attempt.Answers = []models.AnswerRecord{}
	}
	s.putAttempt(attempt)
	return attempt
}

// ListAttempts returns every attempt, or those of quizID when non-empty.
func (s *Store) ListAttempts(quizID string) []models.QuizAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.QuizAttempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		if quizID == "" || a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) DeleteAttempt(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.attempts {
		if a.ID == id {
			s.attempts = append(s.attempts[:i], s.attempts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) putAttempt(a models.QuizAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, a)
}

func (s *Store) quizIndex(id string) int {
	for i, q := range s.quizzes {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// cloneQuiz detaches the question slice so callers cannot reach stored state.
func cloneQuiz(q models.QuizData) models.QuizData {
	questions := make([]models.Question, len(q.Questions))
	copy(questions, q.Questions)
	q.Questions = questions
	if q.TimeLimit != nil {
		limit := *q.TimeLimit
		q.TimeLimit = &limit
	}
	return q
}
