// internal/quiz/service.go
package quiz

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"quiz-data-client/internal/models"
	"quiz-data-client/pkg/httpclient"
	"quiz-data-client/pkg/logger"
)

// Service is the quiz data client. It holds no state between calls: every
// operation re-fetches or re-sends the full entity.
//
// AddQuestion, UpdateQuestion and DeleteQuestion fetch the quiz, change it
// locally and PUT it back with no concurrency token. Concurrent writers to
// the same quiz lose updates; the last write wins.
type Service struct {
	repo *Repository
	log  *logger.Logger
	now  func() time.Time
}

type ServiceOption func(*Service)

// WithClock sets the time source used to stamp attempts.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(repo *Repository, log *logger.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = logger.Discard()
	}
	s := &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetAllQuizzes(ctx context.Context) ([]models.QuizData, error) {
	quizzes, err := s.repo.ListQuizzes(ctx)
	if err != nil {
		return nil, s.fail("GetAllQuizzes", MsgLoadQuizzes, err, true)
	}
	return quizzes, nil
}

func (s *Service) GetQuizByID(ctx context.Context, id string) (*models.QuizData, error) {
	quiz, err := s.repo.GetQuiz(ctx, id)
	if err != nil {
		return nil, s.fail("GetQuizByID", MsgLoadQuiz, err, false)
	}
	return quiz, nil
}

func (s *Service) CreateQuiz(ctx context.Context, quiz models.QuizData) (*models.QuizData, error) {
	created, err := s.repo.CreateQuiz(ctx, quiz)
	if err != nil {
		return nil, s.fail("CreateQuiz", MsgCreateQuiz, err, false)
	}
	return created, nil
}

// SaveQuiz replaces the quiz stored under quiz.ID.
func (s *Service) SaveQuiz(ctx context.Context, quiz models.QuizData) (*models.QuizData, error) {
	saved, err := s.repo.UpdateQuiz(ctx, quiz)
	if err != nil {
		return nil, s.fail("SaveQuiz", MsgSaveQuiz, err, false)
	}
	return saved, nil
}

// AddQuestion appends question with id max(existing ids, 0)+1 and returns it
// with that id. Any id already on question is ignored.
func (s *Service) AddQuestion(ctx context.Context, quizID string, question models.Question) (*models.Question, error) {
	quiz, err := s.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, s.fail("AddQuestion", MsgAddQuestion, err, false)
	}

	question.ID = quiz.NextQuestionID()
	quiz.Questions = append(quiz.Questions, question)

	if _, err := s.repo.UpdateQuiz(ctx, *quiz); err != nil {
		return nil, s.fail("AddQuestion", MsgAddQuestion, err, false)
	}
	return &question, nil
}

// UpdateQuestion replaces the question whose id matches question.ID. The quiz
// is not saved when no question matches.
func (s *Service) UpdateQuestion(ctx context.Context, quizID string, question models.Question) error {
	quiz, err := s.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return s.fail("UpdateQuestion", MsgUpdateQuestion, err, false)
	}

	index := quiz.QuestionIndex(question.ID)
	if index == -1 {
		return s.fail("UpdateQuestion", MsgUpdateQuestion, ErrQuestionNotFound, false)
	}
	quiz.Questions[index] = question

	if _, err := s.repo.UpdateQuiz(ctx, *quiz); err != nil {
		return s.fail("UpdateQuestion", MsgUpdateQuestion, err, false)
	}
	return nil
}

// DeleteQuestion removes the question with questionID. An unknown id is a
// no-op, but the quiz is still saved.
func (s *Service) DeleteQuestion(ctx context.Context, quizID string, questionID int) error {
	quiz, err := s.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return s.fail("DeleteQuestion", MsgDeleteQuestion, err, false)
	}

	kept := make([]models.Question, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if q.ID != questionID {
			kept = append(kept, q)
		}
	}
	quiz.Questions = kept

	if _, err := s.repo.UpdateQuiz(ctx, *quiz); err != nil {
		return s.fail("DeleteQuestion", MsgDeleteQuestion, err, false)
	}
	return nil
}

// SaveAttempt records one completed run of quiz. totalQuestions must be
// positive; otherwise nothing is sent.
func (s *Service) SaveAttempt(ctx context.Context, quiz models.QuizData, score, totalQuestions int, answers []models.AnswerRecord) (*models.QuizAttempt, error) {
	draft, err := models.NewAttemptDraft(quiz, score, totalQuestions, answers, s.now())
	if err != nil {
		return nil, s.fail("SaveAttempt", MsgSaveAttempt, err, false)
	}

	attempt, err := s.repo.CreateAttempt(ctx, draft)
	if err != nil {
		return nil, s.fail("SaveAttempt", MsgSaveAttempt, err, false)
	}
	return attempt, nil
}

// GetAttempts lists all attempts, or only those of quizID when it is non-empty.
func (s *Service) GetAttempts(ctx context.Context, quizID string) ([]models.QuizAttempt, error) {
	attempts, err := s.repo.ListAttempts(ctx, quizID)
	if err != nil {
		return nil, s.fail("GetAttempts", MsgLoadAttempts, err, false)
	}
	return attempts, nil
}

// ClearAttempts deletes every attempt, one request each, all in flight at
// once. It fails if any delete fails; deletions that already succeeded stay
// done, and one failure does not cancel the others.
func (s *Service) ClearAttempts(ctx context.Context) error {
	attempts, err := s.repo.ListAttempts(ctx, "")
	if err != nil {
		return s.fail("ClearAttempts", MsgClearAttempts, err, false)
	}

	var g errgroup.Group
	for _, attempt := range attempts {
		id := attempt.ID
		g.Go(func() error {
			return s.repo.DeleteAttempt(ctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		return s.fail("ClearAttempts", MsgClearAttempts, err, false)
	}

	s.log.WithOp("ClearAttempts").WithField("count", len(attempts)).Info("attempts cleared")
	return nil
}

// fail replaces err with the operation's fixed message. A timeout always
// gets the timeout message; offline gets its own message only where
// reportOffline is set.
func (s *Service) fail(op, message string, err error, reportOffline bool) error {
	kind := httpclient.KindOf(err)
	switch {
	case kind == httpclient.KindTimeout:
		message = MsgTimeout
	case kind == httpclient.KindOffline && reportOffline:
		message = MsgOffline
	}

	s.log.WithOp(op).
		WithField("kind", kind.String()).
		WithError(err).
		Warn("operation failed")

	return &Error{Op: op, Kind: kind, Message: message, Err: err}
}
