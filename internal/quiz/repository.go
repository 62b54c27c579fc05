// internal/quiz/repository.go
package quiz

import (
	"context"
	"net/http"
	"net/url"

	"quiz-data-client/internal/models"
	"quiz-data-client/pkg/httpclient"
)

// Transport is the request primitive the repository runs on.
type Transport interface {
	Do(ctx context.Context, req httpclient.Request, out any, opts ...httpclient.RequestOption) error
}

// Repository maps each REST route onto one call. It does no error
// translation; that is the service's job.
type Repository struct {
	http Transport
}

func NewRepository(transport Transport) *Repository {
	return &Repository{http: transport}
}

func (r *Repository) ListQuizzes(ctx context.Context) ([]models.QuizData, error) {
	var quizzes []models.QuizData
	err := r.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/quizzes",
	}, &quizzes)
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *Repository) GetQuiz(ctx context.Context, id string) (*models.QuizData, error) {
	var quiz models.QuizData
	err := r.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/quizzes/" + url.PathEscape(id),
		Route:  "/quizzes/{id}",
	}, &quiz)
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) CreateQuiz(ctx context.Context, quiz models.QuizData) (*models.QuizData, error) {
	var created models.QuizData
	err := r.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/quizzes",
		Body:   quiz,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateQuiz replaces the stored quiz wholesale. There is no version check.
func (r *Repository) UpdateQuiz(ctx context.Context, quiz models.QuizData) (*models.QuizData, error) {
	var updated models.QuizData
	err := r.http.Do(ctx, httpclient.Request{
		Method: http.MethodPut,
		Path:   "/quizzes/" + url.PathEscape(quiz.ID),
		Route:  "/quizzes/{id}",
		Body:   quiz,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Repository) CreateAttempt(ctx context.Context, draft models.AttemptDraft) (*models.QuizAttempt, error) {
	var created models.QuizAttempt
	err := r.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/attempts",
		Body:   draft,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListAttempts filters server-side when quizID is non-empty.
func (r *Repository) ListAttempts(ctx context.Context, quizID string) ([]models.QuizAttempt, error) {
	req := httpclient.Request{
		Method: http.MethodGet,
		Path:   "/attempts",
	}
	if quizID != "" {
		req.Query = url.Values{"quizId": {quizID}}
	}
	var attempts []models.QuizAttempt
	if err := r.http.Do(ctx, req, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *Repository) DeleteAttempt(ctx context.Context, id string) error {
	return r.http.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   "/attempts/" + url.PathEscape(id),
		Route:  "/attempts/{id}",
	}, nil)
}
