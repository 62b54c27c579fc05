// internal/models/dto.go
package models

import (
	"errors"
	"math"
	"time"
)

// AttemptTimeLayout is ISO-8601 in UTC with millisecond precision.
const AttemptTimeLayout = "2006-01-02T15:04:05.000Z"

var ErrInvalidTotal = errors.New("total question count must be positive")

// AttemptDraft is an attempt before the API has assigned it an id.
type AttemptDraft struct {
	QuizID         string         `json:"quizId"`
	QuizName       string         `json:"quizName"`
	Date           string         `json:"date"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Percentage     int            `json:"percentage"`
	Answers        []AnswerRecord `json:"answers"`
}

// Percentage is round(score/total*100). A non-positive total is an error.
func Percentage(score, total int) (int, error) {
	if total <= 0 {
		return 0, ErrInvalidTotal
	}
	return int(math.Round(float64(score) / float64(total) * 100)), nil
}

// NewAttemptDraft snapshots the quiz identity and the answers at time at.
func NewAttemptDraft(quiz QuizData, score, total int, answers []AnswerRecord, at time.Time) (AttemptDraft, error) {
	percentage, err := Percentage(score, total)
	if err != nil {
		return AttemptDraft{}, err
	}
	snapshot := make([]AnswerRecord, len(answers))
	copy(snapshot, answers)
	return AttemptDraft{
		QuizID:         quiz.ID,
		QuizName:       quiz.Name,
		Date:           at.UTC().Format(AttemptTimeLayout),
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		Answers:        snapshot,
	}, nil
}
