// internal/models/quiz.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

type QuestionType string

const (
	MultipleChoice   QuestionType = "multiple-choice"
	MultipleResponse QuestionType = "multiple-response"
	TrueFalse        QuestionType = "true-false"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Answer is a single option index, a list of option indices, or nothing.
// It encodes to a JSON number, array or null respectively.
type Answer struct {
	indices []int
	multi   bool
	set     bool
}

func SingleAnswer(index int) Answer {
	return Answer{indices: []int{index}, set: true}
}

func MultiAnswer(indices ...int) Answer {
	return Answer{indices: append([]int{}, indices...), multi: true, set: true}
}

// NoAnswer is the answer recorded for a skipped question.
func NoAnswer() Answer {
	return Answer{}
}

func (a Answer) IsSet() bool   { return a.set }
func (a Answer) IsMulti() bool { return a.multi }

// Index returns the single index. ok is false for list or absent answers.
func (a Answer) Index() (index int, ok bool) {
	if !a.set || a.multi {
		return 0, false
	}
	return a.indices[0], true
}

// Indices returns a copy of the chosen indices; a single answer yields one element.
func (a Answer) Indices() []int {
	return append([]int{}, a.indices...)
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case !a.set:
		return []byte("null"), nil
	case a.multi:
		if a.indices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.indices)
	default:
		return json.Marshal(a.indices[0])
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = NoAnswer()
		return nil
	case len(data) > 0 && data[0] == '[':
		var indices []int
		if err := json.Unmarshal(data, &indices); err != nil {
			return fmt.Errorf("answer list: %w", err)
		}
		*a = MultiAnswer(indices...)
		return nil
	default:
		var index int
		if err := json.Unmarshal(data, &index); err != nil {
			return fmt.Errorf("answer index: %w", err)
		}
		*a = SingleAnswer(index)
		return nil
	}
}

func (a Answer) String() string {
	switch {
	case !a.set:
		return "none"
	case a.multi:
		return fmt.Sprint(a.indices)
	default:
		return fmt.Sprint(a.indices[0])
	}
}

type Question struct {
	ID            int          `json:"id"`
	Text          string       `json:"text" validate:"required"`
	Options       []string     `json:"options" validate:"min=1"`
	CorrectAnswer Answer       `json:"correctAnswer"`
	Type          QuestionType `json:"type" validate:"oneof=multiple-choice multiple-response true-false"`
	Image         string       `json:"image,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
}

// IsCorrect grades a user answer. Multiple-response answers compare as sets.
func (q Question) IsCorrect(answer Answer) bool {
	if !answer.IsSet() || !q.CorrectAnswer.IsSet() {
		return false
	}
	if q.Type != MultipleResponse {
		want, ok := q.CorrectAnswer.Index()
		if !ok {
			return false
		}
		got, ok := answer.Index()
		return ok && got == want
	}
	want := sortedUnique(q.CorrectAnswer.Indices())
	got := sortedUnique(answer.Indices())
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

func sortedUnique(in []int) []int {
	sort.Ints(in)
	out := in[:0]
	for i, v := range in {
		if i == 0 || v != in[i-1] {
			out = append(out, v)
		}
	}
	return out
}

type QuizData struct {
	ID          string     `json:"id"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty" validate:"oneof=easy medium hard"`
	Questions   []Question `json:"questions" validate:"dive"`
	TimeLimit   *int       `json:"timeLimit,omitempty" validate:"omitempty,gt=0"`
}

// MarshalJSON writes a nil question list as [] so stored quizzes always
// carry a list.
func (q QuizData) MarshalJSON() ([]byte, error) {
	type plain QuizData
	if q.Questions == nil {
		q.Questions = []Question{}
	}
	return json.Marshal(plain(q))
}

// NextQuestionID is max(existing ids, 0) + 1.
func (q QuizData) NextQuestionID() int {
	maxID := 0
	for _, question := range q.Questions {
		if question.ID > maxID {
			maxID = question.ID
		}
	}
	return maxID + 1
}

// QuestionIndex returns the position of the question with the given id, or -1.
func (q QuizData) QuestionIndex(id int) int {
	for i, question := range q.Questions {
		if question.ID == id {
			return i
		}
	}
	return -1
}

type AnswerRecord struct {
	QuestionID int    `json:"questionId"`
	UserAnswer Answer `json:"userAnswer"`
	Correct    bool   `json:"correct"`
}

type QuizAttempt struct {
	ID string `json:"id"`
	AttemptDraft
}
